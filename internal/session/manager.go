package session

import (
	"net/http"
	"time"
)

// CookieName — имя сессионной куки
const CookieName = "RJ_session"

// Lifetime — срок жизни сессии (30 дней)
const Lifetime = 30 * 24 * time.Hour

// Manager читает payload сессии из входящего запроса и выставляет
// заголовки Set-Cookie на исходящем ответе. Сервер не держит таблицу
// сессий: всё состояние лежит в подписанной куке на стороне клиента,
// поэтому "уничтожить" сессию — значит велеть клиенту забыть токен.
type Manager struct {
	codec  *Codec
	secure bool
}

// NewManager создаёт Manager.
// secure включает флаг Secure на куке (production-окружение).
func NewManager(codec *Codec, secure bool) *Manager {
	return &Manager{codec: codec, secure: secure}
}

// Read извлекает payload сессии из куки запроса.
// Всегда возвращает payload (возможно пустой), никогда не ошибается.
func (m *Manager) Read(r *http.Request) Payload {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Payload{}
	}

	p, ok := m.codec.Decode(cookie.Value)
	if !ok {
		return Payload{}
	}
	return p
}

// Write выставляет куку со свежеподписанным токеном
func (m *Manager) Write(w http.ResponseWriter, p Payload) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    m.codec.Encode(p, time.Now().Add(Lifetime)),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(Lifetime.Seconds()),
		Expires:  time.Now().Add(Lifetime),
	})
}

// Clear велит клиенту немедленно забыть токен
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
