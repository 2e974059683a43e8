package auth

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/GoArmGo/JokesApp/internal/core/ports"
	"github.com/GoArmGo/JokesApp/internal/domain"
	"github.com/GoArmGo/JokesApp/internal/session"
	"github.com/google/uuid"
)

// LoginPath — куда отправляется неаутентифицированный вызывающий
const LoginPath = "/login"

// Gate отвечает на вопрос "кто вызывающий".
// Опциональный вариант (UserID) никогда не ошибается, обязательный
// (RequireUserID) при отсутствии сессии сам пишет redirect на страницу
// логина — дальше обработчик не должен выполнять никакой логики.
type Gate struct {
	sessions *session.Manager
	users    ports.UserStorage
	logger   *slog.Logger
}

// NewGate создаёт новый экземпляр Gate
func NewGate(sessions *session.Manager, users ports.UserStorage, logger *slog.Logger) *Gate {
	return &Gate{sessions: sessions, users: users, logger: logger}
}

// UserID возвращает id пользователя из сессии запроса.
// false — аноним либо кривое значение в сессии; ошибкой это не считается.
func (g *Gate) UserID(r *http.Request) (uuid.UUID, bool) {
	p := g.sessions.Read(r)
	if p.IsAnonymous() {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequireUserID требует аутентифицированного вызывающего.
// Если сессии нет, пишет в ответ redirect на /login?redirectTo=<путь запроса>
// и возвращает false — вызывающий код обязан проверить второй результат и
// немедленно выйти. Это контракт управления потоком: после false ни одна
// строчка логики обработчика выполняться не должна.
func (g *Gate) RequireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := g.UserID(r)
	if !ok {
		params := url.Values{"redirectTo": {r.URL.Path}}
		http.Redirect(w, r, LoginPath+"?"+params.Encode(), http.StatusFound)
		return uuid.Nil, false
	}
	return id, true
}

// User возвращает полную запись пользователя по сессии.
// Аноним — это (nil, true): вызывающий может продолжать без пользователя.
// Если же сессия ссылается на пользователя, которого больше нет (удалён
// в обход сервиса), сессия считается испорченной: кука сбрасывается,
// пишется redirect на /login и возвращается false.
func (g *Gate) User(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	id, ok := g.UserID(r)
	if !ok {
		return nil, true
	}

	user, err := g.users.GetUserByID(r.Context(), id)
	if err != nil || user == nil {
		if err != nil {
			g.logger.Error("failed to resolve session user", "user_id", id, "error", err)
		} else {
			g.logger.Warn("session references missing user, invalidating", "user_id", id)
		}
		g.sessions.Clear(w)
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return nil, false
	}

	return user, true
}
