package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Payload — содержимое сессии. Схема фиксированная: единственное поле —
// идентификатор аутентифицированного пользователя. Пустой UserID означает
// анонимного посетителя.
type Payload struct {
	UserID string `json:"uid"`
}

// IsAnonymous сообщает, что в сессии нет пользователя
func (p Payload) IsAnonymous() bool {
	return p.UserID == ""
}

// tokenBody — то, что реально сериализуется в токен: payload плюс срок действия
type tokenBody struct {
	UserID    string `json:"uid"`
	ExpiresAt int64  `json:"exp"`
}

// Codec кодирует payload сессии в подписанный токен и обратно.
// Формат токена: base64url(json) + "." + base64url(HMAC-SHA256(json)).
// Подпись покрывает payload целиком вместе со сроком действия — изменение
// любого поля без знания секрета делает тег недействительным.
type Codec struct {
	secret []byte
}

// NewCodec создаёт кодек с серверным секретом
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode сериализует payload со сроком действия и подписывает его
func (c *Codec) Encode(p Payload, expiresAt time.Time) string {
	body, err := json.Marshal(tokenBody{UserID: p.UserID, ExpiresAt: expiresAt.Unix()})
	if err != nil {
		// tokenBody состоит из строки и числа — json.Marshal для него не падает
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(body) + "." + base64.RawURLEncoding.EncodeToString(c.sign(body))
}

// Decode проверяет подпись и срок действия токена.
// Любой дефект — пустой, искажённый, просроченный или подделанный токен —
// даёт (Payload{}, false): испорченная сессия никогда не валидна, но и
// никогда не роняет запрос, посетитель просто считается анонимным.
func (c *Codec) Decode(token string) (Payload, bool) {
	if token == "" {
		return Payload{}, false
	}

	bodyPart, tagPart, found := strings.Cut(token, ".")
	if !found {
		return Payload{}, false
	}

	// строгое декодирование: ненулевые хвостовые биты — это уже не тот
	// токен, который мы выдавали, даже если байты совпали бы
	body, err := base64.RawURLEncoding.Strict().DecodeString(bodyPart)
	if err != nil {
		return Payload{}, false
	}
	tag, err := base64.RawURLEncoding.Strict().DecodeString(tagPart)
	if err != nil {
		return Payload{}, false
	}

	if !hmac.Equal(tag, c.sign(body)) {
		return Payload{}, false
	}

	var tb tokenBody
	if err := json.Unmarshal(body, &tb); err != nil {
		return Payload{}, false
	}
	if tb.UserID == "" {
		return Payload{}, false
	}
	if time.Now().Unix() >= tb.ExpiresAt {
		return Payload{}, false
	}

	return Payload{UserID: tb.UserID}, true
}

func (c *Codec) sign(body []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(body)
	return mac.Sum(nil)
}
