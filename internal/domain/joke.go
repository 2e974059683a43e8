package domain

import (
	"time"

	"github.com/google/uuid"
)

// Joke представляет модель шутки в системе,
// соответствует таблице jokes в бд.
// UserID — владелец; назначается при создании и больше не меняется.
type Joke struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (Joke) TableName() string {
	return "jokes"
}
