package ports

import (
	"context"
	"errors"

	"github.com/GoArmGo/JokesApp/internal/domain"
	"github.com/google/uuid"
)

// ErrUsernameTaken возвращается хранилищем пользователей, когда имя уже занято.
// Ограничение UNIQUE в бд — основной барьер против гонки при регистрации.
var ErrUsernameTaken = errors.New("username already taken")

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

// JokeStorage определяет методы для взаимодействия с хранилищем шуток
type JokeStorage interface {
	GetJokeByID(ctx context.Context, id uuid.UUID) (*domain.Joke, error)
	ListJokes(ctx context.Context, limit int) ([]domain.Joke, error)
	CountJokes(ctx context.Context) (int64, error)
	GetJokeByOffset(ctx context.Context, offset int64) (*domain.Joke, error)
	CreateJoke(ctx context.Context, joke *domain.Joke) error
	DeleteJoke(ctx context.Context, id uuid.UUID) error
}
