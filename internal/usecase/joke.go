package usecase

import (
	"context"
	"errors"

	"github.com/GoArmGo/JokesApp/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrJokeNotFound — шутки с таким id нет (или таблица пуста при выборке случайной)
	ErrJokeNotFound = errors.New("joke not found")
	// ErrNotJokeOwner — вызывающий не владелец шутки
	ErrNotJokeOwner = errors.New("caller is not the joke owner")
)

// JokeUseCase определяет бизнес-логику работы с шутками
type JokeUseCase interface {
	// RandomJoke возвращает случайную шутку; ErrJokeNotFound, если шуток нет
	RandomJoke(ctx context.Context) (*domain.Joke, error)

	// RecentJokes возвращает последние limit шуток, новые первыми
	RecentJokes(ctx context.Context, limit int) ([]domain.Joke, error)

	// GetJoke возвращает шутку по id; ErrJokeNotFound, если её нет
	GetJoke(ctx context.Context, id uuid.UUID) (*domain.Joke, error)

	// CreateJoke сохраняет новую шутку с владельцем ownerID
	CreateJoke(ctx context.Context, ownerID uuid.UUID, name, content string) (*domain.Joke, error)

	// DeleteJoke удаляет шутку от имени callerID.
	// Порядок проверок фиксирован: сначала существование (ErrJokeNotFound),
	// потом владение (ErrNotJokeOwner).
	DeleteJoke(ctx context.Context, callerID, jokeID uuid.UUID) error
}
