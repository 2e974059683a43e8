package usecase

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/GoArmGo/JokesApp/internal/core/ports"
	"github.com/GoArmGo/JokesApp/internal/domain"
	"github.com/google/uuid"
)

// jokeUseCase implements JokeUseCase
type jokeUseCase struct {
	jokeStorage ports.JokeStorage
	logger      *slog.Logger
}

// NewJokeUseCase создает новый экземпляр JokeUseCase
func NewJokeUseCase(jokeStorage ports.JokeStorage, logger *slog.Logger) JokeUseCase {
	return &jokeUseCase{
		jokeStorage: jokeStorage,
		logger:      logger,
	}
}

// RandomJoke выбирает шутку со случайным смещением от общего количества
func (u *jokeUseCase) RandomJoke(ctx context.Context) (*domain.Joke, error) {
	count, err := u.jokeStorage.CountJokes(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrJokeNotFound
	}

	joke, err := u.jokeStorage.GetJokeByOffset(ctx, rand.Int63n(count))
	if err != nil {
		return nil, err
	}
	if joke == nil {
		// между count и выборкой шутку могли удалить
		return nil, ErrJokeNotFound
	}
	return joke, nil
}

// RecentJokes возвращает последние limit шуток
func (u *jokeUseCase) RecentJokes(ctx context.Context, limit int) ([]domain.Joke, error) {
	return u.jokeStorage.ListJokes(ctx, limit)
}

// GetJoke возвращает шутку по id
func (u *jokeUseCase) GetJoke(ctx context.Context, id uuid.UUID) (*domain.Joke, error) {
	joke, err := u.jokeStorage.GetJokeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if joke == nil {
		return nil, ErrJokeNotFound
	}
	return joke, nil
}

// CreateJoke сохраняет новую шутку
func (u *jokeUseCase) CreateJoke(ctx context.Context, ownerID uuid.UUID, name, content string) (*domain.Joke, error) {
	now := time.Now()
	joke := &domain.Joke{
		ID:        uuid.New(),
		UserID:    ownerID,
		Name:      name,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.jokeStorage.CreateJoke(ctx, joke); err != nil {
		return nil, err
	}
	return joke, nil
}

// DeleteJoke проверяет существование, затем владение, затем удаляет
func (u *jokeUseCase) DeleteJoke(ctx context.Context, callerID, jokeID uuid.UUID) error {
	joke, err := u.jokeStorage.GetJokeByID(ctx, jokeID)
	if err != nil {
		return err
	}
	if joke == nil {
		return ErrJokeNotFound
	}
	if joke.UserID != callerID {
		u.logger.Warn("delete denied, caller is not the owner",
			"joke_id", jokeID,
			"owner_id", joke.UserID,
			"caller_id", callerID,
		)
		return ErrNotJokeOwner
	}

	return u.jokeStorage.DeleteJoke(ctx, jokeID)
}
