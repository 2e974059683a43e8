package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/JokesApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// JokeStorage реализует интерфейс ports.JokeStorage поверх PostgreSQL
type JokeStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewJokeStorage создает новый экземпляр JokeStorage
func NewJokeStorage(db *sqlx.DB, logger *slog.Logger) *JokeStorage {
	return &JokeStorage{db: db, logger: logger}
}

// CreateJoke сохраняет шутку в базе данных
func (s *JokeStorage) CreateJoke(ctx context.Context, joke *domain.Joke) error {
	start := time.Now()

	if joke.ID == uuid.Nil {
		joke.ID = uuid.New()
	}

	query := `
	INSERT INTO jokes (id, user_id, name, content, created_at, updated_at)
	VALUES (:id, :user_id, :name, :content, :created_at, :updated_at)
	`

	_, err := s.db.NamedExecContext(ctx, query, joke)
	if err != nil {
		s.logger.Error("failed to save joke", "joke_id", joke.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении шутки: %w", err)
	}

	s.logger.Info("joke saved successfully",
		"joke_id", joke.ID,
		"user_id", joke.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetJokeByID получает шутку по ID.
// Возвращает (nil, nil), если шутка не найдена.
func (s *JokeStorage) GetJokeByID(ctx context.Context, id uuid.UUID) (*domain.Joke, error) {
	var joke domain.Joke
	query := `SELECT * FROM jokes WHERE id = $1 LIMIT 1`

	err := s.db.GetContext(ctx, &joke, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get joke by id", "joke_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении шутки по ID: %w", err)
	}
	return &joke, nil
}

// ListJokes получает последние шутки, новые первыми
func (s *JokeStorage) ListJokes(ctx context.Context, limit int) ([]domain.Joke, error) {
	var jokes []domain.Joke
	query := `SELECT * FROM jokes ORDER BY created_at DESC LIMIT $1`

	err := s.db.SelectContext(ctx, &jokes, query, limit)
	if err != nil {
		s.logger.Error("failed to list jokes", "limit", limit, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка шуток: %w", err)
	}
	return jokes, nil
}

// CountJokes возвращает общее количество шуток
func (s *JokeStorage) CountJokes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM jokes`)
	if err != nil {
		s.logger.Error("failed to count jokes", "error", err)
		return 0, fmt.Errorf("ошибка при подсчёте шуток: %w", err)
	}
	return count, nil
}

// GetJokeByOffset получает одну шутку со смещением offset —
// используется для выборки случайной шутки.
// Возвращает (nil, nil), если строк нет.
func (s *JokeStorage) GetJokeByOffset(ctx context.Context, offset int64) (*domain.Joke, error) {
	var joke domain.Joke
	query := `SELECT * FROM jokes ORDER BY created_at OFFSET $1 LIMIT 1`

	err := s.db.GetContext(ctx, &joke, query, offset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get joke by offset", "offset", offset, "error", err)
		return nil, fmt.Errorf("ошибка при выборке случайной шутки: %w", err)
	}
	return &joke, nil
}

// DeleteJoke удаляет шутку по ID
func (s *JokeStorage) DeleteJoke(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	_, err := s.db.ExecContext(ctx, `DELETE FROM jokes WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete joke", "joke_id", id, "error", err)
		return fmt.Errorf("ошибка при удалении шутки: %w", err)
	}

	s.logger.Info("joke deleted",
		"joke_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
