package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/JokesApp/internal/core/ports"
	"github.com/GoArmGo/JokesApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation — код ошибки PostgreSQL для нарушения ограничения UNIQUE
const uniqueViolation = "23505"

// UserStorage реализует интерфейс ports.UserStorage поверх PostgreSQL
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// GetUserByID получает пользователя по ID.
// Возвращает (nil, nil), если пользователь не найден.
func (s *UserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по ID: %w", err)
	}
	return &user, nil
}

// GetUserByUsername получает пользователя по имени.
// Возвращает (nil, nil), если пользователь не найден.
func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get user by username", "username", username, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по имени: %w", err)
	}
	return &user, nil
}

// CreateUser создает нового пользователя.
// Занятое имя транслируется в ports.ErrUsernameTaken: при гонке двух
// регистраций вторая вставка атомарно отклоняется ограничением UNIQUE.
func (s *UserStorage) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	start := time.Now()

	now := time.Now()
	user := domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.NamedExecContext(ctx, `
        INSERT INTO users (id, username, password_hash, created_at, updated_at)
        VALUES (:id, :username, :password_hash, :created_at, :updated_at)
    `, &user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			s.logger.Warn("username already taken", "username", username)
			return nil, ports.ErrUsernameTaken
		}
		s.logger.Error("failed to insert user", "username", username, "error", err)
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}
