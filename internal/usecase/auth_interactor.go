package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/JokesApp/internal/core/ports"
	"github.com/GoArmGo/JokesApp/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost — стоимость хеширования пароля
const bcryptCost = 10

// authUseCase implements AuthUseCase
type authUseCase struct {
	userStorage ports.UserStorage
	logger      *slog.Logger
}

// NewAuthUseCase создает новый экземпляр AuthUseCase
func NewAuthUseCase(userStorage ports.UserStorage, logger *slog.Logger) AuthUseCase {
	return &authUseCase{
		userStorage: userStorage,
		logger:      logger,
	}
}

// Login ищет пользователя по имени и сверяет пароль с bcrypt-хешем.
// Отказ по любой причине — неизвестное имя, неверный пароль, битый хеш —
// выглядит одинаково: (nil, nil).
func (u *authUseCase) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := u.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}

	u.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// Register создаёт пользователя с bcrypt-хешем пароля.
// Предварительная проверка имени — оптимизация для внятной ошибки;
// гарантию от гонки даёт ограничение UNIQUE в хранилище.
func (u *authUseCase) Register(ctx context.Context, username, password string) (*domain.User, error) {
	existing, err := u.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки имени пользователя: %w", err)
	}
	if existing != nil {
		return nil, ports.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user, err := u.userStorage.CreateUser(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}

	u.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}
