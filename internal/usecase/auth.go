package usecase

import (
	"context"

	"github.com/GoArmGo/JokesApp/internal/domain"
)

// AuthUseCase определяет бизнес-логику аутентификации
type AuthUseCase interface {
	// Login проверяет пару имя/пароль.
	// Неизвестное имя и неверный пароль неразличимы: оба дают (nil, nil),
	// чтобы форма ответа не выдавала, какие имена существуют.
	Login(ctx context.Context, username, password string) (*domain.User, error)

	// Register создаёт нового пользователя.
	// Занятое имя — ports.ErrUsernameTaken, существующая запись не трогается.
	Register(ctx context.Context, username, password string) (*domain.User, error)
}
