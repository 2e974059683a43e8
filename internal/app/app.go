package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/JokesApp/internal/auth"
	"github.com/GoArmGo/JokesApp/internal/config"
	"github.com/GoArmGo/JokesApp/internal/core/ports"
	"github.com/GoArmGo/JokesApp/internal/session"
	"github.com/GoArmGo/JokesApp/internal/usecase"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Config      *config.Config
	logger      *slog.Logger
	db          *sqlx.DB
	authUseCase usecase.AuthUseCase
	jokeUseCase usecase.JokeUseCase
	userStorage ports.UserStorage
	gate        *auth.Gate
	sessions    *session.Manager
}

func NewApp(cfg *config.Config,
	logger *slog.Logger,
	db *sqlx.DB,
	authUseCase usecase.AuthUseCase,
	jokeUseCase usecase.JokeUseCase,
	userStorage ports.UserStorage,
	gate *auth.Gate,
	sessions *session.Manager) *App {
	return &App{
		Config:      cfg,
		logger:      logger,
		db:          db,
		authUseCase: authUseCase,
		jokeUseCase: jokeUseCase,
		userStorage: userStorage,
		gate:        gate,
		sessions:    sessions,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

func (a *App) Run(ctx context.Context, mode *string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", *mode)

	var err error

	switch *mode {
	case "server":
		err = runServer(ctx, a.Config, a.logger, a.jokeUseCase, a.authUseCase, a.gate, a.sessions)

	case "seed":
		err = runSeed(ctx, a.logger, a.authUseCase, a.jokeUseCase, a.userStorage)

	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'seed')", *mode)
	}

	if err != nil {
		return err
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown error", "error", closeErr)
	}

	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
	}
	return nil
}
