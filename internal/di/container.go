package di

import (
	"github.com/GoArmGo/JokesApp/internal/app"
	"github.com/GoArmGo/JokesApp/internal/auth"
	"github.com/GoArmGo/JokesApp/internal/config"
	"github.com/GoArmGo/JokesApp/internal/database/client"
	"github.com/GoArmGo/JokesApp/internal/database/storage"
	"github.com/GoArmGo/JokesApp/internal/logger"
	"github.com/GoArmGo/JokesApp/internal/session"
	"github.com/GoArmGo/JokesApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации.
	// Отсутствие SESSION_SECRET или DATABASE_URL — фатальная ошибка:
	// без секрета кука ничем не подписана, сервис стартовать не должен.
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogCfg := logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}
	slogger := logger.NewSlog(slogCfg)

	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Инициализация PostgreSQL клиента (с миграциями)
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. Инициализация хранилищ
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	jokeStorage := storage.NewJokeStorage(dbClient.DB, slogger)

	// 4. Сессионный слой: кодек с серверным секретом + менеджер куки
	codec := session.NewCodec(cfg.SessionSecret)
	sessions := session.NewManager(codec, cfg.IsProduction())

	// 5. Auth gate поверх сессий и хранилища пользователей
	gate := auth.NewGate(sessions, userStorage, slogger)

	// 6. Инициализация бизнес-логики (usecases)
	authUseCase := usecase.NewAuthUseCase(userStorage, slogger)
	jokeUseCase := usecase.NewJokeUseCase(jokeStorage, slogger)

	// 7. Сборка итогового приложения
	application := app.NewApp(
		cfg,
		slogger,
		dbClient.DB,
		authUseCase,
		jokeUseCase,
		userStorage,
		gate,
		sessions,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
