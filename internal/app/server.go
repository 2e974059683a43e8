package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/JokesApp/internal/auth"
	"github.com/GoArmGo/JokesApp/internal/config"
	"github.com/GoArmGo/JokesApp/internal/handler"
	"github.com/GoArmGo/JokesApp/internal/session"
	"github.com/GoArmGo/JokesApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// runServer запускает HTTP сервер
func runServer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	jokeUseCase usecase.JokeUseCase,
	authUseCase usecase.AuthUseCase,
	gate *auth.Gate,
	sessions *session.Manager,
) error {
	jokeHandler := handler.NewJokeHandler(jokeUseCase, gate, logger)
	authHandler := handler.NewAuthHandler(authUseCase, sessions, logger)

	r := chi.NewRouter()
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/jokes", jokeHandler.GetJokesOverview)
	r.Get("/jokes/random", jokeHandler.GetRandomJoke)
	r.Get("/jokes/new", jokeHandler.GetNewJokeForm)
	r.Post("/jokes", jokeHandler.CreateJoke)
	r.Get("/jokes/{jokeID}", jokeHandler.GetJoke)
	r.Post("/jokes/{jokeID}", jokeHandler.DeleteJoke)

	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)
	r.Get("/logout", authHandler.LogoutPage)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка при запуске сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping server")

	ctxServer, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
