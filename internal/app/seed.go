package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/JokesApp/internal/core/ports"
	"github.com/GoArmGo/JokesApp/internal/usecase"
)

// seedUsername / seedPassword — демо-пользователь для локальной разработки
const (
	seedUsername = "Kody"
	seedPassword = "twixrox"
)

type seedJoke struct {
	name    string
	content string
}

var seedJokes = []seedJoke{
	{
		name:    "Road worker",
		content: "I never wanted to believe that my Dad was stealing from his job as a road worker. But when I got home, all the signs were there.",
	},
	{
		name:    "Frisbee",
		content: "I was wondering why the frisbee was getting bigger, then it hit me.",
	},
	{
		name:    "Trees",
		content: "Why do trees seem suspicious on sunny days? Dunno, they're just a bit shady.",
	},
	{
		name:    "Skeletons",
		content: "Why don't skeletons ride roller coasters? They don't have the stomach for it.",
	},
	{
		name:    "Hippos",
		content: "Why don't you find hippopotamuses hiding in trees? They're really good at it.",
	},
	{
		name:    "Dinner",
		content: "What did one plate say to the other plate? Dinner is on me!",
	},
	{
		name:    "Elevator",
		content: "My first time using an elevator was an uplifting experience. The second time let me down.",
	},
}

// runSeed наполняет бд демо-пользователем и стартовым набором шуток.
// Повторный запуск безопасен: существующий пользователь переиспользуется.
func runSeed(
	ctx context.Context,
	logger *slog.Logger,
	authUseCase usecase.AuthUseCase,
	jokeUseCase usecase.JokeUseCase,
	userStorage ports.UserStorage,
) error {
	user, err := authUseCase.Register(ctx, seedUsername, seedPassword)
	if err != nil {
		if !errors.Is(err, ports.ErrUsernameTaken) {
			return fmt.Errorf("ошибка создания демо-пользователя: %w", err)
		}
		user, err = userStorage.GetUserByUsername(ctx, seedUsername)
		if err != nil || user == nil {
			return fmt.Errorf("ошибка поиска демо-пользователя: %w", err)
		}
		logger.Info("seed user already exists", "user_id", user.ID)
	}

	for _, j := range seedJokes {
		if _, err := jokeUseCase.CreateJoke(ctx, user.ID, j.name, j.content); err != nil {
			return fmt.Errorf("ошибка сохранения шутки %q: %w", j.name, err)
		}
	}

	logger.Info("seed completed", "jokes", len(seedJokes), "user_id", user.ID)
	return nil
}
