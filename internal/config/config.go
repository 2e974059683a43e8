package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	ServerPort  string `env:"SERVER_PORT"`

	// Секрет для подписи сессионной куки. Без него сервис не стартует:
	// кука без подписи не даёт никакой гарантии целостности.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// AppEnv: "development" или "production".
	// В production на сессионную куку ставится флаг Secure.
	AppEnv string `env:"APP_ENV"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// IsProduction сообщает, запущено ли приложение в production-окружении.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	// env.Parse обрабатывает "required" и парсит типы,
	// значения по умолчанию выставляем вручную ниже
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	return &cfg, nil
}
