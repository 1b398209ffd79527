package config

import (
	"fmt"
	"path"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	PortEnv        = "PORT"
	DatabaseUrlEnv = "DATABASE_URL"
	RootPathEnv    = "ROOT_PATH"
)

type Config struct {
	Logger *zap.Logger `env:"-"`

	Port              int           `env:"PORT" envDefault:"8080"`
	DatabaseURL       string        `env:"DATABASE_URL,required,notEmpty"`
	RootPath          string        `env:"ROOT_PATH,required,notEmpty"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"game-night-session"`
	AllowedOrigins    []string      `env:"WS_ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DBConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"30s"`

	MigrationsPath string `env:"-"`
}

func Load() (Config, error) {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL '%s': %w", conf.LogLevel, err)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := loggerConfig.Build()
	if err != nil {
		return Config{}, err
	}

	conf.Logger = logger
	conf.MigrationsPath = path.Join(conf.RootPath, "db", "migrations")

	return conf, nil
}
