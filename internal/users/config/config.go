// Package config содержит конфигурацию сервиса пользователей.
package config

import (
	"context"
	"os"

	"go.uber.org/zap"

	"userprofiles/pkg/config"
	"userprofiles/pkg/logger"
)

const (
	// ServiceName - имя сервиса в логах.
	ServiceName = "users"
	// EnvConfigPath задает путь к env-файлу.
	EnvConfigPath = "USERS_CONFIG_PATH"
	// DefaultConfigPath используется, если EnvConfigPath не задан.
	DefaultConfigPath = "deploy/.env"

	logConfigSummary = "users service configuration"
)

// Config представляет полную конфигурацию сервиса.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из env-файла и переменных окружения.
func Load(ctx context.Context) (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg, err := config.Load[Config](ctx, ServiceName, path)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, logConfigSummary,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}
