package config

import (
	"fmt"
	"net/url"
	"time"
)

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host          string `yaml:"host" env:"USERS_POSTGRES_HOST" env-default:"localhost"`
	Port          int    `yaml:"port" env:"USERS_POSTGRES_PORT" env-default:"5432"`
	User          string `yaml:"user" env:"USERS_POSTGRES_USER" env-default:"postgres"`
	Password      string `yaml:"password" env:"USERS_POSTGRES_PASSWORD" env-default:"postgres"`
	Database      string `yaml:"database" env:"USERS_POSTGRES_DB" env-default:"users"`
	SSLMode       string `yaml:"ssl_mode" env:"USERS_POSTGRES_SSL_MODE" env-default:"disable"`
	MinConn       int    `yaml:"min_conn" env:"USERS_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn       int    `yaml:"max_conn" env:"USERS_POSTGRES_MAX_CONN" env-default:"10"`
	MigrationsDir string `yaml:"migrations_dir" env:"USERS_POSTGRES_MIGRATIONS_DIR" env-default:"migrations/users"`
	// ConnectAttempts и ConnectBackoff управляют ожиданием базы при старте.
	ConnectAttempts int           `yaml:"connect_attempts" env:"USERS_POSTGRES_CONNECT_ATTEMPTS" env-default:"5"`
	ConnectBackoff  time.Duration `yaml:"connect_backoff" env:"USERS_POSTGRES_CONNECT_BACKOFF" env-default:"500ms"`
	// MaxConnIdleTime закрывает соединения, простаивающие дольше заданного.
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"USERS_POSTGRES_MAX_CONN_IDLE_TIME" env-default:"5m"`
}

// GetDSN возвращает строку подключения к Postgres.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// GetConnectionURL возвращает URL-строку подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     p.Database,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}
