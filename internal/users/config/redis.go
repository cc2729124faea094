package config

import (
	"fmt"
	"time"

	redisdb "userprofiles/pkg/db/redis"
)

// RedisConfig представляет конфигурацию кэша списка пользователей.
type RedisConfig struct {
	Enabled         bool          `yaml:"enabled" env:"USERS_REDIS_ENABLED" env-default:"false"`
	Host            string        `yaml:"host" env:"USERS_REDIS_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"USERS_REDIS_PORT" env-default:"6379"`
	Password        string        `yaml:"password" env:"USERS_REDIS_PASSWORD" env-default:""`
	DB              int           `yaml:"db" env:"USERS_REDIS_DB" env-default:"0"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"USERS_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"USERS_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"USERS_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize        int           `yaml:"pool_size" env:"USERS_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle         int           `yaml:"min_idle" env:"USERS_REDIS_MIN_IDLE" env-default:"2"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"USERS_REDIS_IDLE_TIMEOUT" env-default:"5m"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"USERS_REDIS_MAX_CONN_LIFETIME" env-default:"1h"`
	DefaultTTL      time.Duration `yaml:"default_ttl" env:"USERS_REDIS_DEFAULT_TTL" env-default:"1m"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ClientConfig переводит настройки в параметры клиента.
func (c *RedisConfig) ClientConfig() *redisdb.Config {
	return &redisdb.Config{
		Addr:            c.GetAddress(),
		Password:        c.Password,
		DB:              c.DB,
		PoolSize:        c.PoolSize,
		MinIdleConns:    c.MinIdle,
		DialTimeout:     c.ConnectTimeout,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		ConnMaxIdleTime: c.IdleTimeout,
		ConnMaxLifetime: c.MaxConnLifetime,
	}
}
