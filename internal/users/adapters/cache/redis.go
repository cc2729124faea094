// Package cache содержит реализацию кэширования с использованием Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"userprofiles/internal/users/config"
	"userprofiles/internal/users/ports/cache"
	redisdb "userprofiles/pkg/db/redis"
	"userprofiles/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodGet    = "RedisCache.Get"
	LogMethodSet    = "RedisCache.Set"
	LogMethodDelete = "RedisCache.Delete"
	LogMethodIncr   = "RedisCache.Incr"
	LogMethodGuard  = "RedisCache.SetIfUnchanged"

	ErrorFailedToGet    = "failed to get value from redis"
	ErrorFailedToSet    = "failed to set value in redis"
	ErrorFailedToDelete = "failed to delete value from redis"
	ErrorFailedToClose  = "failed to close redis connection"
	ErrorFailedToIncr   = "failed to increment counter in redis"
)

// RedisCache реализует интерфейс Cache с использованием Redis.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache подключается к Redis и создает новый экземпляр RedisCache.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig) (cache.Cache, error) {
	client, err := redisdb.NewClient(ctx, cfg.ClientConfig())
	if err != nil {
		return nil, err
	}

	return NewRedisCacheWithClient(client, cfg.DefaultTTL), nil
}

// NewRedisCacheWithClient оборачивает готовый клиент.
func NewRedisCacheWithClient(client *redis.Client, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

// Get получает значение по ключу.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet), zap.String("key", key))

	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return "", false, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return value, true, nil
}

// Set устанавливает значение для ключа. Нулевой ttl заменяется значением по умолчанию.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Delete удаляет значение по ключу.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodDelete), zap.String("key", key))

	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// Incr увеличивает счетчик по ключу.
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	value, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToIncr,
			zap.String("method", LogMethodIncr), zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrorFailedToIncr, err)
	}
	return value, nil
}

// SetIfUnchanged пишет key в транзакции под WATCH guardKey. Если guardKey
// изменился между проверкой и EXEC, Redis отменяет транзакцию.
func (c *RedisCache) SetIfUnchanged(ctx context.Context, guardKey, expected, key, value string, ttl time.Duration) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGuard), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	stored := false
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, guardKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != expected {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, guardKey)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return false, nil
	case err != nil:
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}
	return stored, nil
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
