// Package cache определяет интерфейсы для кэширования.
package cache

import (
	"context"
	"time"
)

// Cache определяет интерфейс для работы с кэшем.
// Get возвращает пустую строку и false, если ключа нет.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// Incr атомарно увеличивает счетчик key и возвращает новое значение.
	Incr(ctx context.Context, key string) (int64, error)

	// SetIfUnchanged записывает value, только если guardKey все еще содержит
	// expected (пустая строка означает отсутствие ключа). Возвращает false,
	// если guardKey изменился до записи.
	SetIfUnchanged(ctx context.Context, guardKey, expected, key, value string, ttl time.Duration) (bool, error)

	Close() error
}
