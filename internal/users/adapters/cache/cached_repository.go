package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"userprofiles/internal/users/domain/entities"
	"userprofiles/internal/users/ports/cache"
	"userprofiles/internal/users/ports/repositories"
	"userprofiles/pkg/logger"
)

// Ключи кэша списка. Поколение растет при каждой записи в хранилище, и список,
// прочитанный до записи, уже не попадет в кэш.
const (
	UsersListKey       = "users:all"
	UsersGenerationKey = "users:all:gen"
)

const (
	logCacheHit        = "users list served from cache"
	logCacheReadFailed = "failed to read users list from cache"
	logCacheDecode     = "cached users list is corrupted"
	logCacheWrite      = "failed to store users list in cache"
	logCacheInvalidate = "failed to invalidate users list"
	logCacheStale      = "users list changed while loading, not cached"
	logCacheBypass     = "users list cache bypassed until invalidation succeeds"
)

// CachedUserRepository кэширует FindAll и сбрасывает кэш после каждой записи.
// Ошибки кэша только логируются: запрос всегда обслуживает хранилище.
// Пока сброс после записи не удался, кэш не читается и не пополняется.
type CachedUserRepository struct {
	next  repositories.UserRepository
	cache cache.Cache
	ttl   time.Duration
	dirty atomic.Bool
}

// NewCachedUserRepository оборачивает репозиторий кэшем.
func NewCachedUserRepository(next repositories.UserRepository, c cache.Cache, ttl time.Duration) repositories.UserRepository {
	return &CachedUserRepository{next: next, cache: c, ttl: ttl}
}

// FindAll возвращает список из кэша или загружает его из хранилища.
func (r *CachedUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "CachedUserRepository.FindAll"))

	if r.dirty.Load() && !r.invalidate(ctx) {
		log.Warn(ctx, logCacheBypass)
		return r.next.FindAll(ctx)
	}

	generation, _, err := r.cache.Get(ctx, UsersGenerationKey)
	if err != nil {
		log.Warn(ctx, logCacheReadFailed, zap.Error(err))
		return r.next.FindAll(ctx)
	}

	raw, found, err := r.cache.Get(ctx, UsersListKey)
	switch {
	case err != nil:
		log.Warn(ctx, logCacheReadFailed, zap.Error(err))
	case found:
		var users []*entities.User
		if err := json.Unmarshal([]byte(raw), &users); err == nil {
			log.Debug(ctx, logCacheHit, zap.Int("count", len(users)))
			return users, nil
		}
		log.Warn(ctx, logCacheDecode)
	}

	users, err := r.next.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(users)
	if err != nil {
		return users, nil
	}
	stored, err := r.cache.SetIfUnchanged(ctx, UsersGenerationKey, generation, UsersListKey, string(payload), r.ttl)
	switch {
	case err != nil:
		log.Warn(ctx, logCacheWrite, zap.Error(err))
	case !stored:
		log.Debug(ctx, logCacheStale)
	}

	return users, nil
}

// FindByID не кэшируется.
func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.next.FindByID(ctx, id)
}

// Insert сохраняет запись и сбрасывает список.
func (r *CachedUserRepository) Insert(ctx context.Context, user *entities.User) (*entities.User, error) {
	stored, err := r.next.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return stored, nil
}

// Replace заменяет запись и сбрасывает список.
func (r *CachedUserRepository) Replace(ctx context.Context, user *entities.User) (*entities.User, error) {
	stored, err := r.next.Replace(ctx, user)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return stored, nil
}

// Delete удаляет запись и сбрасывает список.
func (r *CachedUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// invalidate сдвигает поколение и удаляет список. При ошибке репозиторий
// помечается грязным и повторяет сброс при следующем чтении.
func (r *CachedUserRepository) invalidate(ctx context.Context) bool {
	if _, err := r.cache.Incr(ctx, UsersGenerationKey); err != nil {
		logger.Log(ctx).Warn(ctx, logCacheInvalidate, zap.Error(err))
		r.dirty.Store(true)
		return false
	}
	if err := r.cache.Delete(ctx, UsersListKey); err != nil {
		logger.Log(ctx).Warn(ctx, logCacheInvalidate, zap.Error(err))
		r.dirty.Store(true)
		return false
	}
	r.dirty.Store(false)
	return true
}
