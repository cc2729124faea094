package cache_test

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"userprofiles/internal/users/adapters/cache"
	"userprofiles/internal/users/config"
	"userprofiles/internal/users/domain/entities"
	cachePorts "userprofiles/internal/users/ports/cache"
	"userprofiles/internal/users/ports/repositories"
)

func mockRedisServer(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}

func newRedisCache(t *testing.T, s *miniredis.Miniredis, ttl time.Duration) *cache.RedisCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCacheWithClient(client, ttl)
}

func TestNewRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s := mockRedisServer(t)
		port, err := strconv.Atoi(s.Port())
		require.NoError(t, err)

		redisCache, err := cache.NewRedisCache(ctx, &config.RedisConfig{
			Host:           s.Host(),
			Port:           port,
			ConnectTimeout: time.Second,
			DefaultTTL:     time.Minute,
		})

		require.NoError(t, err)
		assert.Implements(t, (*cachePorts.Cache)(nil), redisCache)
		assert.NoError(t, redisCache.Close())
	})

	t.Run("connection failure", func(t *testing.T) {
		redisCache, err := cache.NewRedisCache(ctx, &config.RedisConfig{
			Host:           "127.0.0.1",
			Port:           1,
			ConnectTimeout: 100 * time.Millisecond,
			ReadTimeout:    100 * time.Millisecond,
			WriteTimeout:   100 * time.Millisecond,
		})

		require.Error(t, err)
		assert.Nil(t, redisCache)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})
}

func TestRedisCache_Operations(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	c := newRedisCache(t, s, 10*time.Minute)

	t.Run("missing key", func(t *testing.T) {
		value, found, err := c.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("set and get with default ttl", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", "v", 0))

		value, found, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "v", value)
		assert.Equal(t, 10*time.Minute, s.TTL("k"))
	})

	t.Run("explicit ttl expires", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", "v", time.Second))
		s.FastForward(2 * time.Second)

		_, found, err := c.Get(ctx, "short")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "gone", "v", 0))
		require.NoError(t, c.Delete(ctx, "gone"))
		assert.False(t, s.Exists("gone"))
	})

	t.Run("server down", func(t *testing.T) {
		down := miniredis.RunT(t)
		broken := newRedisCache(t, down, time.Minute)
		down.Close()

		_, _, err := broken.Get(ctx, "k")
		require.Error(t, err)
		assert.Contains(t, err.Error(), cache.ErrorFailedToGet)
		assert.Error(t, broken.Set(ctx, "k", "v", 0))
		assert.Error(t, broken.Delete(ctx, "k"))
		_, err = broken.Incr(ctx, "n")
		assert.Error(t, err)
		_, err = broken.SetIfUnchanged(ctx, "g", "", "k", "v", 0)
		assert.Error(t, err)
	})
}

func TestRedisCache_GuardedWrites(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	c := newRedisCache(t, s, time.Minute)

	t.Run("incr counts from zero", func(t *testing.T) {
		first, err := c.Incr(ctx, "counter")
		require.NoError(t, err)
		second, err := c.Incr(ctx, "counter")
		require.NoError(t, err)

		assert.Equal(t, int64(1), first)
		assert.Equal(t, int64(2), second)
	})

	t.Run("absent guard matches empty expectation", func(t *testing.T) {
		stored, err := c.SetIfUnchanged(ctx, "guard-absent", "", "list-a", "payload", 0)

		require.NoError(t, err)
		assert.True(t, stored)
		got, err := s.Get("list-a")
		require.NoError(t, err)
		assert.Equal(t, "payload", got)
		assert.Equal(t, time.Minute, s.TTL("list-a"))
	})

	t.Run("moved guard skips write", func(t *testing.T) {
		require.NoError(t, s.Set("guard-moved", "3"))

		stored, err := c.SetIfUnchanged(ctx, "guard-moved", "2", "list-b", "payload", time.Second)

		require.NoError(t, err)
		assert.False(t, stored)
		assert.False(t, s.Exists("list-b"))
	})
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Insert(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) Replace(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestCachedUserRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	stored := []*entities.User{{ID: "a", GivenName: "Maria"}, {ID: "b", GivenName: "Pedro"}}

	t.Run("second read is served from cache", func(t *testing.T) {
		s := mockRedisServer(t)
		repo := new(mockUserRepository)
		repo.On("FindAll", ctx).Return(stored, nil).Once()
		cached := cache.NewCachedUserRepository(repo, newRedisCache(t, s, time.Minute), time.Minute)

		first, err := cached.FindAll(ctx)
		require.NoError(t, err)
		second, err := cached.FindAll(ctx)
		require.NoError(t, err)

		assert.Equal(t, first[1].GivenName, second[1].GivenName)
		assert.True(t, s.Exists(cache.UsersListKey))
		repo.AssertExpectations(t)
	})

	t.Run("corrupted entry is reloaded", func(t *testing.T) {
		s := mockRedisServer(t)
		require.NoError(t, s.Set(cache.UsersListKey, "{not json"))
		repo := new(mockUserRepository)
		repo.On("FindAll", ctx).Return(stored, nil).Once()
		cached := cache.NewCachedUserRepository(repo, newRedisCache(t, s, time.Minute), time.Minute)

		users, err := cached.FindAll(ctx)

		require.NoError(t, err)
		assert.Len(t, users, 2)
		raw, err := s.Get(cache.UsersListKey)
		require.NoError(t, err)
		assert.True(t, json.Valid([]byte(raw)))
	})

	t.Run("cache outage falls through to store", func(t *testing.T) {
		s := miniredis.RunT(t)
		c := newRedisCache(t, s, time.Minute)
		s.Close()
		repo := new(mockUserRepository)
		repo.On("FindAll", ctx).Return(stored, nil).Twice()
		cached := cache.NewCachedUserRepository(repo, c, time.Minute)

		for range 2 {
			users, err := cached.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, users, 2)
		}
		repo.AssertExpectations(t)
	})
}

func TestCachedUserRepository_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	user := &entities.User{ID: "a"}

	tests := []struct {
		name  string
		setup func(repo *mockUserRepository)
		write func(r repositories.UserRepository) error
	}{
		{
			name:  "insert",
			setup: func(repo *mockUserRepository) { repo.On("Insert", ctx, user).Return(user, nil) },
			write: func(r repositories.UserRepository) error {
				_, err := r.Insert(ctx, user)
				return err
			},
		},
		{
			name:  "replace",
			setup: func(repo *mockUserRepository) { repo.On("Replace", ctx, user).Return(user, nil) },
			write: func(r repositories.UserRepository) error {
				_, err := r.Replace(ctx, user)
				return err
			},
		},
		{
			name:  "delete",
			setup: func(repo *mockUserRepository) { repo.On("Delete", ctx, "a").Return(nil) },
			write: func(r repositories.UserRepository) error {
				return r.Delete(ctx, "a")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mockRedisServer(t)
			require.NoError(t, s.Set(cache.UsersListKey, "[]"))
			repo := new(mockUserRepository)
			tt.setup(repo)
			cached := cache.NewCachedUserRepository(repo, newRedisCache(t, s, time.Minute), time.Minute)

			require.NoError(t, tt.write(cached))

			assert.False(t, s.Exists(cache.UsersListKey))
			generation, err := s.Get(cache.UsersGenerationKey)
			require.NoError(t, err)
			assert.Equal(t, "1", generation)
			repo.AssertExpectations(t)
		})
	}
}

func TestCachedUserRepository_WriteDuringLoadIsNotCached(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	user := &entities.User{ID: "new", GivenName: "Lucia"}

	var cached repositories.UserRepository
	repo := new(mockUserRepository)
	repo.On("Insert", ctx, user).Return(user, nil).Once()
	// Запись завершается, пока первый FindAll еще держит старый снимок.
	repo.On("FindAll", ctx).Run(func(mock.Arguments) {
		_, err := cached.Insert(ctx, user)
		require.NoError(t, err)
	}).Return([]*entities.User{}, nil).Once()
	repo.On("FindAll", ctx).Return([]*entities.User{user}, nil).Once()
	cached = cache.NewCachedUserRepository(repo, newRedisCache(t, s, time.Minute), time.Minute)

	first, err := cached.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, first)
	assert.False(t, s.Exists(cache.UsersListKey), "snapshot taken before the write must not be cached")

	second, err := cached.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "new", second[0].ID)

	third, err := cached.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 1)
	repo.AssertExpectations(t)
}

func TestCachedUserRepository_FailedInvalidationBypassesCache(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	require.NoError(t, s.Set(cache.UsersListKey, "[]"))
	require.NoError(t, s.Set(cache.UsersGenerationKey, "not-a-number"))

	user := &entities.User{ID: "a"}
	repo := new(mockUserRepository)
	repo.On("Insert", ctx, user).Return(user, nil).Once()
	repo.On("FindAll", ctx).Return([]*entities.User{user}, nil).Twice()
	cached := cache.NewCachedUserRepository(repo, newRedisCache(t, s, time.Minute), time.Minute)

	_, err := cached.Insert(ctx, user)
	require.NoError(t, err)

	users, err := cached.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "stale list must not be served after a failed invalidation")

	require.NoError(t, s.Set(cache.UsersGenerationKey, "7"))
	users, err = cached.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	generation, err := s.Get(cache.UsersGenerationKey)
	require.NoError(t, err)
	assert.Equal(t, "8", generation)
	assert.True(t, s.Exists(cache.UsersListKey))
	repo.AssertExpectations(t)
}

func TestCachedUserRepository_FailedWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	s := mockRedisServer(t)
	require.NoError(t, s.Set(cache.UsersListKey, "[]"))
	repo := new(mockUserRepository)
	repo.On("Replace", ctx, mock.Anything).Return(nil, entities.ErrUserNotFound)
	cached := cache.NewCachedUserRepository(repo, newRedisCache(t, s, time.Minute), time.Minute)

	_, err := cached.Replace(ctx, &entities.User{ID: "missing"})

	require.ErrorIs(t, err, entities.ErrUserNotFound)
	assert.True(t, s.Exists(cache.UsersListKey))
}

func TestCachedUserRepository_FindByIDPassesThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepository)
	repo.On("FindByID", ctx, "a").Return(&entities.User{ID: "a"}, nil).Once()
	cached := cache.NewCachedUserRepository(repo, newRedisCache(t, mockRedisServer(t), time.Minute), time.Minute)

	user, err := cached.FindByID(ctx, "a")

	require.NoError(t, err)
	assert.Equal(t, "a", user.ID)
	repo.AssertExpectations(t)
}
