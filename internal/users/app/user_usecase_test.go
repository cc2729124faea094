package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"userprofiles/internal/users/app"
	"userprofiles/internal/users/domain/entities"
	"userprofiles/internal/users/domain/validation"
	"userprofiles/internal/users/metrics"
)

var errStore = errors.New("store unavailable")

func fixedID(id string) app.Option {
	return app.WithIDGenerator(func() string { return id })
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns fresh id and persists", func(t *testing.T) {
		repo := new(mockUserRepository)
		m := metrics.New(prometheus.NewRegistry())
		uc := app.NewUserUseCase(repo, fixedID("generated-id"), app.WithMetrics(m))

		repo.On("Insert", ctx, mock.MatchedBy(func(u *entities.User) bool {
			return u.ID == "generated-id" && u.GivenName == "Lucia"
		})).Return(&entities.User{ID: "generated-id", GivenName: "Lucia"}, nil).Once()

		created, err := uc.CreateUser(ctx, validCandidate())

		require.NoError(t, err)
		assert.Equal(t, "generated-id", created.ID)
		assert.InDelta(t, 1, testutil.ToFloat64(m.UsersCreated), 0)
		repo.AssertExpectations(t)
	})

	t.Run("default generator ignores caller id", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)

		var stored *entities.User
		repo.On("Insert", ctx, mock.AnythingOfType("*entities.User")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*entities.User) }).
			Return(&entities.User{ID: "x"}, nil).Once()

		_, err := uc.CreateUser(ctx, validCandidate())

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NotEmpty(t, stored.ID)
		assert.NotEqual(t, "caller-supplied", stored.ID)
	})

	t.Run("validation failure persists nothing", func(t *testing.T) {
		repo := new(mockUserRepository)
		m := metrics.New(prometheus.NewRegistry())
		uc := app.NewUserUseCase(repo, app.WithMetrics(m))

		candidate := validCandidate()
		candidate.Age = "200"
		candidate.NationalID = "123"

		created, err := uc.CreateUser(ctx, candidate)

		require.Error(t, err)
		assert.Nil(t, created)

		var problems validation.Problems
		require.ErrorAs(t, err, &problems)
		assert.True(t, problems.Has(entities.FieldAge, validation.RuleRange))
		assert.True(t, problems.Has(entities.FieldNationalID, validation.RuleLength))
		assert.InDelta(t, 1, testutil.ToFloat64(m.RejectedRequests.WithLabelValues("create")), 0)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)

		repo.On("Insert", ctx, mock.Anything).Return(nil, errStore).Once()

		created, err := uc.CreateUser(ctx, validCandidate())

		require.ErrorIs(t, err, errStore)
		assert.Nil(t, created)
		assert.Contains(t, err.Error(), "failed to create user")
	})

	t.Run("does not mutate candidate", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo, fixedID("new-id"))
		repo.On("Insert", ctx, mock.Anything).Return(&entities.User{ID: "new-id"}, nil).Once()

		candidate := validCandidate()
		_, err := uc.CreateUser(ctx, candidate)

		require.NoError(t, err)
		assert.Equal(t, "caller-supplied", candidate.ID)
	})
}

func TestReplaceUser(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces with path id", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)

		repo.On("Replace", ctx, mock.MatchedBy(func(u *entities.User) bool {
			return u.ID == "user-1" && u.FavoriteColor == "Verde"
		})).Return(&entities.User{ID: "user-1", FavoriteColor: "Verde"}, nil).Once()

		replaced, err := uc.ReplaceUser(ctx, "user-1", validCandidate())

		require.NoError(t, err)
		assert.Equal(t, "user-1", replaced.ID)
		repo.AssertExpectations(t)
	})

	t.Run("validates whole record", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)

		_, err := uc.ReplaceUser(ctx, "user-1", &entities.User{GivenName: "Lucia"})

		var problems validation.Problems
		require.ErrorAs(t, err, &problems)
		assert.True(t, problems.Has(entities.FieldFamilyName, validation.RuleRequired))
		assert.True(t, problems.Has(entities.FieldGender, validation.RuleRequired))
		repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)
		repo.On("Replace", ctx, mock.Anything).Return(nil, entities.ErrUserNotFound).Once()

		_, err := uc.ReplaceUser(ctx, "missing", validCandidate())

		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		uc := app.NewUserUseCase(new(mockUserRepository))

		_, err := uc.ReplaceUser(ctx, "", validCandidate())

		assert.ErrorIs(t, err, entities.ErrEmptyUserID)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("delete twice succeeds", func(t *testing.T) {
		repo := new(mockUserRepository)
		m := metrics.New(prometheus.NewRegistry())
		uc := app.NewUserUseCase(repo, app.WithMetrics(m))
		repo.On("Delete", ctx, "user-1").Return(nil).Twice()

		require.NoError(t, uc.DeleteUser(ctx, "user-1"))
		require.NoError(t, uc.DeleteUser(ctx, "user-1"))

		assert.InDelta(t, 2, testutil.ToFloat64(m.UsersDeleted), 0)
		repo.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)
		repo.On("Delete", ctx, "user-1").Return(errStore).Once()

		err := uc.DeleteUser(ctx, "user-1")

		assert.ErrorIs(t, err, errStore)
	})

	t.Run("empty id", func(t *testing.T) {
		uc := app.NewUserUseCase(new(mockUserRepository))

		assert.ErrorIs(t, uc.DeleteUser(ctx, ""), entities.ErrEmptyUserID)
	})
}

func TestListAndGetUsers(t *testing.T) {
	ctx := context.Background()
	stored := []*entities.User{{ID: "a"}, {ID: "b"}}

	t.Run("list", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)
		repo.On("FindAll", ctx).Return(stored, nil).Once()

		users, err := uc.ListUsers(ctx)

		require.NoError(t, err)
		assert.Equal(t, stored, users)
	})

	t.Run("list failure", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)
		repo.On("FindAll", ctx).Return(nil, errStore).Once()

		_, err := uc.ListUsers(ctx)

		assert.ErrorIs(t, err, errStore)
	})

	t.Run("get", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)
		repo.On("FindByID", ctx, "a").Return(stored[0], nil).Once()

		user, err := uc.GetUser(ctx, "a")

		require.NoError(t, err)
		assert.Same(t, stored[0], user)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := app.NewUserUseCase(repo)
		repo.On("FindByID", ctx, "zzz").Return(nil, entities.ErrUserNotFound).Once()

		_, err := uc.GetUser(ctx, "zzz")

		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})
}
