// Package app implements application business logic for the users service.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"userprofiles/internal/users/domain/entities"
	"userprofiles/internal/users/domain/validation"
	"userprofiles/internal/users/metrics"
	"userprofiles/internal/users/ports/repositories"
	"userprofiles/pkg/logger"
)

// Контексты ошибок.
const (
	errCtxListingUsers   = "failed to list users"
	errCtxGettingUser    = "failed to get user"
	errCtxCreatingUser   = "failed to create user"
	errCtxReplacingUser  = "failed to replace user"
	errCtxDeletingUser   = "failed to delete user"
	msgValidationFailed  = "user validation failed"
	msgUserCreated       = "user created"
	msgUserReplaced      = "user replaced"
	msgUserDeleted       = "user deleted"
	operationCreate      = "create"
	operationReplace     = "replace"
	logFieldUserID       = "userID"
	logFieldProblemCount = "problems"
)

// UserUseCase связывает проверку записи с хранилищем.
type UserUseCase struct {
	userRepo repositories.UserRepository
	metrics  *metrics.Metrics
	newID    func() string
}

// Option настраивает UserUseCase.
type Option func(*UserUseCase)

// WithIDGenerator заменяет генератор идентификаторов новых записей.
func WithIDGenerator(gen func() string) Option {
	return func(uc *UserUseCase) {
		uc.newID = gen
	}
}

// WithMetrics включает учет операций.
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UserUseCase) {
		uc.metrics = m
	}
}

// NewUserUseCase создает новый экземпляр UserUseCase.
func NewUserUseCase(userRepo repositories.UserRepository, opts ...Option) *UserUseCase {
	uc := &UserUseCase{
		userRepo: userRepo,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ListUsers возвращает все записи.
func (uc *UserUseCase) ListUsers(ctx context.Context) ([]*entities.User, error) {
	users, err := uc.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}
	return users, nil
}

// GetUser возвращает запись по ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*entities.User, error) {
	if id == "" {
		return nil, entities.ErrEmptyUserID
	}

	user, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGettingUser, err)
	}
	return user, nil
}

// CreateUser назначает новой записи ID, проверяет ее и сохраняет.
// При нарушениях возвращает validation.Problems и ничего не сохраняет.
func (uc *UserUseCase) CreateUser(ctx context.Context, candidate *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserUseCase.CreateUser"))

	user := *candidate
	user.ID = uc.newID()

	if problems := validation.Validate(&user); len(problems) > 0 {
		log.Debug(ctx, msgValidationFailed, zap.Int(logFieldProblemCount, len(problems)))
		uc.metrics.ObserveRejection(operationCreate, problems)
		return nil, problems
	}

	created, err := uc.userRepo.Insert(ctx, &user)
	if err != nil {
		log.Error(ctx, errCtxCreatingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	uc.metrics.IncCreated()
	log.Info(ctx, msgUserCreated, zap.String(logFieldUserID, created.ID))
	return created, nil
}

// ReplaceUser проверяет запись целиком и заменяет сохраненную запись с тем же ID.
// ID берется только из аргумента, значение из candidate игнорируется.
func (uc *UserUseCase) ReplaceUser(ctx context.Context, id string, candidate *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserUseCase.ReplaceUser"), zap.String(logFieldUserID, id))

	if id == "" {
		return nil, entities.ErrEmptyUserID
	}

	user := *candidate
	user.ID = id

	if problems := validation.Validate(&user); len(problems) > 0 {
		log.Debug(ctx, msgValidationFailed, zap.Int(logFieldProblemCount, len(problems)))
		uc.metrics.ObserveRejection(operationReplace, problems)
		return nil, problems
	}

	replaced, err := uc.userRepo.Replace(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxReplacingUser, err)
	}

	uc.metrics.IncReplaced()
	log.Info(ctx, msgUserReplaced)
	return replaced, nil
}

// DeleteUser удаляет запись. Повторное удаление тоже успешно.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return entities.ErrEmptyUserID
	}

	if err := uc.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	uc.metrics.IncDeleted()
	logger.Log(ctx).Info(ctx, msgUserDeleted, zap.String(logFieldUserID, id))
	return nil
}
