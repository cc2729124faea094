// Package repositories defines repository interfaces for the users service.
package repositories

import (
	"context"

	"userprofiles/internal/users/domain/entities"
)

// UserRepository - хранилище записей пользователей, ключ - идентификатор.
type UserRepository interface {
	// Insert сохраняет новую запись с уже назначенным ID.
	Insert(ctx context.Context, user *entities.User) (*entities.User, error)

	// FindAll возвращает все записи в порядке хранилища.
	FindAll(ctx context.Context) ([]*entities.User, error)

	// FindByID возвращает запись или entities.ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*entities.User, error)

	// Replace целиком заменяет запись с user.ID или возвращает entities.ErrUserNotFound.
	Replace(ctx context.Context, user *entities.User) (*entities.User, error)

	// Delete удаляет запись. Отсутствие записи ошибкой не считается.
	Delete(ctx context.Context, id string) error
}
