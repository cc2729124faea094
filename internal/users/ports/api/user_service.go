package api

import (
	"context"

	"userprofiles/internal/users/domain/entities"
)

// UserUseCase определяет основной порт для операций над профилями пользователей.
type UserUseCase interface {
	ListUsers(ctx context.Context) ([]*entities.User, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	CreateUser(ctx context.Context, candidate *entities.User) (*entities.User, error)
	ReplaceUser(ctx context.Context, id string, candidate *entities.User) (*entities.User, error)
	DeleteUser(ctx context.Context, id string) error
}
