// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"userprofiles/internal/users/domain/entities"
	"userprofiles/internal/users/ports/repositories"
	"userprofiles/pkg/logger"
)

// PgxPool - часть pgxpool.Pool, нужная репозиторию.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	errCtxInsertUser  = "failed to insert user"
	errCtxListUsers   = "failed to list users"
	errCtxScanUser    = "failed to scan user"
	errCtxIterateRows = "error iterating rows"
	errCtxGetUser     = "failed to get user"
	errCtxReplaceUser = "failed to replace user"
	errCtxDeleteUser  = "failed to delete user"
)

const (
	queryInsertUser = `INSERT INTO users (id, nombre, apellidos, edad, dni, cumpleanos, color_favorito, sexo)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING created_at, updated_at`

	querySelectUsers = `SELECT id, nombre, apellidos, edad, dni, cumpleanos, color_favorito, sexo, created_at, updated_at
         FROM users
         ORDER BY created_at, id`

	querySelectUser = `SELECT id, nombre, apellidos, edad, dni, cumpleanos, color_favorito, sexo, created_at, updated_at
         FROM users
         WHERE id = $1`

	queryReplaceUser = `UPDATE users
         SET nombre = $2, apellidos = $3, edad = $4, dni = $5, cumpleanos = $6, color_favorito = $7, sexo = $8, updated_at = NOW()
         WHERE id = $1
         RETURNING created_at, updated_at`

	queryDeleteUser = `DELETE FROM users WHERE id = $1`
)

// UserRepository реализует интерфейс repositories.UserRepository.
type UserRepository struct {
	pool PgxPool
}

// NewUserRepository создает новый репозиторий пользователей.
func NewUserRepository(pool PgxPool) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// Insert сохраняет новую запись. ID уже назначен вызывающей стороной.
func (r *UserRepository) Insert(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserRepository.Insert"))
	log.Debug(ctx, "inserting user", zap.String("userID", user.ID))

	stored := *user
	err := r.pool.QueryRow(ctx, queryInsertUser,
		user.ID, user.GivenName, user.FamilyName, user.Age, user.NationalID,
		user.BirthDate, user.FavoriteColor, user.Gender,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		log.Error(ctx, errCtxInsertUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxInsertUser, err)
	}

	return &stored, nil
}

// FindAll возвращает все записи в порядке создания.
func (r *UserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserRepository.FindAll"))

	rows, err := r.pool.Query(ctx, querySelectUsers)
	if err != nil {
		log.Error(ctx, errCtxListUsers, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListUsers, err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Error(ctx, errCtxScanUser, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxScanUser, err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, errCtxIterateRows, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxIterateRows, err)
	}

	log.Debug(ctx, "users listed", zap.Int("count", len(users)))
	return users, nil
}

// FindByID возвращает запись по ID или entities.ErrUserNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserRepository.FindByID"))

	user, err := scanUser(r.pool.QueryRow(ctx, querySelectUser, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("userID", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, errCtxGetUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGetUser, err)
	}

	return user, nil
}

// Replace заменяет все поля записи с тем же ID.
func (r *UserRepository) Replace(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserRepository.Replace"))
	log.Debug(ctx, "replacing user", zap.String("userID", user.ID))

	stored := *user
	err := r.pool.QueryRow(ctx, queryReplaceUser,
		user.ID, user.GivenName, user.FamilyName, user.Age, user.NationalID,
		user.BirthDate, user.FavoriteColor, user.Gender,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("userID", user.ID))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, errCtxReplaceUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxReplaceUser, err)
	}

	return &stored, nil
}

// Delete удаляет запись. Отсутствие записи ошибкой не считается.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", "UserRepository.Delete"))

	result, err := r.pool.Exec(ctx, queryDeleteUser, id)
	if err != nil {
		log.Error(ctx, errCtxDeleteUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeleteUser, err)
	}

	log.Debug(ctx, "user deleted", zap.String("userID", id), zap.Int64("rows", result.RowsAffected()))
	return nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(
		&u.ID, &u.GivenName, &u.FamilyName, &u.Age, &u.NationalID,
		&u.BirthDate, &u.FavoriteColor, &u.Gender, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
