package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"userprofiles/pkg/logger"
)

// Ошибки миграций.
var (
	ErrMigrationSource = errors.New("unable to load migrations")
	ErrMigrationFailed = errors.New("migration failed")
	ErrDirtySchema     = errors.New("schema is dirty")
)

// MigrateUp накатывает все миграции из sourceURL (например file:///srv/migrations)
// и возвращает итоговую версию схемы. Отмена ctx останавливает накат после
// текущей миграции.
func MigrateUp(ctx context.Context, sourceURL, databaseURL string) (uint, error) {
	log := logger.Log(ctx).With(zap.String("component", "migrate"), zap.String("source", sourceURL))

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMigrationSource, err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn(ctx, "closing migrator",
				zap.NamedError("source_error", srcErr),
				zap.NamedError("database_error", dbErr))
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	upErr := m.Up()
	switch {
	case errors.Is(upErr, migrate.ErrNoChange):
	case upErr != nil:
		return 0, fmt.Errorf("%w: %w", ErrMigrationFailed, upErr)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, fmt.Errorf("%w: %w", ErrMigrationFailed, ctxErr)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info(ctx, "no migrations to apply")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}
	if dirty {
		return version, fmt.Errorf("%w: version %d", ErrDirtySchema, version)
	}

	log.Info(ctx, "schema up to date", zap.Uint("version", version), zap.Bool("changed", upErr == nil))
	return version, nil
}
