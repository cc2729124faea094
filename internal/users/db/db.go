// Package db открывает базу данных сервиса пользователей.
package db

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"userprofiles/internal/users/config"
	"userprofiles/pkg/db/postgres"
	"userprofiles/pkg/logger"
	"userprofiles/pkg/retry"
)

// Константы для сообщений logger.
const (
	LogDBInitializing    = "initializing users database"
	LogDBInitialized     = "users database initialized successfully"
	LogMigrationStarting = "starting database migrations for users service"
	LogDBClosing         = "closing users database pool"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations      = "failed to apply users database migrations"
	ErrDBConnection      = "failed to connect to users database"
	ErrGetPath           = "failed to get path"
	ErrDBCheckConnection = "error checking the database connection"
)

const filePrefix = "file://"

// DB представляет соединение с базой данных сервиса пользователей.
type DB struct {
	pool *pgxpool.Pool
}

// New открывает пул соединений, повторяя попытки, пока база не станет доступна,
// и применяет миграции.
func New(ctx context.Context, cfg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	migrationsPath, err := MigrationsSource(cfg.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.ConnectAttempts
	if cfg.ConnectBackoff > 0 {
		policy.InitialBackoff = cfg.ConnectBackoff
	}

	opts := postgres.PoolOptions{
		MinConns:        cfg.MinConn,
		MaxConns:        cfg.MaxConn,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
	}

	var pool *pgxpool.Pool
	err = retry.Do(ctx, "postgres connect", policy, func(ctx context.Context) error {
		var connErr error
		pool, connErr = postgres.Open(ctx, cfg.GetDSN(), opts)
		return connErr
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", migrationsPath))
	version, err := postgres.MigrateUp(ctx, migrationsPath, cfg.GetConnectionURL())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	log.Info(ctx, LogDBInitialized, zap.Uint("schema_version", version))

	return &DB{pool: pool}, nil
}

// MigrationsSource переводит каталог миграций в URL источника golang-migrate.
func MigrationsSource(dir string) (string, error) {
	if strings.HasPrefix(dir, filePrefix) {
		return dir, nil
	}
	if filepath.IsAbs(dir) {
		return filePrefix + dir, nil
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrGetPath, err)
	}
	return filePrefix + absPath, nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	logger.Log(ctx).Info(ctx, LogDBClosing)
	db.pool.Close()
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrDBCheckConnection, err)
	}
	return nil
}
