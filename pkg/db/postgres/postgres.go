// Package postgres открывает пул pgx и накатывает миграции golang-migrate.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"userprofiles/pkg/logger"
)

// Ошибки открытия пула.
var (
	ErrInvalidDSN  = errors.New("invalid postgres dsn")
	ErrPoolOpen    = errors.New("unable to open postgres pool")
	ErrUnreachable = errors.New("postgres is unreachable")
)

// PoolOptions задает размеры пула. Нулевые поля оставляют значения pgxpool.
type PoolOptions struct {
	MinConns        int
	MaxConns        int
	MaxConnIdleTime time.Duration
}

func (o PoolOptions) applyTo(cfg *pgxpool.Config) {
	if o.MinConns > 0 {
		cfg.MinConns = clampInt32(o.MinConns)
	}
	if o.MaxConns > 0 {
		cfg.MaxConns = clampInt32(o.MaxConns)
	}
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	if o.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = o.MaxConnIdleTime
	}
}

func clampInt32(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

// Open создает пул и делает пробный ping. При ошибке ping пул закрывается.
func Open(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	log := logger.Log(ctx).With(zap.String("component", "postgres"))

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDSN, err)
	}
	opts.applyTo(cfg)

	log.Debug(ctx, "opening pool",
		zap.String("host", cfg.ConnConfig.Host),
		zap.Int32("min_conns", cfg.MinConns),
		zap.Int32("max_conns", cfg.MaxConns))

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolOpen, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Warn(ctx, "ping failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	log.Info(ctx, "pool ready")
	return pool, nil
}
