// Package db opens the Postgres pool backing the durable credential store.
package db

import (
	"context"
	"time"

	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 10 * time.Second

// Connect returns a pinged pool and its close func. The gateway keeps one row per
// process, so the pool stays small.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.BuildDSN())
	if err != nil {
		return nil, nil, errs.Wrap(err, "parse database config")
	}
	poolCfg.MaxConns = 4
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.MaxConnLifetime = time.Hour

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, errs.Wrap(err, "open database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, errs.Wrapf(err, "ping database %s@%s:%s", cfg.DBName, cfg.Host, cfg.Port)
	}
	return pool, pool.Close, nil
}
