package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/reactive/core/logger"
)

// Connect creates a connection pool and waits until the database answers a ping.
// Attempts are spaced by RetryInterval, doubled after every failure.
// Failed attempts are logged at warn level when WithLogger is given.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = min(cfg.MaxIdleConns, poolCfg.MaxConns)
	}
	if cfg.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	log := newOptions(opts).logger
	attempts := max(cfg.RetryAttempts, 1)
	interval := cfg.RetryInterval
	for attempt := range attempts {
		pool, perr := pgxpool.NewWithConfig(ctx, poolCfg)
		if perr == nil {
			if perr = pool.Ping(ctx); perr == nil {
				log.DebugContext(ctx, "database connected", logger.RetryCount(attempt))
				return pool, nil
			}
			pool.Close()
		}
		err = perr
		if attempt == attempts-1 {
			break
		}

		log.WarnContext(ctx, "database ping failed, retrying",
			logger.RetryCount(attempt+1),
			logger.Duration(interval),
			logger.Error(err))

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(interval):
		}
		interval *= 2
	}

	return nil, errors.Join(ErrFailedToOpenDBConnection, err)
}

// Healthcheck returns a function that pings the database.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
