package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/reactive/core/logger"
)

// Connect creates a Redis client and waits until it answers PING.
// Attempts are spaced by RetryInterval, doubled after every failure.
// Failed attempts are logged at warn level when WithLogger is given.
func Connect(ctx context.Context, cfg Config, opts ...Option) (redis.UniversalClient, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	redisOpts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	client := redis.NewClient(redisOpts)

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	log := newOptions(opts).logger
	attempts := max(cfg.RetryAttempts, 1)
	interval := cfg.RetryInterval
	for attempt := range attempts {
		if err = client.Ping(ctx).Err(); err == nil {
			log.DebugContext(ctx, "redis connected", logger.RetryCount(attempt))
			return client, nil
		}
		if attempt == attempts-1 {
			break
		}

		log.WarnContext(ctx, "redis ping failed, retrying",
			logger.RetryCount(attempt+1),
			logger.Duration(interval),
			logger.Error(err))

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(interval):
		}
		interval *= 2
	}

	_ = client.Close()
	return nil, errors.Join(ErrRedisNotReady, err)
}

// Healthcheck returns a function that pings Redis.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
