package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/reactive/core/health"
	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/integration/database/pg"
	"github.com/dmitrymomot/reactive/integration/database/redis"
)

const bridgeChannel = "playground"

// lockedWriter serializes writes from concurrently running demos.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// awaitValues returns a consumer that prints values and a channel closed after n of them.
func awaitValues[T any](w io.Writer, label string, n int, format func(T) string) (*stream.Consumer[T], <-chan struct{}) {
	done := make(chan struct{})
	var once sync.Once
	count := 0
	consumer := stream.NewConsumer(func(v T) error {
		fmt.Fprintf(w, "Received %s %s\n", label, format(v))
		count++
		if count >= n {
			once.Do(func() { close(done) })
		}
		return nil
	})
	return consumer, done
}

func redisDemo(ctx context.Context, cfg appConfig, log *slog.Logger, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.BridgeTimeout)
	defer cancel()

	client, err := redis.Connect(ctx, redis.Config{
		ConnectionURL:  cfg.RedisURL,
		RetryAttempts:  1,
		ConnectTimeout: cfg.BridgeTimeout,
	}, redis.WithLogger(log))
	if err != nil {
		return err
	}
	defer client.Close()

	if err := health.Readiness(ctx, log, redis.Healthcheck(client)); err != nil {
		return err
	}

	publisher, err := redis.NewPublisher(client, []string{bridgeChannel}, redis.WithLogger(log))
	if err != nil {
		return err
	}

	consumer, received := awaitValues(w, "redis message", 2, func(m redis.Message) string {
		return m.Payload
	})
	publisher.Subscribe(consumer)
	defer consumer.Cancel()

	// Redis drops messages published before the subscription is registered.
	for {
		n, err := client.PubSubNumSub(ctx, bridgeChannel).Result()
		if err != nil {
			return err
		}
		if n[bridgeChannel] > 0 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	out, err := redis.NewSubscriber[string](ctx, client, bridgeChannel, nil, redis.WithLogger(log))
	if err != nil {
		return err
	}
	stream.Sequence("Hello", "World").Subscribe(out)
	if err := out.Wait(ctx); err != nil {
		return err
	}

	select {
	case <-received:
		log.Info("redis bridge demo finished", logger.Channel(bridgeChannel))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func pgDemo(ctx context.Context, cfg appConfig, log *slog.Logger, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.BridgeTimeout)
	defer cancel()

	pool, err := pg.Connect(ctx, pg.Config{
		ConnectionString: cfg.DatabaseURL,
		RetryAttempts:    1,
	}, pg.WithLogger(log))
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := health.Readiness(ctx, log, pg.Healthcheck(pool)); err != nil {
		return err
	}

	listener, err := pg.NewListener(pool, bridgeChannel, pg.WithLogger(log))
	if err != nil {
		return err
	}

	consumer, received := awaitValues(w, "pg notification", 1, func(n pg.Notification) string {
		return n.Payload
	})
	listener.Subscribe(consumer)
	defer consumer.Cancel()

	// LISTEN is issued asynchronously; notify until the listener picks one up.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if err := pg.Notify(ctx, pool, bridgeChannel, "Hello from Postgres"); err != nil {
			return err
		}
		select {
		case <-received:
			log.Info("pg bridge demo finished", logger.Channel(bridgeChannel))
			return nil
		case <-consumer.Done():
			return consumer.Err()
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
