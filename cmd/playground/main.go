// Command playground walks through the stream package: notification-center
// publishers, Just, Assign, Published, a custom demand-driven subscriber and a
// passthrough Subject. When PLAYGROUND_REDIS_URL or PLAYGROUND_DATABASE_URL is set,
// it also round-trips values through the Redis and PostgreSQL bridges.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/reactive/core/config"
	"github.com/dmitrymomot/reactive/core/logger"
)

type appConfig struct {
	AppEnv        string        `env:"APP_ENV" envDefault:"development"`
	LogLevel      slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	RedisURL      string        `env:"PLAYGROUND_REDIS_URL"`
	DatabaseURL   string        `env:"PLAYGROUND_DATABASE_URL"`
	BridgeTimeout time.Duration `env:"PLAYGROUND_BRIDGE_TIMEOUT" envDefault:"10s"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := newLogger(cfg, os.Stderr)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Stdout); err != nil {
		log.Error("playground failed", logger.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg appConfig, out io.Writer) *slog.Logger {
	preset := logger.WithDevelopment("playground")
	if cfg.AppEnv == "production" {
		preset = logger.WithProduction("playground")
	}
	return logger.New(preset, logger.WithLevel(cfg.LogLevel), logger.WithOutput(out))
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger, w io.Writer) error {
	start := time.Now()
	if err := runExamples(ctx, w, examples()); err != nil {
		return err
	}
	log.Debug("examples finished", logger.Elapsed(start))

	if cfg.RedisURL == "" && cfg.DatabaseURL == "" {
		log.Info("bridge demos skipped, no broker configured")
		return nil
	}

	out := &lockedWriter{w: w}
	g, ctx := errgroup.WithContext(ctx)
	if cfg.RedisURL != "" {
		g.Go(func() error {
			return redisDemo(ctx, cfg, log.With(logger.Component("redis")), out)
		})
	}
	if cfg.DatabaseURL != "" {
		g.Go(func() error {
			return pgDemo(ctx, cfg, log.With(logger.Component("pg")), out)
		})
	}
	return g.Wait()
}
