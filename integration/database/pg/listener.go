package pg

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
)

// Notification is a NOTIFY message received by a Listener.
type Notification struct {
	Channel    string
	Payload    string
	PID        uint32
	ReceivedAt time.Time
}

// Option configures a listener or notifier.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger configures structured logging for the bridge.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

const unlistenTimeout = 5 * time.Second

// NewListener returns a publisher of the notifications sent to channel.
//
// Every subscription holds one pooled connection for as long as it is active:
// it runs LISTEN, forwards each notification, and on Cancel runs UNLISTEN and
// returns the connection. Notifications arriving without demand are dropped.
//
// Example:
//
//	events, err := pg.NewListener(pool, "orders_changed")
//	if err != nil {
//		return err
//	}
//	sub := events.Subscribe(stream.Sink(func(n pg.Notification) {
//		log.Info("orders changed", logger.Channel(n.Channel))
//	}, nil))
//	defer sub.Cancel()
func NewListener(pool *pgxpool.Pool, channel string, opts ...Option) (stream.Publisher[Notification], error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}
	o := newOptions(opts)
	ident := pgx.Identifier{channel}.Sanitize()

	open := func(ctx context.Context, emit func(Notification)) error {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Join(ErrListenFailed, err)
		}
		defer conn.Release()

		if _, err := conn.Exec(ctx, "LISTEN "+ident); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Join(ErrListenFailed, err)
		}
		o.logger.Debug("listening for notifications", logger.Channel(channel))

		defer func() {
			if conn.Conn().IsClosed() {
				return
			}
			uctx, cancel := context.WithTimeout(context.Background(), unlistenTimeout)
			defer cancel()
			if _, err := conn.Exec(uctx, "UNLISTEN "+ident); err != nil {
				o.logger.Warn("unlisten failed", logger.Channel(channel), logger.Error(err))
			}
		}()

		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() != nil {
					o.logger.Debug("stopped listening", logger.Channel(channel))
					return nil
				}
				return errors.Join(ErrListenFailed, err)
			}
			emit(Notification{
				Channel:    n.Channel,
				Payload:    n.Payload,
				PID:        n.PID,
				ReceivedAt: time.Now(),
			})
		}
	}

	return stream.Bridge(open, stream.WithLogger(o.logger)), nil
}
