package pg

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
)

// maxPayloadSize is the largest NOTIFY payload PostgreSQL accepts by default.
const maxPayloadSize = 7999

// Execer runs a statement. *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Notify sends payload to channel with pg_notify. When ctx carries a transaction
// (see WithTx) the notification is sent inside it and delivered on commit.
func Notify(ctx context.Context, db Execer, channel, payload string) error {
	if channel == "" {
		return ErrEmptyChannel
	}
	if len(payload) > maxPayloadSize {
		return ErrPayloadTooLarge
	}

	const q = `SELECT pg_notify($1, $2)`
	var err error
	if tx, ok := TxFromContext(ctx); ok {
		_, err = tx.Exec(ctx, q, channel, payload)
	} else {
		_, err = db.Exec(ctx, q, channel, payload)
	}
	if err != nil {
		return errors.Join(ErrNotifyFailed, err)
	}
	return nil
}

// NewNotifier returns a subscriber that sends every value to channel with Notify.
// Values are JSON encoded unless encode is given. One value is in flight at a time;
// the first error cancels the subscription and is reported by Err.
//
// Example:
//
//	out, err := pg.NewNotifier[OrderChanged](ctx, pool, "orders_changed", nil)
//	if err != nil {
//		return err
//	}
//	changes.Subscribe(out)
func NewNotifier[T any](ctx context.Context, db Execer, channel string, encode func(T) ([]byte, error), opts ...Option) (*stream.Consumer[T], error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}
	if encode == nil {
		encode = func(v T) ([]byte, error) { return json.Marshal(v) }
	}
	o := newOptions(opts)

	return stream.NewConsumer(func(v T) error {
		payload, err := encode(v)
		if err != nil {
			return errors.Join(ErrEncodingFailed, err)
		}
		if err := Notify(ctx, db, channel, string(payload)); err != nil {
			o.logger.Error("notify failed", logger.Channel(channel), logger.Error(err))
			return err
		}
		return nil
	}), nil
}
