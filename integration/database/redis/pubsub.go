package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
)

// Message is a Redis pub/sub message received by a Publisher.
type Message struct {
	Channel    string
	Pattern    string
	Payload    string
	ReceivedAt time.Time
}

// Decode unmarshals a JSON message payload into T.
func Decode[T any](m Message) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(m.Payload), &v); err != nil {
		return v, errors.Join(ErrDecodingFailed, err)
	}
	return v, nil
}

type options struct {
	logger   *slog.Logger
	patterns bool
}

// Option configures a Publisher or Subscriber.
type Option func(*options)

// WithLogger configures structured logging for the bridge.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithPatterns treats channel names as glob patterns (PSUBSCRIBE).
func WithPatterns() Option {
	return func(o *options) {
		o.patterns = true
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewPublisher returns a publisher of the messages posted to channels.
//
// Every subscription opens its own Redis subscription. Messages arriving while the
// subscriber has no demand are dropped, as Redis pub/sub does not buffer either.
// Cancelling the subscription closes the Redis subscription.
//
// If the initial SUBSCRIBE cannot be confirmed the stream fails with
// ErrSubscribeFailed. After that, go-redis reconnects dropped connections on its
// own; messages published while reconnecting are lost, and the stream finishes
// only when the client's message channel is closed.
//
// Example:
//
//	orders, err := redis.NewPublisher(client, []string{"orders"})
//	if err != nil {
//		return err
//	}
//	sub := orders.Subscribe(stream.Sink(func(m redis.Message) {
//		log.Info("order event", logger.Channel(m.Channel))
//	}, nil))
//	defer sub.Cancel()
func NewPublisher(client redis.UniversalClient, channels []string, opts ...Option) (stream.Publisher[Message], error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if slices.Contains(channels, "") {
		return nil, ErrEmptyChannel
	}
	channels = slices.Clone(channels)
	o := newOptions(opts)

	open := func(ctx context.Context, emit func(Message)) error {
		var ps *redis.PubSub
		if o.patterns {
			ps = client.PSubscribe(ctx, channels...)
		} else {
			ps = client.Subscribe(ctx, channels...)
		}
		defer ps.Close()

		if _, err := ps.Receive(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Join(ErrSubscribeFailed, err)
		}
		o.logger.Debug("redis subscription opened", logger.Count("channels", len(channels)))

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				o.logger.Debug("redis subscription closed", logger.Count("channels", len(channels)))
				return nil
			case msg, ok := <-msgs:
				if !ok {
					return nil
				}
				emit(Message{
					Channel:    msg.Channel,
					Pattern:    msg.Pattern,
					Payload:    msg.Payload,
					ReceivedAt: time.Now(),
				})
			}
		}
	}

	return stream.Bridge(open, stream.WithLogger(o.logger)), nil
}

// NewSubscriber returns a subscriber that publishes every value to channel.
// Values are JSON encoded unless encode is given. One value is in flight at a time;
// the first publish error cancels the subscription and is reported by Err.
//
// Example:
//
//	out, err := redis.NewSubscriber[Order](ctx, client, "orders", nil)
//	if err != nil {
//		return err
//	}
//	stream.Sequence(orders...).Subscribe(out)
//	if err := out.Wait(ctx); err != nil {
//		return err
//	}
func NewSubscriber[T any](ctx context.Context, client redis.UniversalClient, channel string, encode func(T) ([]byte, error), opts ...Option) (*stream.Consumer[T], error) {
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
		receivers, err := client.Publish(ctx, channel, payload).Result()
		if err != nil {
			o.logger.Error("redis publish failed", logger.Channel(channel), logger.Error(err))
			return errors.Join(ErrPublishFailed, err)
		}
		o.logger.Debug("redis message published", logger.Channel(channel), logger.Count("receivers", int(receivers)))
		return nil
	}), nil
}
