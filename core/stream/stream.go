package stream

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/reactive/core/logger"
)

// Publisher is a source of an ordered, possibly infinite sequence of values of type T
// terminated by a Completion.
//
// Subscribe creates a new Subscription for the subscriber and hands it over through
// OnSubscribe before any value is delivered. The returned Subscription is the same
// handle the subscriber receives.
type Publisher[T any] interface {
	Subscribe(s Subscriber[T]) Subscription
}

// Subscriber is a sink of values. It receives exactly one Subscription, then zero or
// more values, then at most one Completion.
type Subscriber[T any] interface {
	// OnSubscribe is called once, before any value. The subscriber declares its
	// initial demand by calling Request; requesting None is legal and defers delivery.
	OnSubscribe(s Subscription)

	// OnValue receives one value and returns additional demand granted by this delivery.
	OnValue(v T) Demand

	// OnComplete receives the terminal signal. No calls follow it.
	OnComplete(c Completion)
}

// Subscription is the cancellable, demand-bearing link between one publisher and
// one subscriber.
type Subscription interface {
	Cancellable

	// ID identifies the subscription for its whole lifetime.
	ID() uuid.UUID

	// Request adds n to the outstanding demand, saturating at Unlimited.
	// It is a no-op once the subscription is cancelled or completed and is safe
	// to call from within OnValue.
	Request(n Demand)
}

// Cancellable stops a running activity. Cancel is idempotent.
type Cancellable interface {
	Cancel()
}

// Option configures subjects and bridges.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

func newOptions(opts []Option) options {
	o := options{
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger configures structured logging for lifecycle diagnostics.
// Logging is disabled by default.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}
