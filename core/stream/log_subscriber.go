package stream

import (
	"log/slog"
	"sync"

	"github.com/dmitrymomot/reactive/core/logger"
)

// LogSubscriber logs every signal it receives. It requests a fixed initial demand
// and, optionally, additional demand per value.
type LogSubscriber[T any] struct {
	logger   *slog.Logger
	initial  Demand
	demandFn func(T) Demand

	mu           sync.Mutex
	subscription Subscription
}

// LogOption configures a LogSubscriber.
type LogOption[T any] func(*LogSubscriber[T])

// WithDemandFunc grants the demand returned by fn after each received value.
func WithDemandFunc[T any](fn func(T) Demand) LogOption[T] {
	return func(s *LogSubscriber[T]) {
		if fn != nil {
			s.demandFn = fn
		}
	}
}

// NewLogSubscriber creates a subscriber that requests initial demand on subscribe
// and logs values at info level and failures at error level. A nil logger discards output.
//
// Example:
//
//	stream.Range(1, 6).Subscribe(stream.NewLogSubscriber[int](logger, stream.Max(3)))
func NewLogSubscriber[T any](log *slog.Logger, initial Demand, opts ...LogOption[T]) *LogSubscriber[T] {
	if log == nil {
		log = logger.Discard()
	}
	s := &LogSubscriber[T]{
		logger:  log,
		initial: initial,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnSubscribe implements Subscriber.
func (s *LogSubscriber[T]) OnSubscribe(sub Subscription) {
	s.mu.Lock()
	s.subscription = sub
	s.mu.Unlock()

	s.logger.Debug("subscribed",
		logger.SubscriptionID(sub.ID()),
		logger.Demand(s.initial))
	sub.Request(s.initial)
}

// OnValue implements Subscriber.
func (s *LogSubscriber[T]) OnValue(v T) Demand {
	s.logger.Info("received value", logger.Value(v))
	if s.demandFn == nil {
		return None
	}
	return s.demandFn(v)
}

// OnComplete implements Subscriber.
func (s *LogSubscriber[T]) OnComplete(c Completion) {
	s.mu.Lock()
	s.subscription = nil
	s.mu.Unlock()

	if c.IsFailed() {
		s.logger.Error("received completion", logger.Completion(c), logger.Error(c.Err()))
		return
	}
	s.logger.Info("received completion", logger.Completion(c))
}

// Cancel cancels the current subscription, if any.
func (s *LogSubscriber[T]) Cancel() {
	s.mu.Lock()
	sub := s.subscription
	s.subscription = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}
