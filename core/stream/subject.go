package stream

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/reactive/core/logger"
)

// Subject is a broadcast hub: a Publisher that is also driven from outside with
// Send and Complete. It does not buffer; a value sent while a subscriber has no
// outstanding demand is dropped for that subscriber.
//
// Signals are serialized through a FIFO queue drained by whichever goroutine is
// currently sending. A Send issued from inside a subscriber's OnValue is queued
// and delivered after the current signal, so nested sends never recurse.
// Concurrent senders may therefore return before their value is delivered.
//
// Subscribers attaching after completion receive the stored completion
// immediately after OnSubscribe.
//
// A subscriber that panics in OnValue is logged and cancelled; the remaining
// subscribers keep receiving values.
type Subject[T any] struct {
	core broadcaster[T]
}

// NewSubject creates a subject with no subscribers.
//
// Example:
//
//	subject := stream.NewSubject[string](stream.WithLogger(logger))
//	subject.Subscribe(subscriber)
//	subject.Send("Hello")
//	subject.Complete(stream.Finished())
func NewSubject[T any](opts ...Option) *Subject[T] {
	s := &Subject[T]{}
	s.core.init(newOptions(opts), false)
	return s
}

// Subscribe implements Publisher. The returned Subscription detaches only this subscriber.
func (s *Subject[T]) Subscribe(sub Subscriber[T]) Subscription {
	return s.core.subscribe(sub)
}

// Send broadcasts v to every attached subscriber with outstanding demand, in
// attachment order. It is a no-op after completion.
func (s *Subject[T]) Send(v T) {
	s.core.send(v)
}

// Complete marks the subject terminal and delivers c to every attached subscriber.
// Values sent before Complete are delivered first. Only the first call has effect.
func (s *Subject[T]) Complete(c Completion) {
	s.core.complete(c)
}

// Subscribers returns the number of attached subscribers.
func (s *Subject[T]) Subscribers() int {
	return s.core.subscribers()
}

// signal is a queued subject event. Exactly one of its modes is set:
// attach, completion, or a plain value.
type signal[T any] struct {
	value      T
	completion *Completion
	attach     *conduit[T]
}

// broadcaster holds the state shared by Subject and CurrentValueSubject.
type broadcaster[T any] struct {
	mu       sync.Mutex
	conduits []*conduit[T]
	queue    []signal[T]
	draining bool
	terminal *Completion
	logger   *slog.Logger

	// keep enables current-value semantics: the latest drained value is replayed
	// to new subscribers and kept per subscriber while it has no demand.
	keep    bool
	latest  T
	current T
}

func (b *broadcaster[T]) init(o options, keep bool) {
	b.logger = o.logger
	b.keep = keep
}

func (b *broadcaster[T]) subscribe(sub Subscriber[T]) Subscription {
	if sub == nil {
		panic(ErrNilSubscriber)
	}

	c := newConduit(sub, b.detach, b.logger)
	sub.OnSubscribe(c)

	b.mu.Lock()
	if b.terminal != nil {
		comp := *b.terminal
		b.mu.Unlock()

		b.logger.Debug("subscriber attached after completion",
			logger.SubscriptionID(c.id),
			logger.Completion(comp))
		c.complete(comp)
		return c
	}
	b.queue = append(b.queue, signal[T]{attach: c})
	b.drain()

	return c
}

func (b *broadcaster[T]) send(v T) {
	b.mu.Lock()
	if b.terminal != nil {
		b.mu.Unlock()
		b.logger.Debug("value sent after completion ignored",
			logger.Error(ErrSubjectTerminated))
		return
	}
	b.latest = v
	b.queue = append(b.queue, signal[T]{value: v})
	b.drain()
}

func (b *broadcaster[T]) complete(c Completion) {
	b.mu.Lock()
	if b.terminal != nil {
		b.mu.Unlock()
		b.logger.Debug("completion sent after completion ignored",
			logger.Error(ErrSubjectTerminated))
		return
	}
	b.terminal = &c
	b.queue = append(b.queue, signal[T]{completion: &c})
	b.drain()
}

// drain must be called with b.mu held; it releases the lock.
func (b *broadcaster[T]) drain() {
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true

	for len(b.queue) > 0 {
		sig := b.queue[0]
		b.queue[0] = signal[T]{}
		b.queue = b.queue[1:]

		switch {
		case sig.attach != nil:
			b.conduits = append(b.conduits, sig.attach)
			current := b.current
			b.mu.Unlock()

			if sig.attach.isDone() {
				b.detach(sig.attach)
			} else {
				b.logger.Debug("subscriber attached",
					logger.SubscriptionID(sig.attach.id))
				if b.keep {
					sig.attach.offer(current, true)
				}
			}

		case sig.completion != nil:
			targets := b.conduits
			b.conduits = nil
			b.mu.Unlock()

			b.logger.Debug("subject completed",
				logger.Subscribers(len(targets)),
				logger.Completion(*sig.completion))
			for _, c := range targets {
				c.complete(*sig.completion)
			}

		default:
			b.current = sig.value
			targets := slices.Clone(b.conduits)
			b.mu.Unlock()

			for _, c := range targets {
				c.offer(sig.value, b.keep)
			}
		}

		b.mu.Lock()
	}

	b.queue = nil
	b.draining = false
	b.mu.Unlock()
}

func (b *broadcaster[T]) detach(c *conduit[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := slices.Index(b.conduits, c); i >= 0 {
		b.conduits = slices.Delete(b.conduits, i, i+1)
		b.logger.Debug("subscriber detached",
			logger.SubscriptionID(c.id))
	}
}

func (b *broadcaster[T]) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conduits)
}
