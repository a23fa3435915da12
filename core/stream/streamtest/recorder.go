// Package streamtest provides a recording subscriber for testing publishers.
package streamtest

import (
	"slices"
	"sync"

	"github.com/dmitrymomot/reactive/core/stream"
)

// Kind identifies a recorded signal.
type Kind int

const (
	KindSubscribe Kind = iota + 1
	KindValue
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindSubscribe:
		return "subscribe"
	case KindValue:
		return "value"
	case KindComplete:
		return "complete"
	}
	return "unknown"
}

// Event is one signal received by a Recorder.
type Event[T any] struct {
	Kind       Kind
	Value      T
	Completion stream.Completion
}

// Recorder is a stream.Subscriber that records every signal it receives.
type Recorder[T any] struct {
	initial  stream.Demand
	demandFn func(T) stream.Demand

	mu           sync.Mutex
	subscription stream.Subscription
	events       []Event[T]
}

// Option configures a Recorder.
type Option[T any] func(*Recorder[T])

// WithDemandFunc grants the demand returned by fn after each value. fn runs inside
// OnValue and may call back into the subscription or the publisher.
func WithDemandFunc[T any](fn func(T) stream.Demand) Option[T] {
	return func(r *Recorder[T]) {
		r.demandFn = fn
	}
}

// NewRecorder creates a recorder that requests initial demand on subscribe.
func NewRecorder[T any](initial stream.Demand, opts ...Option[T]) *Recorder[T] {
	r := &Recorder[T]{initial: initial}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnSubscribe implements stream.Subscriber.
func (r *Recorder[T]) OnSubscribe(s stream.Subscription) {
	r.mu.Lock()
	r.subscription = s
	r.events = append(r.events, Event[T]{Kind: KindSubscribe})
	r.mu.Unlock()

	s.Request(r.initial)
}

// OnValue implements stream.Subscriber.
func (r *Recorder[T]) OnValue(v T) stream.Demand {
	r.mu.Lock()
	r.events = append(r.events, Event[T]{Kind: KindValue, Value: v})
	fn := r.demandFn
	r.mu.Unlock()

	if fn == nil {
		return stream.None
	}
	return fn(v)
}

// OnComplete implements stream.Subscriber.
func (r *Recorder[T]) OnComplete(c stream.Completion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event[T]{Kind: KindComplete, Completion: c})
}

// Subscription returns the subscription received in OnSubscribe, or nil.
func (r *Recorder[T]) Subscription() stream.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscription
}

// Request forwards n to the recorded subscription.
func (r *Recorder[T]) Request(n stream.Demand) {
	if s := r.Subscription(); s != nil {
		s.Request(n)
	}
}

// Cancel cancels the recorded subscription.
func (r *Recorder[T]) Cancel() {
	if s := r.Subscription(); s != nil {
		s.Cancel()
	}
}

// Events returns a copy of every recorded signal in arrival order.
func (r *Recorder[T]) Events() []Event[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Values returns the received values in order.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]T, 0, len(r.events))
	for _, e := range r.events {
		if e.Kind == KindValue {
			values = append(values, e.Value)
		}
	}
	return values
}

// Completions returns every received completion. A well-behaved publisher
// delivers at most one.
func (r *Recorder[T]) Completions() []stream.Completion {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []stream.Completion
	for _, e := range r.events {
		if e.Kind == KindComplete {
			out = append(out, e.Completion)
		}
	}
	return out
}

// Count returns how many signals of kind k were recorded.
func (r *Recorder[T]) Count(k Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Completed reports whether a completion was received.
func (r *Recorder[T]) Completed() bool {
	return r.Count(KindComplete) > 0
}
