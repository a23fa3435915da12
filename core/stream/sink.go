package stream

import "sync"

// SinkSubscriber is a closure-backed subscriber that requests Unlimited demand.
// It accepts a single subscription; additional ones are cancelled.
type SinkSubscriber[T any] struct {
	onValue    func(T)
	onComplete func(Completion)

	mu           sync.Mutex
	subscription Subscription
	subscribed   bool
	cancelled    bool
}

// Sink creates a subscriber calling onValue for every value and onComplete for the
// terminal signal. Either callback may be nil.
//
// Example:
//
//	stream.Just("Hello world!").Subscribe(stream.Sink(
//	    func(v string) { fmt.Println("Received value", v) },
//	    func(c stream.Completion) { fmt.Println("Received completion", c) },
//	))
func Sink[T any](onValue func(T), onComplete func(Completion)) *SinkSubscriber[T] {
	return &SinkSubscriber[T]{
		onValue:    onValue,
		onComplete: onComplete,
	}
}

// OnSubscribe implements Subscriber.
func (s *SinkSubscriber[T]) OnSubscribe(sub Subscription) {
	s.mu.Lock()
	if s.cancelled || s.subscribed {
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	s.subscribed = true
	s.subscription = sub
	s.mu.Unlock()

	sub.Request(Unlimited)
}

// OnValue implements Subscriber.
func (s *SinkSubscriber[T]) OnValue(v T) Demand {
	if s.onValue != nil {
		s.onValue(v)
	}
	return None
}

// OnComplete implements Subscriber.
func (s *SinkSubscriber[T]) OnComplete(c Completion) {
	s.mu.Lock()
	s.subscription = nil
	s.mu.Unlock()

	if s.onComplete != nil {
		s.onComplete(c)
	}
}

// Cancel cancels the current subscription, if any. It is idempotent.
func (s *SinkSubscriber[T]) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	sub := s.subscription
	s.subscription = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}

// Setter receives assigned values.
type Setter[T any] interface {
	Set(v T)
}

// SetterFunc adapts a function to Setter.
type SetterFunc[T any] func(T)

// Set implements Setter.
func (f SetterFunc[T]) Set(v T) {
	f(v)
}

// Assign creates a subscriber that writes every value into target.
//
// Example:
//
//	var label string
//	stream.Sequence("Hello", "world!").Subscribe(stream.Assign(stream.SetterFunc[string](func(v string) {
//	    label = v
//	})))
func Assign[T any](target Setter[T]) *SinkSubscriber[T] {
	return Sink(target.Set, nil)
}
