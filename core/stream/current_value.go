package stream

// CurrentValueSubject is a Subject that holds a current value.
//
// A new subscriber receives the current value as soon as it has demand, then every
// subsequent value. While a subscriber has no demand, only the latest value is kept
// for it and delivered on its next Request.
type CurrentValueSubject[T any] struct {
	core broadcaster[T]
}

// NewCurrentValueSubject creates a subject whose current value is initial.
func NewCurrentValueSubject[T any](initial T, opts ...Option) *CurrentValueSubject[T] {
	s := &CurrentValueSubject[T]{}
	s.core.init(newOptions(opts), true)
	s.core.latest = initial
	s.core.current = initial
	return s
}

// Subscribe implements Publisher.
func (s *CurrentValueSubject[T]) Subscribe(sub Subscriber[T]) Subscription {
	return s.core.subscribe(sub)
}

// Send replaces the current value and broadcasts it. It is a no-op after completion.
func (s *CurrentValueSubject[T]) Send(v T) {
	s.core.send(v)
}

// Complete marks the subject terminal and delivers c to every attached subscriber.
func (s *CurrentValueSubject[T]) Complete(c Completion) {
	s.core.complete(c)
}

// Value returns the most recently sent value.
func (s *CurrentValueSubject[T]) Value() T {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	return s.core.latest
}

// Subscribers returns the number of attached subscribers.
func (s *CurrentValueSubject[T]) Subscribers() int {
	return s.core.subscribers()
}
