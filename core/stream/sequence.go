package stream

import (
	"iter"
	"math"
	"sync"

	"github.com/google/uuid"
)

// source yields the values of one subscription. next reports false when exhausted
// and a non-nil error when the sequence failed.
type source[T any] struct {
	next func() (T, error, bool)
	stop func()
	end  Completion
}

// pullPublisher opens an independent source for every subscriber.
type pullPublisher[T any] struct {
	open func() source[T]
}

// Just returns a publisher that emits v once and then finishes.
// Every subscriber receives its own copy of v.
func Just[T any](v T) Publisher[T] {
	return &pullPublisher[T]{open: func() source[T] {
		return sliceSource([]T{v})
	}}
}

// Sequence returns a publisher that emits items in order, respecting demand,
// and finishes right after the last item.
func Sequence[T any](items ...T) Publisher[T] {
	return &pullPublisher[T]{open: func() source[T] {
		return sliceSource(items)
	}}
}

// Range returns a publisher of the integers in [start, start+count).
// It panics if count is negative or start+count overflows int.
func Range(start, count int) Publisher[int] {
	if count < 0 {
		panic("stream: range count must not be negative")
	}
	if start > math.MaxInt-count {
		panic("stream: range overflows int")
	}
	return &pullPublisher[int]{open: func() source[int] {
		i := 0
		return source[int]{
			next: func() (int, error, bool) {
				if i >= count {
					return 0, nil, false
				}
				i++
				return start + i - 1, nil, true
			},
			stop: func() {},
		}
	}}
}

// FromSeq returns a publisher that pulls values lazily from seq.
// One value is pulled ahead of demand so completion is signalled as soon as seq ends.
// seq must not block; cancelling a subscription stops the iterator.
func FromSeq[T any](seq iter.Seq[T]) Publisher[T] {
	return &pullPublisher[T]{open: func() source[T] {
		next, stop := iter.Pull(seq)
		return source[T]{
			next: func() (T, error, bool) {
				v, ok := next()
				return v, nil, ok
			},
			stop: stop,
		}
	}}
}

// FromSeqErr is like FromSeq but fails the stream with the first non-nil error
// yielded by seq. The value paired with that error is discarded.
func FromSeqErr[T any](seq iter.Seq2[T, error]) Publisher[T] {
	return &pullPublisher[T]{open: func() source[T] {
		next, stop := iter.Pull2(seq)
		return source[T]{
			next: func() (T, error, bool) {
				return next()
			},
			stop: stop,
		}
	}}
}

// Empty returns a publisher that finishes immediately without values.
func Empty[T any]() Publisher[T] {
	return &pullPublisher[T]{open: func() source[T] {
		return sliceSource[T](nil)
	}}
}

// Fail returns a publisher that fails immediately with err.
func Fail[T any](err error) Publisher[T] {
	return &pullPublisher[T]{open: func() source[T] {
		src := sliceSource[T](nil)
		src.end = Failed(err)
		return src
	}}
}

func sliceSource[T any](items []T) source[T] {
	i := 0
	return source[T]{
		next: func() (T, error, bool) {
			if i >= len(items) {
				var zero T
				return zero, nil, false
			}
			i++
			return items[i-1], nil, true
		},
		stop: func() {},
	}
}

// Subscribe implements Publisher.
func (p *pullPublisher[T]) Subscribe(s Subscriber[T]) Subscription {
	if s == nil {
		panic(ErrNilSubscriber)
	}

	sub := &pullSubscription[T]{
		id:         uuid.New(),
		subscriber: s,
		src:        p.open(),
	}
	s.OnSubscribe(sub)
	// Sequences that are already exhausted complete without waiting for demand.
	sub.drain(None)
	return sub
}

// pullSubscription delivers values from a source to a single subscriber.
// Delivery runs on whichever goroutine raised demand; a Request issued while
// a delivery loop is active only adds demand for that loop to pick up.
type pullSubscription[T any] struct {
	id         uuid.UUID
	mu         sync.Mutex
	subscriber Subscriber[T]
	src        source[T]
	demand     Demand
	draining   bool
	done       bool

	// lookahead holds a value pulled from src but not yet delivered.
	lookahead    T
	hasLookahead bool
}

// ID implements Subscription.
func (s *pullSubscription[T]) ID() uuid.UUID {
	return s.id
}

// Request implements Subscription.
func (s *pullSubscription[T]) Request(n Demand) {
	if n <= None {
		return
	}
	s.drain(n)
}

// Cancel implements Subscription.
func (s *pullSubscription[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}
	s.release()
}

func (s *pullSubscription[T]) drain(n Demand) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.demand = s.demand.Add(n)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for !s.done {
		if !s.hasLookahead {
			v, err, ok := s.src.next()
			if err != nil {
				s.complete(Failed(err))
				return
			}
			if !ok {
				s.complete(s.src.end)
				return
			}
			s.lookahead, s.hasLookahead = v, true
		}
		if s.demand == None {
			break
		}

		v := s.lookahead
		var zero T
		s.lookahead, s.hasLookahead = zero, false
		s.demand = s.demand.consume()
		subscriber := s.subscriber

		s.mu.Unlock()
		extra := s.onValue(subscriber, v)
		s.mu.Lock()

		if !s.done {
			s.demand = s.demand.Add(extra)
		}
	}

	s.draining = false
	s.mu.Unlock()
}

// onValue calls the subscriber. If OnValue panics the subscription is released
// before the panic propagates to the goroutine that raised demand.
func (s *pullSubscription[T]) onValue(sub Subscriber[T], v T) Demand {
	returned := false
	defer func() {
		if returned {
			return
		}
		s.mu.Lock()
		s.draining = false
		if !s.done {
			s.release()
		}
		s.mu.Unlock()
	}()

	extra := sub.OnValue(v)
	returned = true
	return extra
}

// complete must be called with s.mu held; it releases the lock.
func (s *pullSubscription[T]) complete(c Completion) {
	subscriber := s.subscriber
	s.release()
	s.draining = false
	s.mu.Unlock()

	subscriber.OnComplete(c)
}

// release must be called with s.mu held.
func (s *pullSubscription[T]) release() {
	s.done = true
	s.src.stop()
	s.subscriber = nil
	var zero T
	s.lookahead, s.hasLookahead = zero, false
}
