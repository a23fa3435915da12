package stream

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/reactive/core/logger"
)

// OpenFunc runs a push-based external source for one subscription. It emits values
// with emit and blocks until the source ends or ctx is cancelled. A nil return
// finishes the stream; an error fails it.
type OpenFunc[T any] func(ctx context.Context, emit func(T)) error

// Bridge adapts a push-based external source into a Publisher.
//
// Every subscription runs open in its own goroutine and forwards its values through
// a private Subject, so values arriving without demand are dropped. Cancelling the
// subscription cancels the context passed to open.
//
// Example:
//
//	ticks := stream.Bridge(func(ctx context.Context, emit func(time.Time)) error {
//	    t := time.NewTicker(time.Second)
//	    defer t.Stop()
//	    for {
//	        select {
//	        case <-ctx.Done():
//	            return nil
//	        case now := <-t.C:
//	            emit(now)
//	        }
//	    }
//	})
func Bridge[T any](open OpenFunc[T], opts ...Option) Publisher[T] {
	return &bridgePublisher[T]{open: open, opts: opts}
}

type bridgePublisher[T any] struct {
	open OpenFunc[T]
	opts []Option
}

// Subscribe implements Publisher.
func (p *bridgePublisher[T]) Subscribe(s Subscriber[T]) Subscription {
	if s == nil {
		panic(ErrNilSubscriber)
	}

	o := newOptions(p.opts)
	ctx, cancel := context.WithCancel(context.Background())
	subject := NewSubject[T](p.opts...)

	hooked := &hookedSubscriber[T]{Subscriber: s, onCancel: cancel}
	subject.Subscribe(hooked)

	go func() {
		defer cancel()

		err := p.open(ctx, subject.Send)
		switch {
		case ctx.Err() != nil:
			subject.Complete(Finished())
		case err != nil:
			o.logger.Error("bridge source failed",
				logger.SubscriptionID(hooked.subscription.ID()),
				logger.Error(err))
			subject.Complete(Failed(err))
		default:
			subject.Complete(Finished())
		}
	}()

	return hooked.subscription
}

// hookedSubscriber hands its subscriber a subscription whose Cancel also runs onCancel.
type hookedSubscriber[T any] struct {
	Subscriber[T]
	onCancel     func()
	subscription *hookedSubscription
}

func (h *hookedSubscriber[T]) OnSubscribe(s Subscription) {
	h.subscription = &hookedSubscription{inner: s, onCancel: h.onCancel}
	h.Subscriber.OnSubscribe(h.subscription)
}

type hookedSubscription struct {
	inner    Subscription
	onCancel func()
	once     sync.Once
}

func (s *hookedSubscription) ID() uuid.UUID {
	return s.inner.ID()
}

func (s *hookedSubscription) Request(n Demand) {
	s.inner.Request(n)
}

func (s *hookedSubscription) Cancel() {
	s.inner.Cancel()
	s.once.Do(s.onCancel)
}
