package stream

import (
	"context"
	"sync"
	"sync/atomic"
)

// Consumer is a subscriber that hands values to a fallible function one at a time.
// It keeps exactly one value of demand outstanding; the first handler error cancels
// the subscription and is reported by Err.
type Consumer[T any] struct {
	handle func(T) error

	mu           sync.Mutex
	subscription Subscription
	err          error

	processed atomic.Int64
	done      chan struct{}
	once      sync.Once
}

// NewConsumer creates a consumer calling handle for every value.
//
// Example:
//
//	consumer := stream.NewConsumer(func(v string) error {
//	    return store.Save(ctx, v)
//	})
//	publisher.Subscribe(consumer)
//	if err := consumer.Wait(ctx); err != nil {
//	    return err
//	}
func NewConsumer[T any](handle func(T) error) *Consumer[T] {
	return &Consumer[T]{
		handle: handle,
		done:   make(chan struct{}),
	}
}

// OnSubscribe implements Subscriber.
func (c *Consumer[T]) OnSubscribe(s Subscription) {
	c.mu.Lock()
	if c.isDone() || c.subscription != nil {
		c.mu.Unlock()
		s.Cancel()
		return
	}
	c.subscription = s
	c.mu.Unlock()

	s.Request(Max(1))
}

// OnValue implements Subscriber.
func (c *Consumer[T]) OnValue(v T) Demand {
	if err := c.handle(v); err != nil {
		c.fail(err)
		return None
	}
	c.processed.Add(1)
	return Max(1)
}

// OnComplete implements Subscriber.
func (c *Consumer[T]) OnComplete(comp Completion) {
	c.mu.Lock()
	c.subscription = nil
	if c.err == nil {
		c.err = comp.Err()
	}
	c.mu.Unlock()

	c.finish()
}

// Cancel stops consumption. Err stays nil unless a failure was recorded earlier.
func (c *Consumer[T]) Cancel() {
	c.mu.Lock()
	sub := c.subscription
	c.subscription = nil
	c.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
	c.finish()
}

// Done is closed once the stream completed, failed, or was cancelled.
func (c *Consumer[T]) Done() <-chan struct{} {
	return c.done
}

// Err returns the first handler error or upstream failure.
func (c *Consumer[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Processed returns the number of values handled successfully.
func (c *Consumer[T]) Processed() int64 {
	return c.processed.Load()
}

// Wait blocks until the consumer is done or ctx is cancelled.
func (c *Consumer[T]) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Consumer[T]) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	sub := c.subscription
	c.subscription = nil
	c.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
	c.finish()
}

func (c *Consumer[T]) finish() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *Consumer[T]) isDone() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
