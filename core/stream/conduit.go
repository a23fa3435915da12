package stream

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/reactive/core/logger"
)

// conduit is a subject's subscription for one attached subscriber.
// Its mutex guards demand and state; it is never held while calling the subscriber.
type conduit[T any] struct {
	id         uuid.UUID
	mu         sync.Mutex
	subscriber Subscriber[T]
	demand     Demand
	delivering bool
	done       bool

	// pending is the latest value that arrived without demand. Only current-value
	// subjects keep it; passthrough subjects drop such values.
	pending *T

	// completion is stashed when it arrives during a delivery and is sent by the
	// delivering goroutine once it returns.
	completion *Completion

	detach func(*conduit[T])
	logger *slog.Logger
}

func newConduit[T any](s Subscriber[T], detach func(*conduit[T]), log *slog.Logger) *conduit[T] {
	return &conduit[T]{
		id:         uuid.New(),
		subscriber: s,
		detach:     detach,
		logger:     log,
	}
}

// ID implements Subscription.
func (c *conduit[T]) ID() uuid.UUID {
	return c.id
}

// Request implements Subscription.
func (c *conduit[T]) Request(n Demand) {
	c.mu.Lock()
	if c.done || n <= None {
		c.mu.Unlock()
		return
	}
	c.demand = c.demand.Add(n)
	if c.pending == nil || c.delivering {
		c.mu.Unlock()
		return
	}
	v := *c.pending
	c.pending = nil
	c.deliver(v)
}

// Cancel implements Subscription.
func (c *conduit[T]) Cancel() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.subscriber = nil
	c.pending = nil
	c.completion = nil
	detach := c.detach
	c.mu.Unlock()

	if detach != nil {
		detach(c)
	}
}

func (c *conduit[T]) isDone() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// offer hands a broadcast value to the subscriber if it has demand.
// Without demand the value is dropped, or kept as pending when keep is set.
func (c *conduit[T]) offer(v T, keep bool) {
	c.mu.Lock()
	if c.done || c.completion != nil {
		c.mu.Unlock()
		return
	}
	if c.delivering || c.demand == None {
		if keep {
			c.pending = &v
		}
		c.mu.Unlock()
		return
	}
	c.deliver(v)
}

// deliver must be called with c.mu held and demand available; it releases the lock.
func (c *conduit[T]) deliver(v T) {
	c.delivering = true
	c.demand = c.demand.consume()

	for {
		subscriber := c.subscriber
		c.mu.Unlock()
		extra, ok := c.onValue(subscriber, v)
		c.mu.Lock()

		if !ok {
			c.delivering = false
			c.mu.Unlock()
			c.Cancel()
			return
		}
		if c.done {
			c.delivering = false
			c.mu.Unlock()
			return
		}
		c.demand = c.demand.Add(extra)

		if c.pending != nil && c.demand != None {
			v = *c.pending
			c.pending = nil
			c.demand = c.demand.consume()
			continue
		}

		c.delivering = false
		if c.completion != nil {
			c.finish(*c.completion)
			return
		}
		c.mu.Unlock()
		return
	}
}

// complete delivers the terminal signal exactly once unless the conduit was cancelled.
func (c *conduit[T]) complete(comp Completion) {
	c.mu.Lock()
	if c.done || c.completion != nil {
		c.mu.Unlock()
		return
	}
	if c.delivering {
		c.completion = &comp
		c.mu.Unlock()
		return
	}
	c.finish(comp)
}

// finish must be called with c.mu held; it releases the lock.
func (c *conduit[T]) finish(comp Completion) {
	subscriber := c.subscriber
	c.done = true
	c.subscriber = nil
	c.pending = nil
	c.completion = nil
	c.mu.Unlock()

	c.onComplete(subscriber, comp)
}

// onValue calls the subscriber and reports false if it panicked. A panicking
// subscriber is cancelled; the subject keeps serving the others.
func (c *conduit[T]) onValue(s Subscriber[T], v T) (extra Demand, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("subscriber panicked on value",
				logger.SubscriptionID(c.id),
				slog.Any("panic", r))
			extra, ok = None, false
		}
	}()
	return s.OnValue(v), true
}

func (c *conduit[T]) onComplete(s Subscriber[T], comp Completion) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("subscriber panicked on completion",
				logger.SubscriptionID(c.id),
				logger.Completion(comp),
				slog.Any("panic", r))
		}
	}()
	s.OnComplete(comp)
}
