package notification

import (
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
)

// Notification is a named message posted to a Center.
type Notification struct {
	ID       uuid.UUID
	Name     string
	Object   any
	UserInfo map[string]any
	PostedAt time.Time
}

// Center dispatches notifications by name. Every observed name is backed by its
// own stream.Subject, so observers follow the usual demand rules: a Sink observer
// sees every notification, a subscriber without demand misses them.
//
// A name's subject is dropped once its last observer cancels, so names that are
// no longer observed do not accumulate.
type Center struct {
	mu     sync.RWMutex
	topics map[string]*topic
	closed bool

	logger *slog.Logger
	now    func() time.Time
}

// topic is the subject behind one name and the number of live observations.
type topic struct {
	subject   *stream.Subject[Notification]
	observers int
}

// NewCenter creates an empty notification center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		topics: make(map[string]*topic),
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post delivers a notification to every observer of name. Posting a name
// nobody observes is not an error. userInfo is copied.
func (c *Center) Post(name string, object any, userInfo map[string]any) error {
	if name == "" {
		return ErrEmptyName
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrCenterClosed
	}
	t := c.topics[name]
	c.mu.RUnlock()

	if t == nil {
		c.logger.Debug("notification posted without observers", logger.Event(name))
		return nil
	}

	n := Notification{
		ID:       uuid.New(),
		Name:     name,
		Object:   object,
		UserInfo: maps.Clone(userInfo),
		PostedAt: c.now(),
	}
	t.subject.Send(n)
	c.logger.Debug("notification posted",
		logger.Event(name),
		logger.ID("notification_id", n.ID.String()),
		logger.Subscribers(t.subject.Subscribers()))
	return nil
}

// Publisher returns a publisher of the notifications posted under name.
// Subscribing after Close, or with an empty name, finishes immediately.
func (c *Center) Publisher(name string) stream.Publisher[Notification] {
	return &namedPublisher{center: c, name: name}
}

// AddObserver calls fn for every notification posted under name until the
// returned subscription is cancelled or passed to RemoveObserver.
func (c *Center) AddObserver(name string, fn func(Notification)) (stream.Subscription, error) {
	if fn == nil {
		return nil, ErrNilObserver
	}
	return c.observe(name, stream.Sink(fn, nil))
}

// RemoveObserver cancels an observation created by AddObserver or Publisher.
func (c *Center) RemoveObserver(sub stream.Subscription) {
	if sub != nil {
		sub.Cancel()
	}
}

// Observers returns the number of subscribers attached to name.
func (c *Center) Observers(name string) int {
	c.mu.RLock()
	t := c.topics[name]
	c.mu.RUnlock()

	if t == nil {
		return 0
	}
	return t.subject.Subscribers()
}

// Names returns how many names currently have observers.
func (c *Center) Names() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.topics)
}

// Close finishes every observation. Later posts fail with ErrCenterClosed.
func (c *Center) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	topics := c.topics
	c.topics = make(map[string]*topic)
	c.mu.Unlock()

	for name, t := range topics {
		t.subject.Complete(stream.Finished())
		c.logger.Debug("notification name closed", logger.Event(name))
	}
}

// observe attaches s to name's subject and returns a subscription whose Cancel
// releases the name.
func (c *Center) observe(name string, s stream.Subscriber[Notification]) (stream.Subscription, error) {
	t, err := c.acquire(name)
	if err != nil {
		return nil, err
	}

	o := &observer{Subscriber: s, release: func() { c.release(name, t) }}
	t.subject.Subscribe(o)
	return o.observation, nil
}

func (c *Center) acquire(name string) (*topic, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCenterClosed
	}
	t, ok := c.topics[name]
	if !ok {
		t = &topic{subject: stream.NewSubject[Notification](stream.WithLogger(c.logger))}
		c.topics[name] = t
	}
	t.observers++
	return t, nil
}

func (c *Center) release(name string, t *topic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t.observers--
	if t.observers > 0 || c.topics[name] != t {
		return
	}
	delete(c.topics, name)
	c.logger.Debug("notification name released", logger.Event(name))
}

// namedPublisher resolves its name's subject on every Subscribe.
type namedPublisher struct {
	center *Center
	name   string
}

func (p *namedPublisher) Subscribe(s stream.Subscriber[Notification]) stream.Subscription {
	if s == nil {
		panic(stream.ErrNilSubscriber)
	}
	sub, err := p.center.observe(p.name, s)
	if err != nil {
		return stream.Empty[Notification]().Subscribe(s)
	}
	return sub
}

// observer hands its subscriber an observation instead of the raw subscription.
type observer struct {
	stream.Subscriber[Notification]
	release     func()
	observation *observation
}

func (o *observer) OnSubscribe(s stream.Subscription) {
	o.observation = &observation{Subscription: s, release: o.release}
	o.Subscriber.OnSubscribe(o.observation)
}

// observation releases its name exactly once on Cancel.
type observation struct {
	stream.Subscription
	release func()
	once    sync.Once
}

func (o *observation) Cancel() {
	o.Subscription.Cancel()
	o.once.Do(o.release)
}
