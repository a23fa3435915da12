package stream

// Published is an observable property. Reads and writes go through Get and Set;
// every write is broadcast through an internal CurrentValueSubject, so storage
// and broadcast stay in one serialized order.
//
// Example:
//
//	count := stream.NewPublished(0)
//	count.Subscribe(stream.Sink(func(v int) { fmt.Println(v) }, nil)) // prints 0
//	count.Set(1)                                                      // prints 1
type Published[T any] struct {
	subject *CurrentValueSubject[T]
}

// NewPublished creates a property holding initial.
func NewPublished[T any](initial T, opts ...Option) *Published[T] {
	return &Published[T]{
		subject: NewCurrentValueSubject(initial, opts...),
	}
}

// Get returns the stored value.
func (p *Published[T]) Get() T {
	return p.subject.Value()
}

// Set stores v and broadcasts it to subscribers. Set implements Setter, so a
// property can be the target of Assign.
func (p *Published[T]) Set(v T) {
	p.subject.Send(v)
}

// Subscribe implements Publisher. Subscribers receive the stored value first.
func (p *Published[T]) Subscribe(sub Subscriber[T]) Subscription {
	return p.subject.Subscribe(sub)
}

// Publisher exposes the property as a read-only Publisher.
func (p *Published[T]) Publisher() Publisher[T] {
	return p.subject
}

// Close finishes every subscription. Writes after Close are ignored.
func (p *Published[T]) Close() {
	p.subject.Complete(Finished())
}
