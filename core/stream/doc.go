// Package stream provides a reactive publish/subscribe core with pull-based demand.
//
// A Publisher describes an ordered, possibly infinite sequence of values ending in a
// Completion. A Subscriber attaches with Publisher.Subscribe, receives a Subscription
// through OnSubscribe, and declares how many values it can accept by calling
// Subscription.Request. Publishers never deliver more values than the outstanding
// Demand (backpressure).
//
// # Core Types
//
//   - Demand: a bounded count (Max) or Unlimited; None grants nothing
//   - Completion: Finished or Failed(err); failures are data, never panics
//   - Subscription: Request and Cancel, identified by a UUID
//   - Subscriber: OnSubscribe, OnValue (returning extra demand), OnComplete
//
// # Publishers
//
// Stateless publishers can be subscribed to any number of times; every subscription
// gets an independent delivery:
//
//	stream.Just("Hello world!")       // one value, then finished
//	stream.Sequence("a", "b", "c")     // ordered values, then finished
//	stream.Range(1, 6)                 // 1, 2, 3, 4, 5, 6
//	stream.FromSeq(maps.Keys(m))       // lazily pulled iterator
//	stream.Empty[int]()                // finished immediately
//	stream.Fail[int](err)              // failed immediately
//
// Delivery is synchronous on the goroutine that raised demand. A Request issued
// from inside OnValue only adds demand; the running delivery loop picks it up.
//
// # Custom Subscribers
//
// Implement the three callbacks to control demand precisely:
//
//	type intSubscriber struct{}
//
//	func (intSubscriber) OnSubscribe(s stream.Subscription) { s.Request(stream.Max(3)) }
//	func (intSubscriber) OnValue(v int) stream.Demand      { fmt.Println("Received value", v); return stream.None }
//	func (intSubscriber) OnComplete(c stream.Completion)    { fmt.Println("Received completion", c) }
//
//	stream.Range(1, 6).Subscribe(intSubscriber{}) // prints 1, 2, 3 and stalls
//
// Ready-made subscribers cover common cases:
//   - Sink: closures with Unlimited demand
//   - Assign: writes values into a Setter such as a Published property
//   - Consumer: fallible handler, one value in flight, Wait/Err for the outcome
//   - LogSubscriber: slog output with configurable demand
//
// # Subjects
//
// Subject broadcasts values sent from outside to every attached subscriber that has
// demand, in attachment order. Values are not buffered; a subscriber without demand
// misses them:
//
//	subject := stream.NewSubject[string]()
//	subject.Subscribe(subscriber) // requests Max(2)
//	subject.Send("Hello")         // delivered
//	subject.Send("World")         // delivered
//	subject.Send("Dropped")       // demand exhausted, not delivered
//	subject.Complete(stream.Failed(errTest))
//
// Completion is terminal: later Send calls are no-ops, and subscribers attaching
// after completion receive the stored completion right after OnSubscribe.
//
// CurrentValueSubject additionally holds a current value that new subscribers receive
// first. Published wraps it as an observable property with Get and Set.
//
// # External Sources
//
// Bridge adapts a push-based source (a message broker, a database notification
// channel, a ticker) into a Publisher; cancelling the subscription cancels the
// source's context.
//
// # Ownership
//
// There is no global registry of subscriptions. The caller keeps the Subscription
// (or the Cancellable subscriber) for as long as delivery is wanted and cancels it
// when done; CancelOnDone ties that lifetime to a context.
//
// # Thread Safety
//
// All types are safe for concurrent use. No lock is held while subscriber code runs.
// Once Cancel returns, at most one value that was already being delivered may still
// reach the subscriber; nothing follows it.
package stream
