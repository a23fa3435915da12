package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrymomot/reactive/core/notification"
	"github.com/dmitrymomot/reactive/core/stream"
)

// example is one self-contained playground scenario writing to w.
type example struct {
	name string
	run  func(ctx context.Context, w io.Writer) error
}

func examples() []example {
	return []example{
		{name: "Publisher", run: publisherExample},
		{name: "Subscriber", run: subscriberExample},
		{name: "Just", run: justExample},
		{name: "assign(to:on:)", run: assignToObjectExample},
		{name: "assign(to:)", run: assignToPublishedExample},
		{name: "Custom Subscriber", run: customSubscriberExample},
		{name: "PassthroughSubject", run: passthroughSubjectExample},
	}
}

func runExamples(ctx context.Context, w io.Writer, list []example) error {
	for _, ex := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n——— Example of: %s ———\n", ex.name)
		if err := ex.run(ctx, w); err != nil {
			return fmt.Errorf("example %q: %w", ex.name, err)
		}
	}
	return nil
}

const myNotification = "MyNotification"

func publisherExample(_ context.Context, w io.Writer) error {
	center := notification.NewCenter()
	defer center.Close()

	observer, err := center.AddObserver(myNotification, func(notification.Notification) {
		fmt.Fprintln(w, "Notification received!")
	})
	if err != nil {
		return err
	}

	if err := center.Post(myNotification, nil, nil); err != nil {
		return err
	}
	center.RemoveObserver(observer)
	return nil
}

func subscriberExample(_ context.Context, w io.Writer) error {
	center := notification.NewCenter()
	defer center.Close()

	subscription := center.Publisher(myNotification).Subscribe(stream.Sink(func(notification.Notification) {
		fmt.Fprintln(w, "Notification received from a publisher!")
	}, nil))

	if err := center.Post(myNotification, nil, nil); err != nil {
		return err
	}
	subscription.Cancel()
	return nil
}

func justExample(_ context.Context, w io.Writer) error {
	just := stream.Just("Hello world!")

	just.Subscribe(stream.Sink(
		func(v string) { fmt.Fprintln(w, "Received value", v) },
		func(c stream.Completion) { fmt.Fprintln(w, "Received completion", c) },
	))
	just.Subscribe(stream.Sink(
		func(v string) { fmt.Fprintln(w, "Received value (another)", v) },
		func(c stream.Completion) { fmt.Fprintln(w, "Received completion (another)", c) },
	))
	return nil
}

// someObject prints its value on every change.
type someObject struct {
	w     io.Writer
	value string
}

func (o *someObject) Set(v string) {
	o.value = v
	fmt.Fprintln(o.w, o.value)
}

func assignToObjectExample(_ context.Context, w io.Writer) error {
	object := &someObject{w: w}
	stream.Sequence("Hello", "world!").Subscribe(stream.Assign[string](object))
	return nil
}

func assignToPublishedExample(_ context.Context, w io.Writer) error {
	value := stream.NewPublished(0)
	defer value.Close()

	value.Subscribe(stream.Sink(func(v int) { fmt.Fprintln(w, v) }, nil))
	stream.Range(0, 10).Subscribe(stream.Assign[int](value))
	return nil
}

// intSubscriber requests three values and never asks for more.
type intSubscriber struct {
	w io.Writer
}

func (s intSubscriber) OnSubscribe(sub stream.Subscription) {
	sub.Request(stream.Max(3))
}

func (s intSubscriber) OnValue(v int) stream.Demand {
	fmt.Fprintln(s.w, "Received value", v)
	return stream.None
}

func (s intSubscriber) OnComplete(c stream.Completion) {
	fmt.Fprintln(s.w, "Received completion", c)
}

func customSubscriberExample(_ context.Context, w io.Writer) error {
	stream.Range(1, 6).Subscribe(intSubscriber{w: w})
	return nil
}

var errTest = errors.New("test")

// stringSubscriber starts with two values of demand and asks for one more after "World".
type stringSubscriber struct {
	w io.Writer
}

func (s stringSubscriber) OnSubscribe(sub stream.Subscription) {
	sub.Request(stream.Max(2))
}

func (s stringSubscriber) OnValue(v string) stream.Demand {
	fmt.Fprintln(s.w, "Received value", v)
	if v == "World" {
		return stream.Max(1)
	}
	return stream.None
}

func (s stringSubscriber) OnComplete(c stream.Completion) {
	fmt.Fprintln(s.w, "Received completion", c)
}

func passthroughSubjectExample(_ context.Context, w io.Writer) error {
	subject := stream.NewSubject[string]()
	subject.Subscribe(stringSubscriber{w: w})

	subscription := subject.Subscribe(stream.Sink(
		func(v string) { fmt.Fprintln(w, "Received value (sink)", v) },
		func(c stream.Completion) { fmt.Fprintln(w, "Received completion (sink)", c) },
	))

	subject.Send("Hello")
	subject.Send("World")

	subscription.Cancel()
	subject.Send("Still there?")

	subject.Complete(stream.Failed(errTest))
	subject.Send("How about another one?")
	return nil
}
