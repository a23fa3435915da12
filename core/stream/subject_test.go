package stream_test

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/core/stream/streamtest"
)

func TestSubject_Demand(t *testing.T) {
	t.Parallel()

	t.Run("values without demand are dropped", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[string]()
		rec := streamtest.NewRecorder[string](stream.Max(2))
		subject.Subscribe(rec)

		subject.Send("Hello")
		subject.Send("World")
		subject.Send("X")

		assert.Equal(t, []string{"Hello", "World"}, rec.Values())
	})

	t.Run("demand granted from OnValue keeps delivery going", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[string]()
		rec := streamtest.NewRecorder(stream.Max(2), streamtest.WithDemandFunc(func(v string) stream.Demand {
			if v == "World" {
				return stream.Max(1)
			}
			return stream.None
		}))
		subject.Subscribe(rec)

		subject.Send("Hello")
		subject.Send("World")
		subject.Send("Still there?")
		subject.Send("Dropped")

		assert.Equal(t, []string{"Hello", "World", "Still there?"}, rec.Values())
	})

	t.Run("values sent before subscribing are not replayed", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		subject.Send(1)

		rec := streamtest.NewRecorder[int](stream.Unlimited)
		subject.Subscribe(rec)
		subject.Send(2)

		assert.Equal(t, []int{2}, rec.Values())
	})

	t.Run("zero initial demand receives nothing until requested", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		rec := streamtest.NewRecorder[int](stream.None)
		subject.Subscribe(rec)

		subject.Send(1)
		rec.Request(stream.Max(1))
		subject.Send(2)
		subject.Send(3)

		assert.Equal(t, []int{2}, rec.Values())
	})
}

func TestSubject_Broadcast(t *testing.T) {
	t.Parallel()

	t.Run("subscribers receive values in attachment order", func(t *testing.T) {
		t.Parallel()

		var (
			mu  sync.Mutex
			log []string
		)
		record := func(name string) *stream.SinkSubscriber[int] {
			return stream.Sink(func(v int) {
				mu.Lock()
				defer mu.Unlock()
				log = append(log, name)
			}, nil)
		}

		subject := stream.NewSubject[int]()
		subject.Subscribe(record("first"))
		subject.Subscribe(record("second"))
		subject.Subscribe(record("third"))
		subject.Send(1)

		assert.Equal(t, []string{"first", "second", "third"}, log)
		assert.Equal(t, 3, subject.Subscribers())
	})

	t.Run("each subscriber has its own demand", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		one := streamtest.NewRecorder[int](stream.Max(1))
		all := streamtest.NewRecorder[int](stream.Unlimited)
		subject.Subscribe(one)
		subject.Subscribe(all)

		subject.Send(1)
		subject.Send(2)

		assert.Equal(t, []int{1}, one.Values())
		assert.Equal(t, []int{1, 2}, all.Values())
	})
}

func TestSubject_Complete(t *testing.T) {
	t.Parallel()

	errTest := errors.New("test")

	t.Run("completion reaches every subscriber once", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[string]()
		first := streamtest.NewRecorder[string](stream.Unlimited)
		second := streamtest.NewRecorder[string](stream.None)
		subject.Subscribe(first)
		subject.Subscribe(second)

		subject.Send("Hello")
		subject.Complete(stream.Failed(errTest))
		subject.Complete(stream.Finished())

		for _, rec := range []*streamtest.Recorder[string]{first, second} {
			require.Len(t, rec.Completions(), 1)
			assert.ErrorIs(t, rec.Completions()[0].Err(), errTest)
		}
		assert.Equal(t, []string{"Hello"}, first.Values())
		assert.Zero(t, subject.Subscribers())
	})

	t.Run("send after completion is a no-op", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[string]()
		rec := streamtest.NewRecorder[string](stream.Unlimited)
		subject.Subscribe(rec)

		subject.Complete(stream.Finished())
		subject.Send("late")

		assert.Empty(t, rec.Values())
		assert.Len(t, rec.Completions(), 1)
	})

	t.Run("late subscriber receives the stored completion", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[string]()
		subject.Complete(stream.Failed(errTest))

		rec := streamtest.NewRecorder[string](stream.None)
		subject.Subscribe(rec)

		events := rec.Events()
		require.Len(t, events, 2)
		assert.Equal(t, streamtest.KindSubscribe, events[0].Kind)
		assert.Equal(t, streamtest.KindComplete, events[1].Kind)
		assert.ErrorIs(t, events[1].Completion.Err(), errTest)
		assert.Zero(t, subject.Subscribers())
	})

	t.Run("completion from OnValue is delivered after the value", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		rec := streamtest.NewRecorder(stream.Unlimited, streamtest.WithDemandFunc(func(v int) stream.Demand {
			subject.Complete(stream.Finished())
			return stream.None
		}))
		subject.Subscribe(rec)

		subject.Send(1)
		subject.Send(2)

		events := rec.Events()
		require.Len(t, events, 3)
		assert.Equal(t, streamtest.KindValue, events[1].Kind)
		assert.Equal(t, 1, events[1].Value)
		assert.Equal(t, streamtest.KindComplete, events[2].Kind)
	})
}

func TestSubject_Cancel(t *testing.T) {
	t.Parallel()

	t.Run("cancel detaches only that subscriber", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		kept := streamtest.NewRecorder[int](stream.Unlimited)
		dropped := streamtest.NewRecorder[int](stream.Unlimited)
		subject.Subscribe(kept)
		sub := subject.Subscribe(dropped)

		subject.Send(1)
		sub.Cancel()
		sub.Cancel()
		subject.Send(2)
		subject.Complete(stream.Finished())

		assert.Equal(t, []int{1, 2}, kept.Values())
		assert.Equal(t, []int{1}, dropped.Values())
		assert.False(t, dropped.Completed())
		assert.True(t, kept.Completed())
	})

	t.Run("cancel from OnValue stops delivery", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		var rec *streamtest.Recorder[int]
		rec = streamtest.NewRecorder(stream.Unlimited, streamtest.WithDemandFunc(func(v int) stream.Demand {
			rec.Cancel()
			return stream.Max(10)
		}))
		subject.Subscribe(rec)

		subject.Send(1)
		subject.Send(2)

		assert.Equal(t, []int{1}, rec.Values())
		assert.Zero(t, subject.Subscribers())
	})

	t.Run("at most the in-flight value follows a concurrent cancel", func(t *testing.T) {
		t.Parallel()

		entered := make(chan struct{})
		release := make(chan struct{})
		subject := stream.NewSubject[int]()
		rec := streamtest.NewRecorder(stream.Unlimited, streamtest.WithDemandFunc(func(v int) stream.Demand {
			if v == 1 {
				close(entered)
				<-release
			}
			return stream.None
		}))
		sub := subject.Subscribe(rec)

		var g errgroup.Group
		g.Go(func() error {
			subject.Send(1)
			return nil
		})

		<-entered
		sub.Cancel()
		close(release)
		require.NoError(t, g.Wait())

		subject.Send(2)
		assert.Equal(t, []int{1}, rec.Values())
		assert.False(t, rec.Completed())
	})

	t.Run("subscriber cancelling in OnSubscribe is never attached", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		sink := stream.Sink[int](nil, nil)
		sink.Cancel()
		subject.Subscribe(sink)

		assert.Zero(t, subject.Subscribers())
	})
}

func TestSubject_Reentrancy(t *testing.T) {
	t.Parallel()

	t.Run("send from OnValue is queued in order", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		echo := streamtest.NewRecorder(stream.Unlimited, streamtest.WithDemandFunc(func(v int) stream.Demand {
			if v < 5 {
				subject.Send(v + 1)
			}
			return stream.None
		}))
		observer := streamtest.NewRecorder[int](stream.Unlimited)
		subject.Subscribe(echo)
		subject.Subscribe(observer)

		subject.Send(0)

		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, echo.Values())
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, observer.Values())
	})

	t.Run("deep reentrant sends do not grow the stack", func(t *testing.T) {
		t.Parallel()

		const depth = 100000
		subject := stream.NewSubject[int]()
		rec := streamtest.NewRecorder(stream.Unlimited, streamtest.WithDemandFunc(func(v int) stream.Demand {
			if v < depth {
				subject.Send(v + 1)
			}
			return stream.None
		}))
		subject.Subscribe(rec)
		subject.Send(1)

		assert.Len(t, rec.Values(), depth)
	})

	t.Run("subscribe from OnValue attaches for later values", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		late := streamtest.NewRecorder[int](stream.Unlimited)
		var once sync.Once
		first := streamtest.NewRecorder(stream.Unlimited, streamtest.WithDemandFunc(func(v int) stream.Demand {
			once.Do(func() { subject.Subscribe(late) })
			return stream.None
		}))
		subject.Subscribe(first)

		subject.Send(1)
		subject.Send(2)

		assert.Equal(t, []int{1, 2}, first.Values())
		assert.Equal(t, []int{2}, late.Values())
	})
}

func TestSubject_Concurrency(t *testing.T) {
	t.Parallel()

	const (
		senders = 10
		perSend = 100
	)

	subject := stream.NewSubject[int]()
	rec := streamtest.NewRecorder[int](stream.Unlimited)
	subject.Subscribe(rec)

	var g errgroup.Group
	for i := range senders {
		g.Go(func() error {
			for j := range perSend {
				subject.Send(i*perSend + j)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	subject.Complete(stream.Finished())

	values := rec.Values()
	assert.Len(t, values, senders*perSend)
	assert.Len(t, rec.Completions(), 1)

	events := rec.Events()
	assert.Equal(t, streamtest.KindComplete, events[len(events)-1].Kind)
}

func TestSubject_ConcurrentSubscribeAndCancel(t *testing.T) {
	t.Parallel()

	subject := stream.NewSubject[int]()

	var g errgroup.Group
	for range 50 {
		g.Go(func() error {
			sub := subject.Subscribe(stream.Sink[int](nil, nil))
			subject.Send(1)
			sub.Cancel()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Zero(t, subject.Subscribers())
}

func TestSubject_PanickingSubscriber(t *testing.T) {
	t.Parallel()

	t.Run("panic in OnValue cancels only that subscriber", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf), logger.WithLevel(slog.LevelError))
		subject := stream.NewSubject[int](stream.WithLogger(log))

		var panicked int
		subject.Subscribe(stream.Sink(func(int) {
			panicked++
			panic("broken observer")
		}, nil))
		rec := streamtest.NewRecorder[int](stream.Unlimited)
		subject.Subscribe(rec)

		assert.NotPanics(t, func() { subject.Send(1) })
		subject.Send(2)
		subject.Complete(stream.Finished())

		assert.Equal(t, 1, panicked)
		assert.Equal(t, []int{1, 2}, rec.Values())
		assert.True(t, rec.Completed())
		assert.Contains(t, buf.String(), `"msg":"subscriber panicked on value"`)
		assert.Contains(t, buf.String(), `"panic":"broken observer"`)
	})

	t.Run("panicking subscriber is detached", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[int]()
		subject.Subscribe(stream.Sink(func(int) { panic("boom") }, nil))
		subject.Subscribe(stream.Sink[int](nil, nil))
		require.Equal(t, 2, subject.Subscribers())

		subject.Send(1)
		assert.Equal(t, 1, subject.Subscribers())
	})

	t.Run("panic in OnComplete does not block other subscribers", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewSubject[string]()
		subject.Subscribe(stream.Sink[string](nil, func(stream.Completion) { panic("boom") }))
		rec := streamtest.NewRecorder[string](stream.Unlimited)
		subject.Subscribe(rec)

		assert.NotPanics(t, func() { subject.Complete(stream.Finished()) })
		assert.True(t, rec.Completed())
	})

	t.Run("current value subject keeps serving after a panic", func(t *testing.T) {
		t.Parallel()

		subject := stream.NewCurrentValueSubject(0)
		subject.Subscribe(stream.Sink(func(v int) {
			if v == 1 {
				panic("boom")
			}
		}, nil))
		rec := streamtest.NewRecorder[int](stream.Unlimited)
		subject.Subscribe(rec)

		subject.Send(1)
		subject.Send(2)

		assert.Equal(t, []int{0, 1, 2}, rec.Values())
		assert.Equal(t, 1, subject.Subscribers())
	})
}
