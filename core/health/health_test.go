package health_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/reactive/core/health"
	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/core/stream/streamtest"
)

// lockedBuffer lets concurrent checks share one log buffer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()
		ok := func(context.Context) error { return nil }
		assert.NoError(t, health.Readiness(context.Background(), nil, ok, nil, ok))
	})

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, health.Readiness(context.Background(), nil))
	})

	t.Run("stops at first failure", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection refused")
		var calls atomic.Int32
		failing := func(context.Context) error { calls.Add(1); return boom }
		never := func(context.Context) error { calls.Add(10); return nil }

		err := health.Readiness(context.Background(), nil, failing, never)
		require.Error(t, err)
		assert.ErrorIs(t, err, health.ErrNotReady)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestStatus(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "UNKNOWN", health.Unknown.String())
	assert.Equal(t, "READY", health.Ready.String())
	assert.Equal(t, "UNAVAILABLE", health.Unavailable.String())
}

func TestMonitor(t *testing.T) {
	t.Parallel()

	t.Run("publishes changes only", func(t *testing.T) {
		t.Parallel()

		var healthy atomic.Bool
		healthy.Store(true)
		check := func(context.Context) error {
			if healthy.Load() {
				return nil
			}
			return errors.New("down")
		}

		mon := health.NewMonitor(time.Hour, []health.Check{check})
		rec := streamtest.NewRecorder[health.Status](stream.Unlimited)
		mon.Publisher().Subscribe(rec)

		ctx := context.Background()
		assert.Equal(t, health.Ready, mon.Probe(ctx))
		assert.Equal(t, health.Ready, mon.Probe(ctx))
		healthy.Store(false)
		assert.Equal(t, health.Unavailable, mon.Probe(ctx))
		healthy.Store(true)
		assert.Equal(t, health.Ready, mon.Probe(ctx))

		assert.Equal(t, []health.Status{health.Unknown, health.Ready, health.Unavailable, health.Ready}, rec.Values())
		assert.Equal(t, health.Ready, mon.Status())
	})

	t.Run("concurrent checks publish a transition once", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&lockedBuffer{buf: &buf}))
		mon := health.NewMonitor(time.Hour, []health.Check{func(context.Context) error { return nil }}, health.WithLogger(log))
		rec := streamtest.NewRecorder[health.Status](stream.Unlimited)
		mon.Publisher().Subscribe(rec)

		var g errgroup.Group
		for range 50 {
			g.Go(func() error {
				mon.Probe(context.Background())
				return nil
			})
		}
		require.NoError(t, g.Wait())

		assert.Equal(t, []health.Status{health.Unknown, health.Ready}, rec.Values())
		assert.Equal(t, 1, strings.Count(buf.String(), `"msg":"readiness changed"`))
	})

	t.Run("run completes the stream on cancel", func(t *testing.T) {
		t.Parallel()

		mon := health.NewMonitor(time.Millisecond, []health.Check{func(context.Context) error { return nil }})
		rec := streamtest.NewRecorder[health.Status](stream.Unlimited)
		mon.Publisher().Subscribe(rec)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- mon.Run(ctx) }()

		require.Eventually(t, func() bool { return mon.Status() == health.Ready }, time.Second, time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("monitor did not stop")
		}
		assert.True(t, rec.Completed())
	})
}
