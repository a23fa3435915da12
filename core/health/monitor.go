package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
)

// Monitor periodically runs checks and publishes the resulting Status.
// Subscribers receive the current status on attach and every change after it.
type Monitor struct {
	interval time.Duration
	checks   []Check
	log      *slog.Logger
	status   *stream.Published[Status]

	// checking serializes runs so each transition is published once.
	checking sync.Mutex
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithLogger sets the logger used for status transitions.
func WithLogger(log *slog.Logger) MonitorOption {
	return func(m *Monitor) {
		if log != nil {
			m.log = log
		}
	}
}

// NewMonitor creates a monitor in the Unknown state. A non-positive interval defaults to one second.
func NewMonitor(interval time.Duration, checks []Check, opts ...MonitorOption) *Monitor {
	if interval <= 0 {
		interval = time.Second
	}
	m := &Monitor{
		interval: interval,
		checks:   checks,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.status = stream.NewPublished(Unknown, stream.WithLogger(m.log))
	return m
}

// Status returns the last published status.
func (m *Monitor) Status() Status {
	return m.status.Get()
}

// Publisher exposes status updates.
func (m *Monitor) Publisher() stream.Publisher[Status] {
	return m.status.Publisher()
}

// Probe runs the checks once and publishes the result if it changed.
// Concurrent calls are serialized.
func (m *Monitor) Probe(ctx context.Context) Status {
	m.checking.Lock()
	defer m.checking.Unlock()

	next := Ready
	if err := Readiness(ctx, m.log, m.checks...); err != nil {
		next = Unavailable
	}
	if prev := m.status.Get(); prev != next {
		m.log.InfoContext(ctx, "readiness changed",
			logger.Component("health"),
			slog.String("from", prev.String()),
			slog.String("to", next.String()),
		)
		m.status.Set(next)
	}
	return next
}

// Run checks periodically until ctx is done, then completes the status stream.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.status.Close()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Probe(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
