package notification

import (
	"log/slog"
	"time"
)

// Option configures a Center.
type Option func(*Center)

// WithLogger configures structured logging for center diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Center) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithClock overrides the time source used for Notification.PostedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}
