package logger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Attribute helpers return an empty Attr for missing input, so callers can write
// log.Info("msg", logger.Error(err)) without nil checks. slog drops empty attrs.

// ============================================================================
// Error Handling
// ============================================================================

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// ============================================================================
// Streams
// ============================================================================

// SubscriptionID creates an attribute for a subscription identifier.
// Returns empty Attr for uuid.Nil.
func SubscriptionID(id uuid.UUID) slog.Attr {
	if id == uuid.Nil {
		return slog.Attr{}
	}
	return slog.String("subscription_id", id.String())
}

// Demand creates an attribute for a subscriber demand, rendered with its String method.
func Demand(d fmt.Stringer) slog.Attr {
	if d == nil {
		return slog.Attr{}
	}
	return slog.String("demand", d.String())
}

// Completion creates an attribute for a stream's terminal signal.
func Completion(c fmt.Stringer) slog.Attr {
	if c == nil {
		return slog.Attr{}
	}
	return slog.String("completion", c.String())
}

// Subscribers creates an attribute for the number of attached subscribers.
func Subscribers(n int) slog.Attr {
	return slog.Int("subscribers", n)
}

// Channel creates an attribute for a broker or notification channel name.
func Channel(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("channel", name)
}

// Value creates an attribute for a delivered stream value.
func Value(v any) slog.Attr {
	return slog.Any("value", v)
}

// ============================================================================
// Performance and Timing
// ============================================================================

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Generic Identifiers
// ============================================================================

// ID creates a generic identifier attribute with a custom key.
func ID(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an attribute for event names.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// RetryCount creates an attribute for retry attempts.
func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}
