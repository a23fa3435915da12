package health

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/reactive/core/logger"
)

// ErrNotReady is returned when a dependency check fails.
var ErrNotReady = errors.New("service is not ready")

// Check verifies a single dependency.
type Check func(context.Context) error

// Status is the aggregated readiness of a set of checks.
type Status int

const (
	Unknown Status = iota
	Ready
	Unavailable
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "READY"
	case Unavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Readiness runs checks in order and stops at the first failure.
// A nil logger disables failure logging.
func Readiness(ctx context.Context, log *slog.Logger, checks ...Check) error {
	for _, check := range checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			if log != nil {
				log.ErrorContext(ctx, "Readiness check failed", logger.Error(err))
			}
			return errors.Join(ErrNotReady, err)
		}
	}
	return nil
}
