package stream

import "context"

// CancelOnDone ties the lifetime of c to ctx: c is cancelled once ctx is done.
// The returned stop function detaches c from ctx without cancelling it and reports
// whether it did so before the cancellation ran.
//
// Example:
//
//	sub := subject.Subscribe(subscriber)
//	defer stream.CancelOnDone(ctx, sub)()
func CancelOnDone(ctx context.Context, c Cancellable) (stop func() bool) {
	return context.AfterFunc(ctx, c.Cancel)
}
