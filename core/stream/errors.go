package stream

import "errors"

var (
	// ErrUnknownFailure replaces a nil error passed to Failed.
	ErrUnknownFailure = errors.New("stream failed with unknown error")

	// ErrSubjectTerminated is reported when a value or completion is sent to a subject
	// that has already completed. The send itself is a no-op.
	ErrSubjectTerminated = errors.New("subject already terminated")

	// ErrNilSubscriber is the panic value when a nil subscriber is passed to Subscribe.
	ErrNilSubscriber = errors.New("subscriber must not be nil")
)
