package stream

import "errors"

// Completion is the terminal signal of a stream: either finished normally
// or failed with an error.
type Completion struct {
	err error
}

// Finished returns a normal completion.
func Finished() Completion {
	return Completion{}
}

// Failed returns a failure completion carrying err.
// A nil err is replaced with ErrUnknownFailure so the completion stays a failure.
func Failed(err error) Completion {
	if err == nil {
		err = ErrUnknownFailure
	}
	return Completion{err: err}
}

// Err returns the failure cause, or nil for a finished completion.
func (c Completion) Err() error {
	return c.err
}

// IsFinished reports whether the stream completed normally.
func (c Completion) IsFinished() bool {
	return c.err == nil
}

// IsFailed reports whether the stream terminated with a failure.
func (c Completion) IsFailed() bool {
	return c.err != nil
}

// Is reports whether c failed with an error matching target.
func (c Completion) Is(target error) bool {
	return c.err != nil && errors.Is(c.err, target)
}

// String implements fmt.Stringer.
func (c Completion) String() string {
	if c.err == nil {
		return "finished"
	}
	return "failure(" + c.err.Error() + ")"
}
