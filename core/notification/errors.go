package notification

import "errors"

var (
	// ErrCenterClosed is returned by Post and AddObserver after Close.
	ErrCenterClosed = errors.New("notification center is closed")

	// ErrEmptyName is returned when a notification name is empty.
	ErrEmptyName = errors.New("notification name must not be empty")

	// ErrNilObserver is returned by AddObserver when the callback is nil.
	ErrNilObserver = errors.New("observer must not be nil")
)
