package waitfor

import "errors"

var (
	// ErrNilDispatcher is returned by New when no dispatcher is given.
	ErrNilDispatcher = errors.New("waitfor: dispatcher is nil")

	// ErrTimeout is returned when the deadline passes without a match.
	// It is an expected outcome, not a failure of the queue.
	ErrTimeout = errors.New("waitfor: timed out waiting for event")

	// ErrClosed is returned by waits on a queue that has been closed.
	ErrClosed = errors.New("waitfor: queue closed")

	// ErrNoVariants is returned when the filter is empty and could never match.
	ErrNoVariants = errors.New("waitfor: no variants to wait for")

	// ErrUnexpectedType is returned by Next when the matched event is not of
	// the requested Go type.
	ErrUnexpectedType = errors.New("waitfor: event has unexpected type")
)
