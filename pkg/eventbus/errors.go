package eventbus

import (
	"errors"
	"fmt"
)

var (
	ErrNilHandler        = errors.New("eventbus: handler cannot be nil")
	ErrQueueFull         = errors.New("eventbus: dispatch queue is full")
	ErrDispatcherClosed  = errors.New("eventbus: dispatcher is closed")
	ErrDispatcherRunning = errors.New("eventbus: dispatcher is already running")
)

// HandlerError wraps the error of a subscriber. Subscribers registered after
// the failing one did not run for that publish.
type HandlerError struct {
	Event string
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("eventbus: handler for event '%s' failed: %v", e.Event, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

func NewHandlerError(event string, err error) *HandlerError {
	return &HandlerError{Event: event, Err: err}
}

// DepthError is returned instead of dispatching a publish nested deeper than
// the bus allows.
type DepthError struct {
	Event string
	Depth int
	Max   int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("eventbus: publish of '%s' at depth %d exceeds limit %d", e.Event, e.Depth, e.Max)
}

func NewDepthError(event string, depth, limit int) *DepthError {
	return &DepthError{Event: event, Depth: depth, Max: limit}
}

func IsHandlerError(err error) bool {
	var e *HandlerError
	return errors.As(err, &e)
}

func IsDepthError(err error) bool {
	var e *DepthError
	return errors.As(err, &e)
}
