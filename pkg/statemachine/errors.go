package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInitialState   = errors.New("statemachine: initial state is required")
	ErrEmptyStateSet       = errors.New("statemachine: declared state set is empty")
	ErrUnknownInitialState = errors.New("statemachine: initial state is not in the declared state set")
	ErrInvalidTransition   = errors.New("statemachine: invalid transition: from, event and to are required")
	ErrNilAction           = errors.New("statemachine: action cannot be nil")
)

// ActionError reports an action that failed after the machine entered State.
// The state change that preceded it is not undone.
type ActionError struct {
	Machine string
	State   string
	Index   int
	Err     error
}

func (e *ActionError) Error() string {
	if e.Machine != "" {
		return fmt.Sprintf("statemachine: %s: action %d for state '%s' failed: %v", e.Machine, e.Index, e.State, e.Err)
	}
	return fmt.Sprintf("statemachine: action %d for state '%s' failed: %v", e.Index, e.State, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

func NewActionError(machine, state string, index int, err error) *ActionError {
	return &ActionError{
		Machine: machine,
		State:   state,
		Index:   index,
		Err:     err,
	}
}

func IsActionError(err error) bool {
	var e *ActionError
	return errors.As(err, &e)
}
