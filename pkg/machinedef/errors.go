package machinedef

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDefinition   = errors.New("machinedef: definition is empty")
	ErrParsingDefinition = errors.New("machinedef: failed to parse definition")
	ErrReadingDefinition = errors.New("machinedef: failed to read definition file")
	ErrInvalidDefinition = errors.New("machinedef: invalid definition")
	ErrNilPublisher      = errors.New("machinedef: publisher cannot be nil")
	ErrNilBus            = errors.New("machinedef: bus cannot be nil")
)

// FieldError points at the part of a definition that failed validation.
type FieldError struct {
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func NewFieldError(path, format string, args ...any) *FieldError {
	return &FieldError{Path: path, Message: fmt.Sprintf(format, args...)}
}

func IsFieldError(err error) bool {
	var e *FieldError
	return errors.As(err, &e)
}
