package contract

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = fmt.Errorf("%w: record not found", ErrValidation)
	ErrTransport      = errors.New("transport failed")
	ErrRemoteAgent    = errors.New("remote agent error")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidMessage = errors.New("message is empty")
)

// ValidationError is a rejected tool argument or a lookup miss. Its message is
// what callers see in ToolResult.Error, so it carries no prefix.
type ValidationError struct {
	Message  string
	NotFound bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports ErrValidation for every ValidationError and ErrNotFound for misses.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return true
	case ErrNotFound:
		return e.NotFound
	default:
		return false
	}
}

func Invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...), NotFound: true}
}

// ToolError carries the error string of a failed ToolResult to callers that
// return plain values instead of results.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tool, e.Message)
}
