package tool

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnauthorized indicates a missing or invalid credential. It is
// produced by the transport layer only, before any dispatch occurs.
var ErrUnauthorized = errors.New("unauthorized")

// NotFoundError indicates dispatch of an unregistered tool name.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Tool)
}

// ValidationError indicates arguments that failed schema validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// PolicyViolationError indicates a path or command rejected by the
// security policy before any filesystem or process action.
type PolicyViolationError struct {
	Reason string
}

func (e *PolicyViolationError) Error() string {
	return "policy violation: " + e.Reason
}

// TimeoutError indicates a spawned command exceeded its effective
// timeout. Output holds whatever the process wrote before termination.
type TimeoutError struct {
	Timeout time.Duration
	Output  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s", e.Timeout)
}

// ExecutionError is the catch-all for handler-level faults. No internal
// fault propagates past the registry in any other form.
type ExecutionError struct {
	Reason string
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Execf builds an ExecutionError with a formatted reason.
func Execf(format string, args ...any) *ExecutionError {
	return &ExecutionError{Reason: fmt.Sprintf(format, args...)}
}
