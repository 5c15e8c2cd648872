package tool

import (
	"errors"
	"fmt"
)

var (
	// ErrToolNotFound is returned when a proposal references an unregistered tool.
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolDisabled is returned when the referenced tool is registered but
	// disabled or failing its availability precondition.
	ErrToolDisabled = errors.New("tool is disabled")
)

// InvalidArgumentsError reports an argument payload that could not be parsed
// or failed schema validation.
type InvalidArgumentsError struct {
	Tool    string
	Details string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, e.Details)
}

// MissingParameterError reports an absent required parameter.
type MissingParameterError struct {
	Tool string
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q for tool %q", e.Name, e.Tool)
}

// ExecutionError wraps a failure from inside the tool implementation.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
