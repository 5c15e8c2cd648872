// Package tool implements the function / tool calling subsystem that lets the
// agent invoke structured capabilities (APIs, computations, side-effects)
// with schema validated arguments, consistent error handling and rich
// metadata for LLM guidance.
package tool

import "context"

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tools registered with the Registry become available for the model to call
// during a run. Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Validate the presence and type of their own required parameters
//   - Be thread-safe if used concurrently
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should be descriptive and follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This description is provided to the LLM to help it understand when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	// This schema is used for parameter validation and LLM function calling.
	Parameters() map[string]any

	// Call executes the tool with already-parsed arguments. Implementations
	// must honor ctx cancellation for long running work.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// Switchable is optionally implemented by tools that can be toggled off.
// Disabled tools stay registered but are neither listed to the model nor
// executable.
type Switchable interface {
	Enabled() bool
}

// Conditional is optionally implemented by tools with an availability
// precondition (a required external resource being configured, for
// example). A non-nil error removes the tool from ListAvailable.
type Conditional interface {
	Available() error
}

// ApprovalHinter is optionally implemented by tools whose invocation should
// require explicit confirmation regardless of the configured approval mode.
// autoApprove still overrides the hint.
type ApprovalHinter interface {
	RequiresApproval() bool
}

// Rationaler is optionally implemented by tools that supply a short
// human-readable explanation surfaced alongside approval requests.
type Rationaler interface {
	Rationale() string
}
