package tool

import (
	"context"
	"errors"

	"github.com/hupe1980/agentgate/internal/util"
)

// FunctionTool is a generic adapter that exposes a plain Go function as an
// agentgate tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like parameter specification
//   - Validates model supplied arguments against that schema before execution
//   - Normalizes validation failures into the executor error taxonomy
//     (MissingParameterError / InvalidArgumentsError / ExecutionError)
//
// A FunctionTool has no internal mutable state after construction and is
// safe for concurrent use by multiple goroutines.
type FunctionTool struct {
	name             string
	description      string
	parameters       map[string]any
	fn               func(ctx context.Context, args map[string]any) (string, error)
	disabled         bool
	precondition     func() error
	requiresApproval bool
	rationale        string
}

// FunctionToolOption mutates construction-time settings of a FunctionTool.
type FunctionToolOption func(t *FunctionTool)

// WithDisabled registers the tool in a disabled state.
func WithDisabled() FunctionToolOption {
	return func(t *FunctionTool) { t.disabled = true }
}

// WithPrecondition attaches an availability check; a non-nil error hides the
// tool from ListAvailable and fails execution attempts.
func WithPrecondition(check func() error) FunctionToolOption {
	return func(t *FunctionTool) { t.precondition = check }
}

// WithRequiresApproval marks invocations of this tool as needing explicit
// user confirmation regardless of the configured approval mode
// (autoApprove still overrides).
func WithRequiresApproval() FunctionToolOption {
	return func(t *FunctionTool) { t.requiresApproval = true }
}

// WithRationale attaches a short explanation shown to whoever decides on
// approval requests for this tool.
func WithRationale(rationale string) FunctionToolOption {
	return func(t *FunctionTool) { t.rationale = rationale }
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	sumTool := NewFunctionTool(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "a": map[string]any{"type": "number"},
//	      "b": map[string]any{"type": "number"},
//	    },
//	    "required": []string{"a", "b"},
//	  },
//	  func(_ context.Context, args map[string]any) (string, error) {
//	    return fmt.Sprintf("%v", args["a"].(float64)+args["b"].(float64)), nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]any) (string, error),
	optFns ...FunctionToolOption,
) *FunctionTool {
	t := &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
	for _, opt := range optFns {
		opt(t)
	}
	return t
}

// NewFunctionToolFromStruct derives the parameter schema from a struct using
// reflection, equivalent to passing util.CreateSchema(structType) explicitly.
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn func(ctx context.Context, args map[string]any) (string, error),
	optFns ...FunctionToolOption,
) *FunctionTool {
	return NewFunctionTool(name, description, util.CreateSchema(structType), fn, optFns...)
}

// Name returns the unique tool name used in function call declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the (minimal) JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Enabled implements Switchable.
func (t *FunctionTool) Enabled() bool { return !t.disabled }

// Available implements Conditional; it returns nil when no precondition is set.
func (t *FunctionTool) Available() error {
	if t.precondition == nil {
		return nil
	}
	return t.precondition()
}

// RequiresApproval implements ApprovalHinter.
func (t *FunctionTool) RequiresApproval() bool { return t.requiresApproval }

// Rationale implements Rationaler.
func (t *FunctionTool) Rationale() string { return t.rationale }

// Call validates the provided args against the declared schema then invokes
// the underlying function.
//
// Error semantics:
//
//	missing required field -> *MissingParameterError
//	schema type mismatch   -> *InvalidArgumentsError
//	typed taxonomy error   -> forwarded unchanged
//	other error            -> *ExecutionError
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (string, error) {
	if err := util.ValidateParameters(args, t.parameters); err != nil {
		var vErr *util.ValidationError
		if errors.As(err, &vErr) && vErr.Missing {
			return "", &MissingParameterError{Tool: t.name, Name: vErr.Field}
		}
		return "", &InvalidArgumentsError{Tool: t.name, Details: err.Error()}
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		var (
			invalidErr *InvalidArgumentsError
			missingErr *MissingParameterError
			execErr    *ExecutionError
		)
		if errors.As(err, &invalidErr) || errors.As(err, &missingErr) || errors.As(err, &execErr) {
			return "", err
		}
		return "", &ExecutionError{Tool: t.name, Err: err}
	}

	return result, nil
}
