package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
)

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	Logger logging.Logger
}

// Executor resolves a tool call proposal against the registry, parses the
// raw argument payload and invokes the tool. Failures are normalized into
// the package error taxonomy; the executor never invents semantics for a
// tool's domain-specific failures.
type Executor struct {
	registry *Registry
	logger   *logging.RunLogger
}

// NewExecutor constructs an Executor over the given registry.
func NewExecutor(registry *Registry, optFns ...func(o *ExecutorOptions)) *Executor {
	opts := ExecutorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Executor{registry: registry, logger: logging.NewRunLogger(opts.Logger)}
}

// Execute runs one tool call proposal to completion and returns the tool's
// result string.
//
// Error semantics:
//
//	unregistered tool            -> ErrToolNotFound (wrapped)
//	disabled / unavailable tool  -> ErrToolDisabled (wrapped)
//	unparseable argument payload -> *InvalidArgumentsError
//	absent required parameter    -> *MissingParameterError (from the tool)
//	tool internal failure        -> *ExecutionError
func (e *Executor) Execute(ctx context.Context, proposal core.ToolCallProposal) (string, error) {
	impl, ok := e.registry.Lookup(proposal.Tool)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrToolNotFound, proposal.Tool)
	}
	if !usable(impl) {
		return "", fmt.Errorf("%w: %q", ErrToolDisabled, proposal.Tool)
	}

	args := map[string]any{}
	if proposal.Arguments != "" {
		if err := json.Unmarshal([]byte(proposal.Arguments), &args); err != nil {
			return "", &InvalidArgumentsError{Tool: proposal.Tool, Details: err.Error()}
		}
	}

	e.logger.Debug("tool.call.start", "tool", proposal.Tool, "call_id", proposal.CallID)

	start := time.Now()
	result, err := callSafely(ctx, impl, args)
	e.logger.LogToolCall(proposal.Tool, time.Since(start), err)

	return result, err
}

// callSafely invokes the tool with panic recovery so a misbehaving tool
// cannot take down the run.
func callSafely(ctx context.Context, impl Tool, args map[string]any) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExecutionError{
				Tool: impl.Name(),
				Err:  fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
			}
		}
	}()
	return impl.Call(ctx, args)
}
