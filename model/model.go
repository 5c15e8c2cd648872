package model

import (
	"context"

	"github.com/hupe1980/agentgate/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by the orchestrator.
type Request struct {
	Instructions string           `json:"instructions"` // System prompt for the model
	Messages     []core.Message   `json:"messages"`     // Ordered conversation history
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// StreamEvent is one element of the ordered event sequence a gateway
// produces for a turn. The concrete types are TextDelta, ToolCallDelta and
// EndOfTurn. A successful turn emits zero or more deltas followed by exactly
// one EndOfTurn; a transport failure surfaces on the error channel instead
// and terminates the sequence without an EndOfTurn.
type StreamEvent interface{ streamEvent() }

// TextDelta carries the next fragment of the assistant's visible text.
// Concatenating deltas in arrival order reconstructs the full text.
type TextDelta struct {
	Text string
}

func (TextDelta) streamEvent() {}

// ToolCallDelta carries one incremental fragment of a tool call request.
// Fragments for the same positional Index are accumulated by the consumer:
// ID, Type and Name overwrite when non-empty, ArgumentsFragment concatenates.
// A call is complete only when EndOfTurn arrives.
type ToolCallDelta struct {
	Index             int
	ID                string
	Type              string // "function"
	Name              string
	ArgumentsFragment string
}

func (ToolCallDelta) streamEvent() {}

// EndOfTurn is the single explicit completion signal of a turn.
type EndOfTurn struct {
	FinishReason string // "stop", "length", "tool_calls", etc.
}

func (EndOfTurn) streamEvent() {}

// Info contains metadata about a gateway implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "gollm", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Gateway is the minimal interface the orchestrator needs to drive
// generation. Generate must honor ctx cancellation: once ctx is done the
// underlying transport stops and no further events are delivered. Both
// returned channels are closed when the turn is over.
type Gateway interface {
	Generate(ctx context.Context, req Request) (<-chan StreamEvent, <-chan error)

	// Info returns information about the gateway implementation.
	Info() Info
}
