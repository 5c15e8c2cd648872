package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks input authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks model-generated output.
	RoleAssistant Role = "assistant"
	// RoleTool marks a tool result fed back to the model.
	RoleTool Role = "tool"
)

// ToolCallRef records one tool call an assistant message produced. The
// Arguments payload is the raw JSON string exactly as assembled from the
// model stream; it is parsed only by the tool executor.
type ToolCallRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one entry of the conversation history.
//
// History is append-only: once a message has been appended to a
// ConversationStore it is never mutated. The single currently-streaming
// assistant message is owned by the active run and buffered outside the
// store until it is finalized, so store implementations never observe
// Streaming == true on durable writes from the orchestrator.
type Message struct {
	ID        string        `json:"id"`
	Role      Role          `json:"role"`
	Text      string        `json:"text"`
	Streaming bool          `json:"streaming,omitempty"`
	ToolCalls []ToolCallRef `json:"tool_calls,omitempty"`
	// ToolCallID links a RoleTool message back to the assistant tool call
	// it responds to.
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewMessage creates a message authored by role with the given text.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message { return NewMessage(RoleUser, text) }

// NewAssistantMessage creates a finalized assistant message carrying the
// streamed text plus any tool calls it produced.
func NewAssistantMessage(text string, calls []ToolCallRef) Message {
	m := NewMessage(RoleAssistant, text)
	m.ToolCalls = calls
	return m
}

// NewToolResultMessage records the outcome of a tool call. If err is non-nil
// its message is used as the result text so the model can see the failure on
// its next turn.
func NewToolResultMessage(callID, result string, err error) Message {
	m := NewMessage(RoleTool, result)
	if err != nil {
		m.Text = "tool error: " + err.Error()
	}
	m.ToolCallID = callID
	return m
}

// NewID generates a new unique identifier for messages, proposals and runs.
func NewID() string { return uuid.NewString() }

// ConversationStore persists the ordered conversation history.
//
// Implementations must be safe for concurrent use: the active run is the
// only writer, but readers (a UI layer, tests) may call History at any time
// and receive a consistent snapshot.
type ConversationStore interface {
	// Append adds a finalized message to the end of the history.
	Append(msg Message) error

	// History returns the ordered messages as a defensive copy.
	History() ([]Message, error)
}
