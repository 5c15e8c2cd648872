package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// -------------------- Message Tests --------------------

func TestNewMessageConstructors(t *testing.T) {
	u := NewUserMessage("hi")
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, "hi", u.Text)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.Timestamp.IsZero())

	calls := []ToolCallRef{{ID: "call-1", Name: "echo", Arguments: "{}"}}
	a := NewAssistantMessage("done", calls)
	assert.Equal(t, RoleAssistant, a.Role)
	assert.Equal(t, calls, a.ToolCalls)

	r := NewToolResultMessage("call-1", "42", nil)
	assert.Equal(t, RoleTool, r.Role)
	assert.Equal(t, "call-1", r.ToolCallID)
	assert.Equal(t, "42", r.Text)
}

func TestNewToolResultMessage_Error(t *testing.T) {
	r := NewToolResultMessage("call-1", "ignored", errors.New("timeout"))
	assert.Equal(t, "tool error: timeout", r.Text)
	assert.Equal(t, "call-1", r.ToolCallID)
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}

// -------------------- State Tests --------------------

func TestPhase_Terminal(t *testing.T) {
	assert.True(t, PhaseCompleted.Terminal())
	assert.True(t, PhaseFailed.Terminal())
	assert.False(t, PhaseIdle.Terminal())
	assert.False(t, PhaseAwaitingModel.Terminal())
	assert.False(t, PhaseToolProposed.Terminal())
	assert.False(t, PhaseAwaitingApproval.Terminal())
	assert.False(t, PhaseExecutingTool.Terminal())
}

func TestFailedState(t *testing.T) {
	s := Failed(ReasonCancelled)
	assert.True(t, s.Terminal())
	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Equal(t, "cancelled", s.Reason)
	assert.Nil(t, s.Proposal)
}

// -------------------- CallLimiter Tests --------------------

func TestCallLimiter_Enforces(t *testing.T) {
	cl := NewCallLimiter(2)
	assert.NoError(t, cl.Increment())
	assert.NoError(t, cl.Increment())
	assert.Error(t, cl.Increment())
	assert.Equal(t, 3, cl.Count())
}

func TestCallLimiter_ZeroMeansUnlimited(t *testing.T) {
	cl := NewCallLimiter(0)
	for i := 0; i < 100; i++ {
		assert.NoError(t, cl.Increment())
	}
	assert.Equal(t, -1, cl.Remaining())
}

// -------------------- Proposal Tests --------------------

func TestNewToolCallProposal(t *testing.T) {
	p := NewToolCallProposal("call-1", "echo", `{"x":1}`)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "call-1", p.CallID)
	assert.Equal(t, "echo", p.Tool)
	assert.Equal(t, `{"x":1}`, p.Arguments)
	assert.False(t, p.RequiresApproval)

	p2 := NewToolCallProposal("call-1", "echo", `{"x":1}`)
	assert.NotEqual(t, p.ID, p2.ID, "proposal ids are run-local and unique")
}
