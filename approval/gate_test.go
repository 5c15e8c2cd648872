package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/agentgate/core"
)

func TestMode_Valid(t *testing.T) {
	assert.True(t, ModeAlwaysAsk.Valid())
	assert.True(t, ModePerThread.Valid())
	assert.True(t, ModeAutoApprove.Valid())
	assert.False(t, Mode("yolo").Valid())
	assert.False(t, Mode("").Valid())
}

func TestGate_AutoApproveOverridesHint(t *testing.T) {
	g := NewGate()
	p := core.NewToolCallProposal("call-1", "delete_everything", "{}")
	p.RequiresApproval = true

	assert.Equal(t, Approved, g.Decide(p, ModeAutoApprove, nil))
}

func TestGate_AlwaysAsk(t *testing.T) {
	g := NewGate()
	p := core.NewToolCallProposal("call-1", "echo", "{}")

	assert.Equal(t, NeedsApproval, g.Decide(p, ModeAlwaysAsk, nil))
	// Even a previously approved tool asks again
	assert.Equal(t, NeedsApproval, g.Decide(p, ModeAlwaysAsk, map[string]struct{}{"echo": {}}))
}

func TestGate_PerThread(t *testing.T) {
	g := NewGate()
	p := core.NewToolCallProposal("call-1", "echo", "{}")

	approved := map[string]struct{}{}
	assert.Equal(t, NeedsApproval, g.Decide(p, ModePerThread, approved))

	approved["echo"] = struct{}{}
	assert.Equal(t, Approved, g.Decide(p, ModePerThread, approved))

	// Approval set is keyed by tool identifier, not proposal
	other := core.NewToolCallProposal("call-2", "other", "{}")
	assert.Equal(t, NeedsApproval, g.Decide(other, ModePerThread, approved))
}

func TestGate_HintForcesApprovalOutsideAuto(t *testing.T) {
	g := NewGate()
	p := core.NewToolCallProposal("call-1", "echo", "{}")
	p.RequiresApproval = true

	// The hint wins over a per-thread grant
	assert.Equal(t, NeedsApproval, g.Decide(p, ModePerThread, map[string]struct{}{"echo": {}}))
}

func TestGate_UnknownModeFailsSafe(t *testing.T) {
	g := NewGate()
	p := core.NewToolCallProposal("call-1", "echo", "{}")

	assert.Equal(t, NeedsApproval, g.Decide(p, Mode("bogus"), nil))
}
