package agentgate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgate/agent"
	"github.com/hupe1980/agentgate/approval"
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/model"
	"github.com/hupe1980/agentgate/tool"
)

func TestAgentGate_RunSync(t *testing.T) {
	gw := model.NewScriptedGateway(
		model.ScriptedTurn{
			Text: "Let me check. ",
			ToolCalls: []model.ScriptedToolCall{
				{CallID: "call-1", Name: "echo", Arguments: `{"text":"pong"}`},
			},
		},
		model.ScriptedTurn{Text: "It said pong."},
	)

	gate := New(gw, func(o *Options) {
		o.ApprovalMode = approval.ModeAutoApprove
		o.Instructions = "Echo things."
	})

	added := gate.RegisterTool(tool.NewFunctionTool("echo", "Echoes input.",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{"text": map[string]any{"type": "string"}},
			"required":   []string{"text"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			return args["text"].(string), nil
		}))
	require.True(t, added)

	state, text, err := gate.RunSync(context.Background(), "ping")
	require.NoError(t, err)

	assert.Equal(t, core.PhaseCompleted, state.Phase)
	assert.Equal(t, "Let me check. It said pong.", text)

	history, err := gate.History()
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestAgentGate_StateBeforeRun(t *testing.T) {
	gate := New(model.NewScriptedGateway())
	assert.Equal(t, core.PhaseIdle, gate.State().Phase)
	assert.ErrorIs(t, gate.Approve("x"), agent.ErrStaleProposal)
}
