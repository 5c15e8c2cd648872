package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgate/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "conv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_AppendAndHistory(t *testing.T) {
	s := newTestStore(t)

	h, err := s.History()
	require.NoError(t, err)
	assert.Empty(t, h)

	user := core.NewUserMessage("hello")
	assistant := core.NewAssistantMessage("calling tool", []core.ToolCallRef{
		{ID: "call-1", Name: "echo", Arguments: `{"text":"hi"}`},
	})
	result := core.NewToolResultMessage("call-1", "hi", nil)

	require.NoError(t, s.Append(user))
	require.NoError(t, s.Append(assistant))
	require.NoError(t, s.Append(result))

	h, err = s.History()
	require.NoError(t, err)
	require.Len(t, h, 3)

	assert.Equal(t, core.RoleUser, h[0].Role)
	assert.Equal(t, "hello", h[0].Text)

	assert.Equal(t, core.RoleAssistant, h[1].Role)
	require.Len(t, h[1].ToolCalls, 1)
	assert.Equal(t, "call-1", h[1].ToolCalls[0].ID)
	assert.Equal(t, `{"text":"hi"}`, h[1].ToolCalls[0].Arguments)

	assert.Equal(t, core.RoleTool, h[2].Role)
	assert.Equal(t, "call-1", h[2].ToolCallID)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(core.NewUserMessage("persisted")))
	require.NoError(t, s.Close())

	s2, err := New(path)
	require.NoError(t, err)
	defer s2.Close()

	h, err := s2.History()
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, "persisted", h[0].Text)
}

func TestStore_ErrorResultText(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Append(core.NewToolResultMessage("call-1", "", errors.New("timeout"))))

	h, err := s.History()
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, "tool error: timeout", h[0].Text)
}
