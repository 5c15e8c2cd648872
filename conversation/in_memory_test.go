package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgate/core"
)

func TestInMemoryStore_AppendAndHistory(t *testing.T) {
	s := NewInMemoryStore()

	h, err := s.History()
	require.NoError(t, err)
	assert.Empty(t, h)

	require.NoError(t, s.Append(core.NewUserMessage("one")))
	require.NoError(t, s.Append(core.NewAssistantMessage("two", nil)))

	h, err = s.History()
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, "one", h[0].Text)
	assert.Equal(t, "two", h[1].Text)
	assert.Equal(t, 2, s.Len())
}

func TestInMemoryStore_HistoryIsSnapshot(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.Append(core.NewUserMessage("original")))

	h, err := s.History()
	require.NoError(t, err)
	h[0].Text = "mutated"

	h2, err := s.History()
	require.NoError(t, err)
	assert.Equal(t, "original", h2[0].Text)
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewInMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Append(core.NewUserMessage(fmt.Sprintf("msg-%d", i))); err != nil {
				t.Errorf("append error: %v", err)
			}
			if _, err := s.History(); err != nil {
				t.Errorf("history error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 25, s.Len())
}
