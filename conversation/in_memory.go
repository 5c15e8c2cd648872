package conversation

import (
	"sync"

	"github.com/hupe1980/agentgate/core"
)

// InMemoryStore is a volatile ConversationStore keeping messages in a
// process local slice. It is safe for concurrent access and best suited for
// tests or ephemeral demo sessions. History returns a defensive copy so
// readers can treat it as a snapshot while the active run keeps appending.
type InMemoryStore struct {
	mu       sync.RWMutex
	messages []core.Message
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Append adds a finalized message to the end of the history.
func (s *InMemoryStore) Append(msg core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// History returns a copy of the ordered message history.
func (s *InMemoryStore) History() ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

// Len returns the current number of messages.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

var _ core.ConversationStore = (*InMemoryStore)(nil)
