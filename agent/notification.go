package agent

import "github.com/hupe1980/agentgate/core"

// Notification is one element of the observable run stream: the state after
// a transition plus the latest text delta (empty on pure transitions).
// One notification is emitted for every state transition and for every text
// chunk appended to the streaming assistant message, so a UI or test
// harness can assert on the full transition sequence.
type Notification struct {
	State core.AgentState
	Delta string
}
