// Package core defines the shared data model of agentgate: conversation
// messages, tool-call proposals, the agent run state union and the
// ConversationStore contract. It has no dependencies on the orchestration,
// model or tool packages so every other package can import it freely.
package core
