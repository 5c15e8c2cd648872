// Package agent implements the orchestration core: a state machine that
// drives one run at a time against a model gateway, assembles streamed
// tool-call proposals, gates them through the approval policy, executes
// approved tools and feeds results back into the conversation until the
// run reaches a terminal state.
//
// The orchestrator is the only component with cross-cutting state. The
// gateway, registry, executor, gate and conversation store are injected
// collaborators; all of them are either stateless or hold only local
// bookkeeping.
package agent
