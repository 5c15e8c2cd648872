package core

// Phase enumerates the orchestrator state machine positions.
type Phase string

const (
	// PhaseIdle means no run is active.
	PhaseIdle Phase = "idle"
	// PhaseAwaitingModel means the run is consuming the model stream.
	PhaseAwaitingModel Phase = "awaiting_model"
	// PhaseToolProposed means a tool call was assembled and is being gated.
	PhaseToolProposed Phase = "tool_proposed"
	// PhaseAwaitingApproval means the run is suspended until the caller
	// approves, rejects or cancels.
	PhaseAwaitingApproval Phase = "awaiting_approval"
	// PhaseExecutingTool means an approved tool call is executing.
	PhaseExecutingTool Phase = "executing_tool"
	// PhaseCompleted is the terminal success state.
	PhaseCompleted Phase = "completed"
	// PhaseFailed is the terminal failure state; AgentState.Reason explains it.
	PhaseFailed Phase = "failed"
)

// Terminal reports whether the phase ends a run.
func (p Phase) Terminal() bool { return p == PhaseCompleted || p == PhaseFailed }

// String returns the string representation of the phase.
func (p Phase) String() string { return string(p) }

// Failure reasons surfaced via AgentState.Reason. Tests and callers match on
// these verbatim.
const (
	ReasonCancelled        = "cancelled"
	ReasonMaxToolCalls     = "max tool calls exceeded"
	ReasonToolFailureLimit = "too many consecutive tool failures"
)

// AgentState is the tagged union describing the active run. Exactly one
// phase is active at a time; Proposal is non-nil only in the
// ToolProposed / AwaitingApproval / ExecutingTool phases and Reason is
// non-empty only in PhaseFailed.
type AgentState struct {
	Phase    Phase
	Proposal *ToolCallProposal
	Reason   string
}

// Idle returns the initial state.
func Idle() AgentState { return AgentState{Phase: PhaseIdle} }

// Terminal reports whether the state is Completed or Failed.
func (s AgentState) Terminal() bool { return s.Phase.Terminal() }

// Failed builds a terminal failure state with the given reason.
func Failed(reason string) AgentState {
	return AgentState{Phase: PhaseFailed, Reason: reason}
}
