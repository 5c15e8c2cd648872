package core

// ToolCallProposal is a fully assembled tool call request produced by the
// model gateway stream. It is immutable and consumed exactly once: a
// proposal either transitions to execution or is explicitly rejected, never
// both and never twice.
type ToolCallProposal struct {
	// ID is the run-local identifier callers pass to Approve/Reject.
	ID string
	// CallID is the provider-assigned tool call id, echoed back on the
	// corresponding tool result message.
	CallID string
	// Tool is the registry name of the requested tool.
	Tool string
	// Arguments is the raw JSON payload, opaque until the executor parses it.
	Arguments string
	// RequiresApproval requests explicit confirmation regardless of policy.
	// autoApprove mode still overrides it.
	RequiresApproval bool
	// Rationale is an optional human-readable explanation surfaced to
	// whoever decides on approval.
	Rationale string
	// NextStepHint optionally tells the caller what the run will do after
	// the tool returns.
	NextStepHint string
}

// NewToolCallProposal builds a proposal with a fresh run-local ID.
func NewToolCallProposal(callID, tool, arguments string) ToolCallProposal {
	return ToolCallProposal{
		ID:        NewID(),
		CallID:    callID,
		Tool:      tool,
		Arguments: arguments,
	}
}
