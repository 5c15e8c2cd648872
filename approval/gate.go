package approval

import "github.com/hupe1980/agentgate/core"

// Mode selects the approval policy for a run.
type Mode string

const (
	// ModeAlwaysAsk requires explicit confirmation for every proposal.
	ModeAlwaysAsk Mode = "alwaysAsk"
	// ModePerThread requires confirmation the first time a tool is used in
	// a run; later proposals for the same tool pass through.
	ModePerThread Mode = "perThread"
	// ModeAutoApprove executes every proposal without confirmation, even
	// when the proposal itself requests approval.
	ModeAutoApprove Mode = "autoApprove"
)

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeAlwaysAsk, ModePerThread, ModeAutoApprove:
		return true
	default:
		return false
	}
}

// Decision is the outcome of gating one proposal.
type Decision string

const (
	// Approved lets the proposal proceed to execution.
	Approved Decision = "approved"
	// NeedsApproval suspends the run until the user decides.
	NeedsApproval Decision = "needs_approval"
)

// Gate applies the configured policy to tool call proposals. It is
// stateless and safe for concurrent use.
type Gate struct{}

// NewGate constructs a Gate.
func NewGate() *Gate { return &Gate{} }

// Decide gates one proposal.
//
// Rules, in order:
//   - ModeAutoApprove always approves; policy overrides the proposal's
//     RequiresApproval hint.
//   - A proposal with RequiresApproval set needs confirmation in every
//     other mode.
//   - ModeAlwaysAsk always needs confirmation.
//   - ModePerThread approves when the tool identifier is already in the
//     per-run approved set, else needs confirmation. The orchestrator adds
//     the identifier to the set on the first user approval.
func (g *Gate) Decide(proposal core.ToolCallProposal, mode Mode, approved map[string]struct{}) Decision {
	if mode == ModeAutoApprove {
		return Approved
	}
	if proposal.RequiresApproval {
		return NeedsApproval
	}

	switch mode {
	case ModePerThread:
		if _, ok := approved[proposal.Tool]; ok {
			return Approved
		}
		return NeedsApproval
	default: // ModeAlwaysAsk and anything unrecognized fail safe
		return NeedsApproval
	}
}
