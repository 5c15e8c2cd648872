package agent

import "errors"

var (
	// ErrAlreadyRunning is returned by Start while a run is active. Runs are
	// never queued; callers retry after the current run reaches a terminal
	// state.
	ErrAlreadyRunning = errors.New("a run is already active")

	// ErrStaleProposal is returned by Approve/Reject when the run is not
	// suspended at an approval point or the proposal id does not match the
	// pending proposal. The run state is unchanged.
	ErrStaleProposal = errors.New("stale or unknown proposal")
)
