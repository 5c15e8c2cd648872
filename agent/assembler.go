package agent

import (
	"sort"
	"strings"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/model"
)

// partialCall accumulates streamed tool call fragments for one positional
// index: identifier, type and name overwrite when non-empty, argument
// fragments concatenate.
type partialCall struct {
	id   string
	typ  string
	name string
	args strings.Builder
}

// toolCallAssembler reconstructs complete tool call proposals from the
// per-index deltas a gateway emits during a turn. Proposals are only
// considered complete once the end-of-turn signal has arrived; Complete is
// called at that point and yields them in index order.
type toolCallAssembler struct {
	calls map[int]*partialCall
}

func newToolCallAssembler() *toolCallAssembler {
	return &toolCallAssembler{calls: make(map[int]*partialCall)}
}

// Apply folds one delta into the per-index accumulator.
func (a *toolCallAssembler) Apply(d model.ToolCallDelta) {
	pc, ok := a.calls[d.Index]
	if !ok {
		pc = &partialCall{}
		a.calls[d.Index] = pc
	}
	if d.ID != "" {
		pc.id = d.ID
	}
	if d.Type != "" {
		pc.typ = d.Type
	}
	if d.Name != "" {
		pc.name = d.Name
	}
	if d.ArgumentsFragment != "" {
		pc.args.WriteString(d.ArgumentsFragment)
	}
}

// Empty reports whether no deltas were applied.
func (a *toolCallAssembler) Empty() bool { return len(a.calls) == 0 }

// Complete assembles the accumulated fragments into immutable proposals,
// ordered by positional index. Indices that never received a function name
// cannot be dispatched and are dropped.
func (a *toolCallAssembler) Complete() []core.ToolCallProposal {
	indices := make([]int, 0, len(a.calls))
	for idx := range a.calls {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	proposals := make([]core.ToolCallProposal, 0, len(indices))
	for _, idx := range indices {
		pc := a.calls[idx]
		if pc.name == "" {
			continue
		}
		proposals = append(proposals, core.NewToolCallProposal(pc.id, pc.name, pc.args.String()))
	}
	return proposals
}
