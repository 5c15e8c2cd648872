package model

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedToolCall is one canned tool call request emitted by a scripted turn.
type ScriptedToolCall struct {
	CallID    string
	Name      string
	Arguments string
}

// ScriptedTurn describes the events one Generate call produces.
type ScriptedTurn struct {
	// Text is emitted as text deltas; ChunkSize runes per delta
	// (<= 0 emits the whole text as a single delta).
	Text      string
	ChunkSize int
	// ToolCalls are emitted as incremental tool-call deltas in slice order.
	ToolCalls []ScriptedToolCall
	// SplitArguments delivers each call's argument payload across two
	// fragments to exercise consumer-side assembly.
	SplitArguments bool
	// Err simulates a transport failure: it is sent on the error channel
	// after the text deltas and no EndOfTurn is emitted.
	Err error
	// FinishReason overrides the derived end-of-turn reason.
	FinishReason string
}

// ScriptedGateway is a deterministic in-memory Gateway for tests and
// examples. Each Generate call consumes the next scripted turn; generating
// past the script fails with a transport error.
type ScriptedGateway struct {
	mu    sync.Mutex
	turns []ScriptedTurn
	calls int
}

// NewScriptedGateway constructs a gateway that replays the given turns.
func NewScriptedGateway(turns ...ScriptedTurn) *ScriptedGateway {
	return &ScriptedGateway{turns: turns}
}

// Calls returns how many times Generate has been invoked.
func (g *ScriptedGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Generate implements Gateway by replaying the next scripted turn.
func (g *ScriptedGateway) Generate(ctx context.Context, _ Request) (<-chan StreamEvent, <-chan error) {
	out := make(chan StreamEvent, 32)
	errCh := make(chan error, 1)

	g.mu.Lock()
	idx := g.calls
	g.calls++
	var turn ScriptedTurn
	ok := idx < len(g.turns)
	if ok {
		turn = g.turns[idx]
	}
	g.mu.Unlock()

	go func() {
		defer close(out)
		defer close(errCh)

		if !ok {
			errCh <- fmt.Errorf("scripted gateway exhausted after %d turns", idx)
			return
		}

		send := func(ev StreamEvent) bool {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return false
			case out <- ev:
				return true
			}
		}

		chunk := turn.ChunkSize
		if chunk <= 0 {
			chunk = len([]rune(turn.Text))
		}
		runes := []rune(turn.Text)
		for start := 0; start < len(runes); start += chunk {
			end := start + chunk
			if end > len(runes) {
				end = len(runes)
			}
			if !send(TextDelta{Text: string(runes[start:end])}) {
				return
			}
		}

		if turn.Err != nil {
			errCh <- turn.Err
			return
		}

		for i, tc := range turn.ToolCalls {
			if !send(ToolCallDelta{Index: i, ID: tc.CallID, Type: "function", Name: tc.Name}) {
				return
			}
			if turn.SplitArguments && len(tc.Arguments) > 1 {
				half := len(tc.Arguments) / 2
				if !send(ToolCallDelta{Index: i, ArgumentsFragment: tc.Arguments[:half]}) {
					return
				}
				if !send(ToolCallDelta{Index: i, ArgumentsFragment: tc.Arguments[half:]}) {
					return
				}
			} else if tc.Arguments != "" {
				if !send(ToolCallDelta{Index: i, ArgumentsFragment: tc.Arguments}) {
					return
				}
			}
		}

		reason := turn.FinishReason
		if reason == "" {
			if len(turn.ToolCalls) > 0 {
				reason = "tool_calls"
			} else {
				reason = "stop"
			}
		}
		send(EndOfTurn{FinishReason: reason})
	}()

	return out, errCh
}

// Info implements Gateway.
func (g *ScriptedGateway) Info() Info {
	return Info{Name: "scripted", Provider: "test", SupportsTools: true}
}
