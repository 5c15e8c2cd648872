// Package agentgate provides a high-level façade over the agent
// orchestrator and its collaborators (model gateway, tool registry,
// approval gating, conversation store & logging) enabling rapid
// construction of tool-using assistants with human-in-the-loop control.
// Most applications interact with this package by:
//  1. Creating an AgentGate via New() (optionally overriding defaults)
//  2. Registering one or more tools
//  3. Starting runs asynchronously (Start) or synchronously (RunSync)
//     and answering approval requests via Approve/Reject
//
// The façade delegates orchestration to agent.Orchestrator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a
// durable conversation store and a structured logger.
package agentgate

import (
	"context"

	"github.com/hupe1980/agentgate/agent"
	"github.com/hupe1980/agentgate/approval"
	"github.com/hupe1980/agentgate/conversation"
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/model"
	"github.com/hupe1980/agentgate/tool"
)

// Options configures the AgentGate instance.
type Options struct {
	// ApprovalMode selects the tool gating policy. Defaults to alwaysAsk,
	// the safest policy; autoApprove suits trusted or scripted tools.
	ApprovalMode approval.Mode

	// Instructions is the system prompt sent on every model turn.
	Instructions string

	// MaxToolCalls caps tool executions per run; 0 means unlimited.
	MaxToolCalls int

	// MaxConsecutiveFailures fails the run after this many tool failures in
	// a row; 0 disables the ceiling.
	MaxConsecutiveFailures int

	// Store persists the conversation (defaults to an in-memory store).
	Store core.ConversationStore

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// AgentGate is the high-level façade aggregating the orchestrator and its
// collaborators.
type AgentGate struct {
	opts         Options
	registry     *tool.Registry
	orchestrator *agent.Orchestrator
}

// New creates a new AgentGate instance over a model gateway with optional
// overrides. Any unset collaborator is initialized with a safe default.
func New(gateway model.Gateway, optFns ...func(o *Options)) *AgentGate {
	opts := Options{
		ApprovalMode: approval.ModeAlwaysAsk,
		Store:        conversation.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	registry := tool.NewRegistry()

	orch := agent.NewOrchestrator(gateway, registry, func(o *agent.Options) {
		o.Store = opts.Store
		o.Logger = opts.Logger
		o.ApprovalMode = opts.ApprovalMode
		o.Instructions = opts.Instructions
		o.MaxToolCalls = opts.MaxToolCalls
		o.MaxConsecutiveFailures = opts.MaxConsecutiveFailures
	})

	return &AgentGate{opts: opts, registry: registry, orchestrator: orch}
}

// RegisterTool adds a tool to the underlying registry. Duplicate names are
// ignored; the return value reports whether the tool was added.
func (g *AgentGate) RegisterTool(t tool.Tool) bool { return g.registry.Register(t) }

// Start begins an asynchronous run returning the notification channel.
func (g *AgentGate) Start(ctx context.Context, text string) (<-chan agent.Notification, error) {
	return g.orchestrator.Start(ctx, text)
}

// Approve lets the pending tool call proposal proceed to execution.
func (g *AgentGate) Approve(proposalID string) error { return g.orchestrator.Approve(proposalID) }

// Reject declines the pending tool call proposal.
func (g *AgentGate) Reject(proposalID string) error { return g.orchestrator.Reject(proposalID) }

// Cancel aborts the active run, preserving any streamed text.
func (g *AgentGate) Cancel() { g.orchestrator.Cancel() }

// State returns a snapshot of the current run state.
func (g *AgentGate) State() core.AgentState { return g.orchestrator.State() }

// History returns the ordered conversation history.
func (g *AgentGate) History() ([]core.Message, error) { return g.orchestrator.History() }

// RunSync is a synchronous helper that drains the notification stream,
// accumulates the assistant text and returns the terminal state. Runs that
// suspend for approval block until the caller decides from another
// goroutine or ctx is cancelled.
func (g *AgentGate) RunSync(ctx context.Context, text string) (core.AgentState, string, error) {
	notifications, err := g.orchestrator.Start(ctx, text)
	if err != nil {
		return core.Idle(), "", err
	}

	var out []byte
	for n := range notifications {
		out = append(out, n.Delta...)
	}
	return g.orchestrator.State(), string(out), nil
}
