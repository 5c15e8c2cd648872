package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentgate/approval"
	"github.com/hupe1980/agentgate/conversation"
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/model"
	"github.com/hupe1980/agentgate/tool"
)

const (
	defaultNotifyBuffer        = 64
	defaultMaxConsecutiveFails = 3
)

// Options configures an Orchestrator.
type Options struct {
	// Store persists the conversation history. Defaults to an in-memory store.
	Store core.ConversationStore
	// Logger receives structured run events. Defaults to NoOpLogger.
	Logger logging.Logger
	// ApprovalMode selects the gating policy. Defaults to ModeAlwaysAsk;
	// invalid values fall back to it as well.
	ApprovalMode approval.Mode
	// Instructions is the system prompt sent on every model turn.
	Instructions string
	// MaxToolCalls caps tool executions per run; 0 means unlimited.
	MaxToolCalls int
	// MaxConsecutiveFailures fails the run after this many tool failures in a
	// row without an intervening success; 0 disables the ceiling.
	MaxConsecutiveFailures int
	// NotifyBuffer sizes the notification channel.
	NotifyBuffer int
}

// Orchestrator drives one run at a time through the agent state machine.
// All public methods are safe for concurrent use; the run goroutine is the
// sole writer of conversation history and the sole sender on the
// notification channel.
type Orchestrator struct {
	id           string
	gateway      model.Gateway
	registry     *tool.Registry
	executor     *tool.Executor
	gate         *approval.Gate
	store        core.ConversationStore
	logger       *logging.RunLogger
	mode         approval.Mode
	instructions string

	maxToolCalls           int
	maxConsecutiveFailures int
	notifyBuffer           int

	mu    sync.Mutex
	state core.AgentState
	run   *run
}

// decision is one Approve/Reject verdict handed to the run goroutine.
type decision struct {
	proposalID string
	approved   bool
}

// run holds the per-run mutable state. A new run gets fresh counters, a
// fresh approved-tool set and fresh channels; nothing leaks across runs.
type run struct {
	id        string
	ctx       context.Context
	cancel    context.CancelFunc
	notify    chan Notification
	decisions chan decision
	limiter   *core.CallLimiter
	logger    *logging.RunLogger

	approvedTools       map[string]struct{}
	consecutiveFailures int
}

// NewOrchestrator constructs an Orchestrator over a gateway and a tool
// registry.
func NewOrchestrator(gateway model.Gateway, registry *tool.Registry, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Store:                  conversation.NewInMemoryStore(),
		Logger:                 logging.NoOpLogger{},
		ApprovalMode:           approval.ModeAlwaysAsk,
		MaxConsecutiveFailures: defaultMaxConsecutiveFails,
		NotifyBuffer:           defaultNotifyBuffer,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if !opts.ApprovalMode.Valid() {
		opts.ApprovalMode = approval.ModeAlwaysAsk
	}
	if opts.NotifyBuffer <= 0 {
		opts.NotifyBuffer = defaultNotifyBuffer
	}

	return &Orchestrator{
		id:                     core.NewID(),
		gateway:                gateway,
		registry:               registry,
		executor:               tool.NewExecutor(registry, func(o *tool.ExecutorOptions) { o.Logger = opts.Logger }),
		gate:                   approval.NewGate(),
		store:                  opts.Store,
		logger:                 logging.NewRunLogger(opts.Logger),
		mode:                   opts.ApprovalMode,
		instructions:           opts.Instructions,
		maxToolCalls:           opts.MaxToolCalls,
		maxConsecutiveFailures: opts.MaxConsecutiveFailures,
		notifyBuffer:           opts.NotifyBuffer,
		state:                  core.Idle(),
	}
}

// Start begins a new run with the given user input. It returns the run's
// notification channel; the channel is closed when the run reaches a
// terminal state. Only one run is active at a time; Start returns
// ErrAlreadyRunning while a run is in a non-terminal state.
func (o *Orchestrator) Start(ctx context.Context, text string) (<-chan Notification, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.run != nil && !o.state.Terminal() {
		return nil, ErrAlreadyRunning
	}

	if err := o.store.Append(core.NewUserMessage(text)); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		id:            core.NewID(),
		ctx:           runCtx,
		cancel:        cancel,
		notify:        make(chan Notification, o.notifyBuffer),
		decisions:     make(chan decision, 1),
		limiter:       core.NewCallLimiter(o.maxToolCalls),
		approvedTools: make(map[string]struct{}),
	}
	r.logger = o.logger.WithRun(o.id, r.id)

	o.run = r
	o.state = core.AgentState{Phase: core.PhaseAwaitingModel}
	r.notify <- Notification{State: o.state}

	r.logger.Info("run.started", "approval_mode", string(o.mode))
	go o.loop(r)

	return r.notify, nil
}

// Approve lets the pending proposal with the given id proceed to execution.
func (o *Orchestrator) Approve(proposalID string) error {
	return o.decide(proposalID, true)
}

// Reject declines the pending proposal with the given id. The run records a
// rejection tool result and returns control to the model.
func (o *Orchestrator) Reject(proposalID string) error {
	return o.decide(proposalID, false)
}

func (o *Orchestrator) decide(proposalID string, approved bool) error {
	o.mu.Lock()
	r := o.run
	st := o.state
	o.mu.Unlock()

	if r == nil || st.Phase != core.PhaseAwaitingApproval || st.Proposal == nil || st.Proposal.ID != proposalID {
		return ErrStaleProposal
	}

	select {
	case r.decisions <- decision{proposalID: proposalID, approved: approved}:
		return nil
	default:
		return ErrStaleProposal
	}
}

// Cancel aborts the active run. Streamed text received so far is preserved
// in the history; the run finishes in PhaseFailed with ReasonCancelled. A
// Cancel with no active run is a no-op.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	r := o.run
	active := r != nil && !o.state.Terminal() && o.state.Phase != core.PhaseIdle
	o.mu.Unlock()

	if !active {
		return
	}
	r.cancel()
}

// State returns a snapshot of the current run state. Terminal states remain
// observable until the next Start.
func (o *Orchestrator) State() core.AgentState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Store exposes the conversation store backing this orchestrator.
func (o *Orchestrator) Store() core.ConversationStore { return o.store }

// History returns the conversation history snapshot.
func (o *Orchestrator) History() ([]core.Message, error) { return o.store.History() }

// loop is the run goroutine. It alternates model turns and tool handling
// until a terminal state is reached, then closes the notification channel.
func (o *Orchestrator) loop(r *run) {
	defer close(r.notify)
	defer r.cancel()

	for {
		proposals, ok := o.modelTurn(r)
		if !ok {
			return
		}

		if len(proposals) == 0 {
			o.transition(r, core.AgentState{Phase: core.PhaseCompleted}, "")
			r.logger.Info("run.completed", "tool_calls", r.limiter.Count())
			return
		}

		if !o.handleProposals(r, proposals) {
			return
		}
	}
}

// modelTurn drives one gateway turn: it streams text deltas to the
// notification channel, assembles tool call fragments and finalizes the
// assistant message into the history exactly once. On failure or
// cancellation it moves the run to PhaseFailed and returns ok == false.
func (o *Orchestrator) modelTurn(r *run) (proposals []core.ToolCallProposal, ok bool) {
	history, err := o.store.History()
	if err != nil {
		o.fail(r, fmt.Sprintf("load history: %v", err))
		return nil, false
	}

	req := model.Request{
		Instructions: o.instructions,
		Messages:     history,
		Tools:        o.registry.Definitions(),
	}

	start := time.Now()
	events, errCh := o.gateway.Generate(r.ctx, req)

	var text strings.Builder
	asm := newToolCallAssembler()
	ended := false

	for ev := range events {
		switch e := ev.(type) {
		case model.TextDelta:
			text.WriteString(e.Text)
			o.notifyDelta(r, e.Text)
		case model.ToolCallDelta:
			asm.Apply(e)
		case model.EndOfTurn:
			ended = true
		}
	}

	var genErr error
	if errCh != nil {
		genErr = <-errCh
	}
	r.logger.LogModelTurn(o.gateway.Info().Name, time.Since(start), genErr)

	// Partial text survives every failure path so the user keeps what was
	// streamed before the turn broke off.
	if r.ctx.Err() != nil {
		o.finalizeAssistant(r, text.String(), nil)
		o.fail(r, core.ReasonCancelled)
		return nil, false
	}
	if genErr != nil {
		o.finalizeAssistant(r, text.String(), nil)
		o.fail(r, genErr.Error())
		return nil, false
	}
	if !ended {
		o.finalizeAssistant(r, text.String(), nil)
		o.fail(r, "model stream ended without end-of-turn")
		return nil, false
	}

	proposals = asm.Complete()

	refs := make([]core.ToolCallRef, 0, len(proposals))
	for i := range proposals {
		p := &proposals[i]
		p.RequiresApproval = o.registry.RequiresApproval(p.Tool)
		p.Rationale = o.registry.Rationale(p.Tool)
		refs = append(refs, core.ToolCallRef{ID: p.CallID, Name: p.Tool, Arguments: p.Arguments})
	}

	if err := o.finalizeAssistant(r, text.String(), refs); err != nil {
		o.fail(r, err.Error())
		return nil, false
	}
	return proposals, true
}

// finalizeAssistant appends the streamed assistant message to the history.
// Turns that produced neither text nor tool calls leave no message behind.
func (o *Orchestrator) finalizeAssistant(r *run, text string, refs []core.ToolCallRef) error {
	if text == "" && len(refs) == 0 {
		return nil
	}
	if err := o.store.Append(core.NewAssistantMessage(text, refs)); err != nil {
		r.logger.Error("history.append.failed", "error", err.Error())
		return fmt.Errorf("append assistant message: %w", err)
	}
	return nil
}

// handleProposals gates and executes the turn's proposals sequentially in
// assembly order. It returns false when the run reached a terminal state.
func (o *Orchestrator) handleProposals(r *run, proposals []core.ToolCallProposal) bool {
	for i := range proposals {
		p := proposals[i]

		o.transition(r, core.AgentState{Phase: core.PhaseToolProposed, Proposal: &p}, "")

		if o.gate.Decide(p, o.mode, r.approvedTools) == approval.NeedsApproval {
			o.transition(r, core.AgentState{Phase: core.PhaseAwaitingApproval, Proposal: &p}, "")
			r.logger.Info("approval.requested", "tool", p.Tool, "proposal_id", p.ID)

			approved, err := r.awaitDecision(p.ID)
			if err != nil {
				o.fail(r, core.ReasonCancelled)
				return false
			}

			if !approved {
				r.logger.Info("approval.rejected", "tool", p.Tool)
				if err := o.store.Append(core.NewToolResultMessage(p.CallID, "tool call rejected by user", nil)); err != nil {
					o.fail(r, fmt.Sprintf("append rejection result: %v", err))
					return false
				}
				o.transition(r, core.AgentState{Phase: core.PhaseAwaitingModel}, "")
				continue
			}

			r.logger.Info("approval.granted", "tool", p.Tool)
			if o.mode == approval.ModePerThread {
				r.approvedTools[p.Tool] = struct{}{}
			}
		}

		// The cap counts attempted executions, so the call that would exceed
		// it never runs.
		if err := r.limiter.Increment(); err != nil {
			o.fail(r, core.ReasonMaxToolCalls)
			return false
		}

		o.transition(r, core.AgentState{Phase: core.PhaseExecutingTool, Proposal: &p}, "")

		result, execErr := o.executor.Execute(r.ctx, p)
		if r.ctx.Err() != nil {
			o.fail(r, core.ReasonCancelled)
			return false
		}

		if execErr != nil {
			r.consecutiveFailures++
			if err := o.store.Append(core.NewToolResultMessage(p.CallID, "", execErr)); err != nil {
				o.fail(r, fmt.Sprintf("append tool result: %v", err))
				return false
			}
			if o.maxConsecutiveFailures > 0 && r.consecutiveFailures >= o.maxConsecutiveFailures {
				o.fail(r, core.ReasonToolFailureLimit)
				return false
			}
		} else {
			r.consecutiveFailures = 0
			if err := o.store.Append(core.NewToolResultMessage(p.CallID, result, nil)); err != nil {
				o.fail(r, fmt.Sprintf("append tool result: %v", err))
				return false
			}
		}

		o.transition(r, core.AgentState{Phase: core.PhaseAwaitingModel}, "")
	}
	return true
}

// awaitDecision blocks until an Approve/Reject verdict for the given
// proposal arrives or the run is cancelled. Verdicts for earlier proposals
// that raced with a state change are discarded.
func (r *run) awaitDecision(proposalID string) (bool, error) {
	for {
		select {
		case <-r.ctx.Done():
			return false, r.ctx.Err()
		case d := <-r.decisions:
			if d.proposalID != proposalID {
				continue
			}
			return d.approved, nil
		}
	}
}

// transition publishes a state change followed by its notification.
func (o *Orchestrator) transition(r *run, next core.AgentState, delta string) {
	o.mu.Lock()
	o.state = next
	o.mu.Unlock()

	r.emit(Notification{State: next, Delta: delta})
}

// notifyDelta emits a text delta under the current state without a
// transition.
func (o *Orchestrator) notifyDelta(r *run, delta string) {
	o.mu.Lock()
	st := o.state
	o.mu.Unlock()

	r.emit(Notification{State: st, Delta: delta})
}

func (o *Orchestrator) fail(r *run, reason string) {
	r.logger.Error("run.failed", "reason", reason)
	o.transition(r, core.Failed(reason), "")
}

// emit delivers a notification with backpressure; once the run context is
// done delivery degrades to best effort so cancellation can never deadlock
// on an absent consumer.
func (r *run) emit(n Notification) {
	select {
	case r.notify <- n:
	case <-r.ctx.Done():
		select {
		case r.notify <- n:
		default:
		}
	}
}
