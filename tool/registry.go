package tool

import (
	"sync"

	"github.com/hupe1980/agentgate/model"
)

// Registry holds the catalog of invocable tools. Registration is additive
// and idempotent by name: registering a second tool under an existing name
// is ignored. The registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry constructs an empty registry, optionally pre-registering tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool to the catalog. Duplicate names are ignored; the
// return value reports whether the tool was actually added.
func (r *Registry) Register(t Tool) bool {
	if t == nil || t.Name() == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return false
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return true
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// ListAvailable returns the registered tools that are enabled and pass their
// availability precondition, in registration order.
func (r *Registry) ListAvailable() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	available := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		if !usable(t) {
			continue
		}
		available = append(available, t)
	}
	return available
}

// Definitions renders the available tools as gateway tool definitions.
func (r *Registry) Definitions() []model.ToolDefinition {
	tools := r.ListAvailable()
	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// RequiresApproval reports whether the named tool hints that its invocations
// need explicit confirmation. Unknown tools report false; the executor
// rejects them separately.
func (r *Registry) RequiresApproval(name string) bool {
	t, ok := r.Lookup(name)
	if !ok {
		return false
	}
	if h, ok := t.(ApprovalHinter); ok {
		return h.RequiresApproval()
	}
	return false
}

// Rationale returns the named tool's approval rationale, if it supplies one.
func (r *Registry) Rationale(name string) string {
	t, ok := r.Lookup(name)
	if !ok {
		return ""
	}
	if rt, ok := t.(Rationaler); ok {
		return rt.Rationale()
	}
	return ""
}

// usable reports whether a tool is enabled and passes its precondition.
func usable(t Tool) bool {
	if s, ok := t.(Switchable); ok && !s.Enabled() {
		return false
	}
	if c, ok := t.(Conditional); ok && c.Available() != nil {
		return false
	}
	return true
}
