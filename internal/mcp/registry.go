package mcp

import (
	"context"
	"encoding/json"
)

// ToolHandler executes one tool call. It receives the raw arguments object
// and returns the text to send back to the client.
type ToolHandler func(ctx context.Context, arguments json.RawMessage) (string, error)

// registeredTool pairs a tool definition with its handler.
type registeredTool struct {
	def     Tool
	handler ToolHandler
}

// Registry holds the tools the dispatcher exposes. It is populated at
// construction time and never mutated afterwards, so lookups need no lock.
type Registry struct {
	order []string
	tools map[string]registeredTool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registeredTool)}
}

// Register adds a tool. Registering the same name twice replaces the
// handler but keeps the original listing position.
func (r *Registry) Register(def Tool, handler ToolHandler) {
	if _, exists := r.tools[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.tools[def.Name] = registeredTool{def: def, handler: handler}
}

// List returns tool definitions in registration order.
func (r *Registry) List() []Tool {
	defs := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Resolve returns the handler for name, or false if no such tool exists.
func (r *Registry) Resolve(name string) (ToolHandler, bool) {
	t, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return t.handler, true
}
