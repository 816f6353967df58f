package tools

import (
	"context"
	"encoding/json"

	"toolforge/internal/definition"
)

// Registry maps tool ids to tools. It is built once and never mutated, so it
// is safe for concurrent reads without locking.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a registry from tools. When two tools share an id the
// later one wins and keeps the position of the first.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{
		tools: make(map[string]Tool, len(tools)),
	}
	for _, tool := range tools {
		name := tool.Name()
		if _, exists := r.tools[name]; !exists {
			r.order = append(r.order, name)
		}
		r.tools[name] = tool
	}
	return r
}

// BuildRegistry fabricates one HTTPTool per definition and registers them.
func BuildRegistry(defs []definition.Definition, opts ...Option) *Registry {
	tools := make([]Tool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, NewHTTPTool(def, opts...))
	}
	return NewRegistry(tools...)
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns the registered ids in the order they first appeared.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// List returns all registered tools in the order their ids first appeared.
func (r *Registry) List() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Call executes a tool with the given arguments and context.
func (r *Registry) Call(ctx context.Context, toolName string, args json.RawMessage) (json.RawMessage, error) {
	tool, exists := r.Get(toolName)
	if !exists {
		return nil, NewToolNotFoundError(toolName)
	}

	return tool.Call(ctx, args)
}
