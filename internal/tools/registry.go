// Package tools manages the set of callable tools exposed over
// tools/list and tools/call.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/freeshineit/mcp-server-go/internal/mcp"
)

// Handler is a single invocable tool.
type Handler interface {
	// Definition returns the tool's name, description and input schema
	// as advertised by tools/list.
	Definition() mcp.Tool
	// Execute runs the tool with already-decoded call arguments.
	Execute(ctx context.Context, args map[string]interface{}) (mcp.CallToolResult, error)
}

// ErrNotFound is returned when a tool name has no registration.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// Registry maps tool names to handlers. Safe for concurrent use;
// the server shares one registry across all connections.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates a registry pre-populated with the built-in tools.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(&SearchFilesTool{})
	r.Register(&WeatherTool{})
	return r
}

// Register adds a handler under its advertised name, replacing any
// previous registration for that name.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Definition().Name] = h
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	if !ok {
		return nil, &ErrNotFound{Name: name}
	}
	return h, nil
}

// List returns the definitions of all registered tools, ordered by name.
func (r *Registry) List() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]mcp.Tool, 0, len(r.handlers))
	for _, h := range r.handlers {
		out = append(out, h.Definition())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call resolves a tool by name and executes it.
func (r *Registry) Call(ctx context.Context, params mcp.CallToolParams) (mcp.CallToolResult, error) {
	h, err := r.Get(params.Name)
	if err != nil {
		return mcp.CallToolResult{}, err
	}
	return h.Execute(ctx, params.Arguments)
}
