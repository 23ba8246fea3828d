package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"split-server/internal/domain/llm"
)

// Func is a synchronous tool implementation. Whatever happens inside, the
// outcome is text: validation failures and external errors are returned as
// strings so the oracle can relay them to the user.
type Func func(ctx context.Context, args json.RawMessage) string

// Definition couples a tool's schema with its implementation.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
	Run         Func
}

// Registry holds the fixed set of tools offered to the oracle.
type Registry struct {
	defs   []Definition
	byName map[string]Definition
}

// NewRegistry builds a registry from the given definitions.
func NewRegistry(defs ...Definition) *Registry {
	byName := make(map[string]Definition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	return &Registry{defs: defs, byName: byName}
}

// Definitions returns the tool schemas in oracle wire shape.
func (r *Registry) Definitions() []llm.ToolDefinition {
	out := make([]llm.ToolDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, llm.ToolDefinition{
			Type: "function",
			Function: llm.ToolFunctionSchema{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return out
}

// Call runs the named tool. Unknown tool names come back as text like any
// other tool failure.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) string {
	def, ok := r.byName[name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool '%s'", name)
	}
	return def.Run(ctx, args)
}
