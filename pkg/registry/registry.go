// Package registry maps tool names to tool instances for the protocol
// engine.
package registry

import "github.com/mcpline/mcpline/mcp"

// Registry is an insertion-ordered name-to-tool table. It is populated
// once before serving begins and read-only afterwards, so it carries no
// locking.
type Registry struct {
	tools map[string]mcp.Tool
	order []string
}

func New() *Registry {
	return &Registry{
		tools: make(map[string]mcp.Tool),
	}
}

// Register inserts a tool under its name. Registering a duplicate name
// replaces the previous instance but keeps its position, so tools/list
// output stays deterministic across re-registration.
func (r *Registry) Register(tool mcp.Tool) {
	name := tool.Name()
	if _, ok := r.tools[name]; !ok {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// List returns all registered tools in registration order.
func (r *Registry) List() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Get looks a tool up by exact name.
func (r *Registry) Get(name string) (mcp.Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *Registry) Len() int {
	return len(r.tools)
}
