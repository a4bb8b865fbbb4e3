package mcp

import "context"

// Tool is the contract every capability exposed over the protocol
// satisfies. Name must be stable and non-empty; it is the routing key.
// Execute returns a free-form payload that is forwarded to the client
// unmodified, or an error that the engine maps to an error envelope.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]any
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ToolFunc is the execution half of a function-backed tool.
type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

type funcTool struct {
	name        string
	description string
	schema      map[string]any
	fn          ToolFunc
}

// NewTool builds a Tool from its metadata and a function, so toolsets can
// register capabilities without declaring a struct per tool.
func NewTool(name, description string, schema map[string]any, fn ToolFunc) Tool {
	return &funcTool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

func (t *funcTool) Name() string                { return t.name }
func (t *funcTool) Description() string         { return t.description }
func (t *funcTool) InputSchema() map[string]any { return t.schema }

func (t *funcTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}

// ObjectSchema assembles the usual JSON Schema object shape for a tool's
// input definition.
func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object"}
	if len(properties) > 0 {
		schema["properties"] = properties
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
