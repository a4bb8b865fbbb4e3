package registry

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mcpline/mcpline/mcp"
)

// PopulateDemoTools registers a small local catalog that needs no external
// credentials. Useful for exercising a client end to end.
func (r *Registry) PopulateDemoTools() {
	r.Register(mcp.NewTool(
		"echo",
		"Echoes the provided text back to the caller.",
		mcp.ObjectSchema(map[string]any{
			"text": map[string]any{"type": "string", "description": "Text to echo back."},
		}, "text"),
		func(ctx context.Context, args map[string]any) (any, error) {
			text, _ := args["text"].(string)
			return mcp.TextResult(text), nil
		},
	))

	r.Register(mcp.NewTool(
		"utc_time",
		"Returns the current UTC time in RFC 3339 format.",
		mcp.ObjectSchema(nil),
		func(ctx context.Context, args map[string]any) (any, error) {
			return mcp.TextResult(time.Now().UTC().Format(time.RFC3339)), nil
		},
	))

	r.Register(mcp.NewTool(
		"random_uuid",
		"Generates a random version 4 UUID.",
		mcp.ObjectSchema(nil),
		func(ctx context.Context, args map[string]any) (any, error) {
			return mcp.TextResult(uuid.NewString()), nil
		},
	))

	r.Register(mcp.NewTool(
		"word_count",
		"Counts whitespace-separated words in the provided text.",
		mcp.ObjectSchema(map[string]any{
			"text": map[string]any{"type": "string", "description": "Text to count words in."},
		}, "text"),
		func(ctx context.Context, args map[string]any) (any, error) {
			text, _ := args["text"].(string)
			return mcp.TextResult(strconv.Itoa(len(strings.Fields(text)))), nil
		},
	))
}
