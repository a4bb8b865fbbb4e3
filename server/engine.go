// Package server implements the line-delimited JSON-RPC protocol engine.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/mcpline/mcpline/mcp"
	"github.com/mcpline/mcpline/pkg/registry"
	"github.com/mcpline/mcpline/stdio"
)

// Engine owns the tool registry and speaks the protocol over a pair of
// injected byte streams. Requests are handled one at a time, in order; a
// slow tool stalls the whole session.
type Engine struct {
	registry *registry.Registry
	info     mcp.ServerInfo
	logger   *log.Logger
}

// New constructs an engine over a populated registry. A nil logger binds
// diagnostics to stderr; protocol output never goes there.
func New(reg *registry.Registry, info mcp.ServerInfo, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(os.Stderr, "mcpline: ", log.LstdFlags)
	}
	return &Engine{
		registry: reg,
		info:     info,
		logger:   logger,
	}
}

// Handle serves the protocol until the input stream is exhausted, then
// returns nil. Malformed input lines are dropped without a response.
func (e *Engine) Handle(rw io.ReadWriter) error {
	reader := stdio.NewReader(rw)
	writer := stdio.NewWriter(rw)

	e.logger.Printf("serving %d tools [session %s]", e.registry.Len(), uuid.NewString())

	for {
		line, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var req mcp.Request
		if err := json.Unmarshal(line, &req); err != nil {
			// Best-effort parser: garbage on the input channel is
			// discarded, never answered.
			continue
		}

		resp := e.Dispatch(context.Background(), &req)
		if resp == nil {
			continue
		}
		if err := writer.WriteMessage(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

// Dispatch executes one request and returns the envelope to send, or nil
// when the request must not be answered. Notifications stay silent even
// when their handler fails; the failure only reaches the diagnostic
// channel.
func (e *Engine) Dispatch(ctx context.Context, req *mcp.Request) any {
	if req.Method == mcp.MethodNotifyInitialized {
		return nil
	}

	result, err := e.handle(ctx, req)
	if err != nil {
		e.logger.Printf("%s failed: %v", req.Method, err)
		if !req.HasID() {
			return nil
		}
		return mcp.NewErrorResponse(req.ID, mcp.CodeInternalError, err.Error())
	}

	if !req.HasID() {
		return nil
	}
	return mcp.NewResponse(req.ID, result)
}

func (e *Engine) handle(ctx context.Context, req *mcp.Request) (any, error) {
	switch req.Method {
	case mcp.MethodInitialize:
		return mcp.InitializeResult{
			ProtocolVersion: mcp.ProtocolVersion,
			Capabilities:    mcp.Capabilities{Tools: []any{}},
			ServerInfo:      e.info,
		}, nil
	case mcp.MethodToolsList:
		return e.ListTools(), nil
	case mcp.MethodToolsCall:
		params := mcp.ParseToolCallParams(req.Params)
		return e.CallTool(ctx, params.Name, params.Arguments)
	default:
		// Unknown methods are ignored rather than rejected; callers that
		// supplied an id still get a null result back.
		return nil, nil
	}
}

// ListTools enumerates the registry into the wire tool-definition shape,
// in registration order.
func (e *Engine) ListTools() mcp.ListToolsResult {
	tools := e.registry.List()
	defs := make([]mcp.ToolDef, 0, len(tools))
	for _, tool := range tools {
		defs = append(defs, mcp.ToolDef{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.InputSchema(),
		})
	}
	return mcp.ListToolsResult{Tools: defs}
}

// CallTool invokes a registered tool and forwards its result verbatim.
func (e *Engine) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, ok := e.registry.Get(name)
	if !ok {
		return nil, &ToolNotFoundError{Name: name}
	}
	return tool.Execute(ctx, args)
}

// ToolNotFoundError keeps the wire-visible "Tool not found" message that
// remote clients match on.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return "Tool not found: " + e.Name
}
