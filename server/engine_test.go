package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/mcpline/mcpline/mcp"
	"github.com/mcpline/mcpline/pkg/registry"
)

type combinedReadWriter struct {
	io.Reader
	io.Writer
}

func quietEngine(reg *registry.Registry) *Engine {
	return New(reg, mcp.ServerInfo{Name: "mcpline", Version: "0.1.0"}, log.New(io.Discard, "", 0))
}

func serve(t *testing.T, e *Engine, input string) []string {
	t.Helper()
	output := &bytes.Buffer{}
	rw := &combinedReadWriter{
		Reader: strings.NewReader(input),
		Writer: output,
	}
	if err := e.Handle(rw); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	raw := strings.TrimRight(output.String(), "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", line, err)
	}
	return resp
}

func TestHandleInitialize(t *testing.T) {
	e := quietEngine(registry.New())

	lines := serve(t, e, `{"method":"initialize","id":1}`+"\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 response line, got %d", len(lines))
	}

	resp := decodeLine(t, lines[0])
	if resp["jsonrpc"] != "2.0" {
		t.Errorf("Expected jsonrpc 2.0, got %v", resp["jsonrpc"])
	}
	if resp["id"].(float64) != 1 {
		t.Errorf("Expected response id 1, got %v", resp["id"])
	}

	result := resp["result"].(map[string]any)
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("Expected protocolVersion 2024-11-05, got %v", result["protocolVersion"])
	}
	tools, ok := result["capabilities"].(map[string]any)["tools"].([]any)
	if !ok || len(tools) != 0 {
		t.Errorf("Expected empty capabilities.tools array, got %v", result["capabilities"])
	}
	info := result["serverInfo"].(map[string]any)
	if info["name"] != "mcpline" || info["version"] != "0.1.0" {
		t.Errorf("Unexpected serverInfo: %v", info)
	}
}

func TestHandleToolsListEmptyRegistry(t *testing.T) {
	e := quietEngine(registry.New())

	lines := serve(t, e, `{"method":"tools/list","id":2}`+"\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 response line, got %d", len(lines))
	}
	if lines[0] != `{"jsonrpc":"2.0","id":2,"result":{"tools":[]}}` {
		t.Errorf("Unexpected response: %s", lines[0])
	}
}

func TestHandleToolsListOrderAndRepetition(t *testing.T) {
	reg := registry.New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		n := name
		reg.Register(mcp.NewTool(n, "tool "+n, mcp.ObjectSchema(nil),
			func(ctx context.Context, args map[string]any) (any, error) {
				return mcp.TextResult(n), nil
			}))
	}
	e := quietEngine(reg)

	input := `{"method":"tools/list","id":1}` + "\n" + `{"method":"tools/list","id":2}` + "\n"
	lines := serve(t, e, input)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 response lines, got %d", len(lines))
	}

	for _, line := range lines {
		resp := decodeLine(t, line)
		tools := resp["result"].(map[string]any)["tools"].([]any)
		if len(tools) != 3 {
			t.Fatalf("Expected 3 tools, got %d", len(tools))
		}
		for i, want := range []string{"zeta", "alpha", "mid"} {
			def := tools[i].(map[string]any)
			if def["name"] != want {
				t.Errorf("Position %d: expected %s, got %v", i, want, def["name"])
			}
			if def["inputSchema"].(map[string]any)["type"] != "object" {
				t.Errorf("Tool %v is missing its schema", def["name"])
			}
		}
	}
}

func TestHandleToolsCallPassesResultThrough(t *testing.T) {
	payload := mcp.TextResult("hi")
	reg := registry.New()
	reg.Register(mcp.NewTool("echo", "Echo tool.", mcp.ObjectSchema(nil),
		func(ctx context.Context, args map[string]any) (any, error) {
			return payload, nil
		}))
	e := quietEngine(reg)

	lines := serve(t, e, `{"method":"tools/call","id":3,"params":{"name":"echo","arguments":{}}}`+"\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 response line, got %d", len(lines))
	}
	if lines[0] != `{"jsonrpc":"2.0","id":3,"result":{"content":[{"type":"text","text":"hi"}]}}` {
		t.Errorf("Unexpected response: %s", lines[0])
	}

	// The forwarded result must be exactly the tool's return value.
	resp := decodeLine(t, lines[0])
	want, _ := json.Marshal(payload)
	var wantDecoded map[string]any
	if err := json.Unmarshal(want, &wantDecoded); err != nil {
		t.Fatalf("Failed to unmarshal payload: %v", err)
	}
	if !reflect.DeepEqual(resp["result"], wantDecoded) {
		t.Errorf("Result was not forwarded verbatim: %v", resp["result"])
	}
}

func TestHandleToolsCallUnknownTool(t *testing.T) {
	executed := false
	reg := registry.New()
	reg.Register(mcp.NewTool("echo", "Echo tool.", mcp.ObjectSchema(nil),
		func(ctx context.Context, args map[string]any) (any, error) {
			executed = true
			return mcp.TextResult("hi"), nil
		}))
	e := quietEngine(reg)

	lines := serve(t, e, `{"method":"tools/call","id":4,"params":{"name":"missing","arguments":{}}}`+"\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 response line, got %d", len(lines))
	}
	if lines[0] != `{"jsonrpc":"2.0","id":4,"error":{"code":-32603,"message":"Tool not found: missing"}}` {
		t.Errorf("Unexpected response: %s", lines[0])
	}
	if executed {
		t.Error("No tool should run when the requested name is unregistered")
	}
}

func TestHandleToolExecutionFault(t *testing.T) {
	reg := registry.New()
	reg.Register(mcp.NewTool("broken", "Always fails.", mcp.ObjectSchema(nil),
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, io.ErrUnexpectedEOF
		}))
	diag := &bytes.Buffer{}
	e := New(reg, mcp.ServerInfo{Name: "mcpline", Version: "0.1.0"}, log.New(diag, "", 0))

	input := `{"method":"tools/call","id":5,"params":{"name":"broken"}}` + "\n" +
		`{"method":"tools/list","id":6}` + "\n"
	lines := serve(t, e, input)
	if len(lines) != 2 {
		t.Fatalf("Expected the loop to survive the fault, got %d lines", len(lines))
	}

	resp := decodeLine(t, lines[0])
	rpcErr := resp["error"].(map[string]any)
	if rpcErr["code"].(float64) != -32603 {
		t.Errorf("Expected code -32603, got %v", rpcErr["code"])
	}
	if rpcErr["message"] != io.ErrUnexpectedEOF.Error() {
		t.Errorf("Expected the fault message, got %v", rpcErr["message"])
	}
	if !strings.Contains(diag.String(), io.ErrUnexpectedEOF.Error()) {
		t.Error("Expected the fault to be copied to the diagnostic channel")
	}
}

func TestHandleMalformedInputProducesNoOutput(t *testing.T) {
	e := quietEngine(registry.New())

	input := "not json\n" + "\n" + `{"method":"tools/list","id":2}` + "\n"
	lines := serve(t, e, input)
	if len(lines) != 1 {
		t.Fatalf("Expected malformed lines to be dropped, got %d responses", len(lines))
	}
	if decodeLine(t, lines[0])["id"].(float64) != 2 {
		t.Errorf("Unexpected response: %s", lines[0])
	}
}

func TestHandleNotificationsProduceNoOutput(t *testing.T) {
	reg := registry.New()
	reg.Register(mcp.NewTool("broken", "Always fails.", mcp.ObjectSchema(nil),
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, io.ErrUnexpectedEOF
		}))
	e := quietEngine(reg)

	input := `{"method":"notifications/initialized"}` + "\n" +
		`{"method":"notifications/initialized","id":9}` + "\n" +
		`{"method":"tools/call","params":{"name":"broken"}}` + "\n" +
		`{"method":"tools/call","params":{"name":"missing"}}` + "\n"
	if lines := serve(t, e, input); lines != nil {
		t.Errorf("Expected zero output lines, got %v", lines)
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	e := quietEngine(registry.New())

	// No id: silently ignored. With id: a null-result success.
	input := `{"method":"bogus"}` + "\n" + `{"method":"bogus","id":7}` + "\n" + `{"id":8}` + "\n"
	lines := serve(t, e, input)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 response lines, got %d", len(lines))
	}
	if lines[0] != `{"jsonrpc":"2.0","id":7,"result":null}` {
		t.Errorf("Unexpected response: %s", lines[0])
	}
	// A request with no method key takes the same branch.
	if lines[1] != `{"jsonrpc":"2.0","id":8,"result":null}` {
		t.Errorf("Unexpected response: %s", lines[1])
	}
}

func TestHandleNullIDStillAnswered(t *testing.T) {
	e := quietEngine(registry.New())

	lines := serve(t, e, `{"method":"tools/list","id":null}`+"\n")
	if len(lines) != 1 {
		t.Fatalf("Expected a response for id:null, got %d lines", len(lines))
	}
	if lines[0] != `{"jsonrpc":"2.0","id":null,"result":{"tools":[]}}` {
		t.Errorf("Unexpected response: %s", lines[0])
	}
}

func TestHandleStringID(t *testing.T) {
	e := quietEngine(registry.New())

	lines := serve(t, e, `{"method":"tools/list","id":"abc"}`+"\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 response line, got %d", len(lines))
	}
	if decodeLine(t, lines[0])["id"] != "abc" {
		t.Errorf("Expected string id to be echoed, got %s", lines[0])
	}
}

func TestHandleLogsStartupNotice(t *testing.T) {
	reg := registry.New()
	reg.PopulateDemoTools()
	diag := &bytes.Buffer{}
	e := New(reg, mcp.ServerInfo{Name: "mcpline", Version: "0.1.0"}, log.New(diag, "", 0))

	if lines := serve(t, e, ""); lines != nil {
		t.Errorf("Expected no protocol output, got %v", lines)
	}
	if !strings.Contains(diag.String(), "serving 4 tools") {
		t.Errorf("Expected startup notice on the diagnostic channel, got %q", diag.String())
	}
}
