// Package inspector is the client side of the line protocol: it launches a
// server as a child process and drives the handshake over its pipes.
package inspector

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/mcpline/mcpline/mcp"
	"github.com/mcpline/mcpline/stdio"
)

// Session is one running child server. Requests are issued one at a time
// with monotonically increasing ids.
type Session struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	writer  *stdio.Writer
	scanner *bufio.Scanner
	nextID  int
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *mcp.RPCError   `json:"error,omitempty"`
}

// Start launches the server process and performs the initialize exchange.
//
// Timeout behaviour: Start relies on the caller-provided ctx for overall
// deadline/cancellation. When the context is cancelled, exec.CommandContext
// will terminate the child. There is no additional internal timeout beyond
// the graceful-shutdown window applied by Close.
func Start(ctx context.Context, command string, args ...string) (*Session, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		return nil, err
	}

	s := &Session{
		cmd:     cmd,
		stdin:   stdin,
		writer:  stdio.NewWriter(stdin),
		scanner: bufio.NewScanner(stdout),
		nextID:  1,
	}
	s.scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)

	if _, err := s.Initialize(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Initialize performs the handshake and returns the server's self-report.
func (s *Session) Initialize() (*mcp.InitializeResult, error) {
	raw, err := s.roundTrip(mcp.MethodInitialize, map[string]any{
		"protocolVersion": mcp.ProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "mcpline-inspector",
			"version": "0.1.0",
		},
	})
	if err != nil {
		return nil, err
	}

	var result mcp.InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTools returns the tools the server advertises.
func (s *Session) ListTools() ([]mcp.ToolDef, error) {
	raw, err := s.roundTrip(mcp.MethodToolsList, nil)
	if err != nil {
		return nil, err
	}

	var result mcp.ListToolsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes one tool and returns its raw result payload.
func (s *Session) CallTool(name string, args map[string]any) (json.RawMessage, error) {
	if args == nil {
		args = map[string]any{}
	}
	return s.roundTrip(mcp.MethodToolsCall, mcp.ToolCallParams{Name: name, Arguments: args})
}

func (s *Session) roundTrip(method string, params any) (json.RawMessage, error) {
	id := s.nextID
	s.nextID++

	req := map[string]any{
		"jsonrpc": mcp.JSONRPCVersion,
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}
	if err := s.writer.WriteMessage(req); err != nil {
		return nil, err
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("server closed its output before answering %s", method)
	}

	var resp response
	if err := json.Unmarshal(s.scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("malformed response to %s: %w", method, err)
	}
	if string(resp.ID) != strconv.Itoa(id) {
		return nil, fmt.Errorf("response id %s does not match request id %d", resp.ID, id)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("server error: %s", resp.Error.Message)
	}
	return resp.Result, nil
}

// Close terminates the child, giving it a window to exit cleanly. Closing
// stdin signals end-of-stream, which a well-behaved server treats as
// termination.
func (s *Session) Close() {
	_ = s.stdin.Close()
	gracefulStop(s.cmd)
}

// Inspect launches a server, performs the initialize and tools/list
// handshake, and returns the advertised tools.
func Inspect(ctx context.Context, command string, args ...string) ([]mcp.ToolDef, error) {
	session, err := Start(ctx, command, args...)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return session.ListTools()
}

// gracefulStop waits up to 5 seconds for the child to exit after stdin
// closes, then kills it.
func gracefulStop(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		<-done
	}
}
