package mcp

import "encoding/json"

// Protocol constants shared by the engine and the inspector client.
const (
	JSONRPCVersion  = "2.0"
	ProtocolVersion = "2024-11-05"

	CodeInternalError = -32603
)

// Method names the engine dispatches on. Anything outside this set is
// ignored rather than rejected.
const (
	MethodInitialize        = "initialize"
	MethodNotifyInitialized = "notifications/initialized"
	MethodToolsList         = "tools/list"
	MethodToolsCall         = "tools/call"
)

// Request is one decoded line from the protocol channel. ID and Params keep
// their raw bytes so that an absent key, a null value, and a malformed
// object can all be told apart after decoding.
type Request struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// HasID reports whether the id key was present on the wire. A present but
// null id still gets a response; only a missing key marks a notification.
func (r *Request) HasID() bool {
	return r.ID != nil
}

// Response is the success envelope. Result is always serialized, so an
// empty handler result goes out as an explicit null.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   *RPCError       `json:"error"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

func NewErrorResponse(id json.RawMessage, code int, message string) *ErrorResponse {
	return &ErrorResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

// ToolDef is the wire shape a tool advertises in tools/list.
type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ListToolsResult struct {
	Tools []ToolDef `json:"tools"`
}

type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Capabilities mirrors the fixed handshake payload. Tools goes out as an
// empty array, never null.
type Capabilities struct {
	Tools []any `json:"tools"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolCallParams are the params of a tools/call request.
type ToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ParseToolCallParams decodes tools/call params leniently: absent or
// malformed params come back as an empty call rather than an error, and
// Arguments is never nil.
func ParseToolCallParams(raw json.RawMessage) ToolCallParams {
	var p ToolCallParams
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &p)
	}
	if p.Arguments == nil {
		p.Arguments = map[string]any{}
	}
	return p
}

// ToolResult is the conventional payload tools hand back. The engine
// forwards whatever a tool returns verbatim; these types only exist so tool
// authors and clients agree on a shape.
type ToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextResult wraps text in the conventional single-content success shape.
func TextResult(text string) *ToolResult {
	return &ToolResult{
		Content: []ToolContent{{Type: "text", Text: text}},
	}
}

// ErrorResult marks a handled, non-fatal tool error. Unlike a returned
// error it still travels as a success envelope.
func ErrorResult(text string) *ToolResult {
	return &ToolResult{
		IsError: true,
		Content: []ToolContent{{Type: "text", Text: text}},
	}
}
