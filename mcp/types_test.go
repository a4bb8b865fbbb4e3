package mcp

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRequestIDAbsentVersusNull(t *testing.T) {
	var notification Request
	if err := json.Unmarshal([]byte(`{"method":"tools/list"}`), &notification); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if notification.HasID() {
		t.Error("Expected absent id to read as no id")
	}

	var nullID Request
	if err := json.Unmarshal([]byte(`{"method":"tools/list","id":null}`), &nullID); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !nullID.HasID() {
		t.Error("Expected id:null to still count as having an id")
	}
}

func TestResponseAlwaysCarriesResult(t *testing.T) {
	data, err := json.Marshal(NewResponse(json.RawMessage("7"), nil))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Contains(data, []byte(`"result":null`)) {
		t.Errorf("Expected explicit null result, got %s", data)
	}
	if !bytes.Contains(data, []byte(`"id":7`)) {
		t.Errorf("Expected echoed id, got %s", data)
	}
}

func TestParseToolCallParamsDefaults(t *testing.T) {
	for _, raw := range []string{"", "null", `"bogus"`, `{"arguments":12}`} {
		p := ParseToolCallParams(json.RawMessage(raw))
		if p.Name != "" {
			t.Errorf("Expected empty name for params %q, got %q", raw, p.Name)
		}
		if p.Arguments == nil {
			t.Errorf("Expected non-nil arguments for params %q", raw)
		}
	}

	p := ParseToolCallParams(json.RawMessage(`{"name":"echo","arguments":{"text":"hi"}}`))
	if p.Name != "echo" || p.Arguments["text"] != "hi" {
		t.Errorf("Unexpected params: %#v", p)
	}
}

func TestTextResultShape(t *testing.T) {
	data, err := json.Marshal(TextResult("hi"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"content":[{"type":"text","text":"hi"}]}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
