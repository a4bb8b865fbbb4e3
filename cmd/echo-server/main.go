package main

import (
	"context"
	"log"
	"os"

	"github.com/mcpline/mcpline/mcp"
	"github.com/mcpline/mcpline/pkg/registry"
	"github.com/mcpline/mcpline/server"
)

type stdioReadWriter struct {
	reader *os.File
	writer *os.File
}

func (s *stdioReadWriter) Read(p []byte) (n int, err error) {
	return s.reader.Read(p)
}

func (s *stdioReadWriter) Write(p []byte) (n int, err error) {
	return s.writer.Write(p)
}

func main() {
	reg := registry.New()
	reg.Register(mcp.NewTool(
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

	engine := server.New(reg, mcp.ServerInfo{Name: "echo-server", Version: "0.1.0"}, nil)

	rw := &stdioReadWriter{reader: os.Stdin, writer: os.Stdout}
	if err := engine.Handle(rw); err != nil {
		log.Fatalf("session failed: %v", err)
	}
}
