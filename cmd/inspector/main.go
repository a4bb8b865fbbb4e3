package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mcpline/mcpline/pkg/inspector"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "Timeout for inspection")
	call := flag.String("call", "", "Tool to call after the handshake instead of listing tools")
	callArgs := flag.String("args", "{}", "JSON arguments for -call")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("Usage: inspector [flags] <command> [args...]")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *call != "" {
		callTool(ctx, *call, *callArgs, args)
		return
	}

	tools, err := inspector.Inspect(ctx, args[0], args[1:]...)
	if err != nil {
		log.Fatalf("Inspection failed: %v", err)
	}

	data, err := json.MarshalIndent(tools, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal tools: %v", err)
	}

	fmt.Println(string(data))
}

func callTool(ctx context.Context, name, rawArgs string, command []string) {
	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
		log.Fatalf("Invalid -args: %v", err)
	}

	session, err := inspector.Start(ctx, command[0], command[1:]...)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(name, toolArgs)
	if err != nil {
		log.Fatalf("Call failed: %v", err)
	}

	var pretty any
	if err := json.Unmarshal(result, &pretty); err != nil {
		log.Fatalf("Failed to parse result: %v", err)
	}
	data, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal result: %v", err)
	}

	fmt.Println(string(data))
}
