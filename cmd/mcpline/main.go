package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/mcpline/mcpline/mcp"
	"github.com/mcpline/mcpline/pkg/config"
	"github.com/mcpline/mcpline/pkg/github"
	"github.com/mcpline/mcpline/pkg/httpserver"
	"github.com/mcpline/mcpline/pkg/registry"
	"github.com/mcpline/mcpline/server"
)

type stdioReadWriter struct {
	reader *os.File
	writer *os.File
}

func (s *stdioReadWriter) Read(p []byte) (n int, err error)  { return s.reader.Read(p) }
func (s *stdioReadWriter) Write(p []byte) (n int, err error) { return s.writer.Write(p) }

func populateTools(reg *registry.Registry, cfg config.Config) {
	for _, toolset := range cfg.Toolsets {
		switch toolset {
		case "demo":
			reg.PopulateDemoTools()
		case "github":
			client, err := github.NewClient(cfg.GitHub.Token)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Skipping GitHub tools: %v\n", err)
				continue
			}
			reg.PopulateGitHubTools(client)
		default:
			fmt.Fprintf(os.Stderr, "Skipping unknown toolset %q\n", toolset)
		}
	}
}

func main() {
	transport := flag.String("transport", "stdio", "Transport to use (stdio or http)")
	addr := flag.String("addr", "", "HTTP listen address (overrides the config file)")
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if *addr != "" {
		cfg.Listen = *addr
	}

	reg := registry.New()
	populateTools(reg, cfg)

	engine := server.New(reg, mcp.ServerInfo{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)

	fmt.Fprintf(os.Stderr, "mcpline starting... [Transport: %s]\n", *transport)

	switch *transport {
	case "http":
		srv := httpserver.New(engine, cfg.AuthToken)
		fmt.Fprintf(os.Stderr, "HTTP listening on %s\n", cfg.Listen)
		if err := http.ListenAndServe(cfg.Listen, srv.Router()); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	case "stdio":
		rw := &stdioReadWriter{reader: os.Stdin, writer: os.Stdout}
		if err := engine.Handle(rw); err != nil {
			log.Fatalf("stdio session failed: %v", err)
		}
	default:
		log.Fatalf("unknown transport %q", *transport)
	}
}
