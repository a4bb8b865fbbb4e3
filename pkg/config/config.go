// Package config holds server defaults and the optional YAML config file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Server configuration constants
const (
	DefaultServerName    = "mcpline"
	DefaultServerVersion = "0.1.0"
	DefaultListenAddr    = ":8080"
	DefaultHTTPTimeout   = 60 * time.Second
	MaxLineSize          = 10 * 1024 * 1024 // 10MB per protocol line
)

// ServerConfig identifies the server in the initialize handshake.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// GitHubConfig configures the GitHub toolset. An empty token falls back to
// the GITHUB_PERSONAL_ACCESS_TOKEN environment variable.
type GitHubConfig struct {
	Token string `yaml:"token"`
}

// Config is the host-level configuration surface. It never reaches the
// protocol engine; the entry point translates it into constructor
// arguments.
type Config struct {
	Server    ServerConfig `yaml:"server"`
	Listen    string       `yaml:"listen"`
	AuthToken string       `yaml:"auth_token"`
	Toolsets  []string     `yaml:"toolsets"`
	GitHub    GitHubConfig `yaml:"github"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Name:    DefaultServerName,
			Version: DefaultServerVersion,
		},
		Listen:   DefaultListenAddr,
		Toolsets: []string{"demo"},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Server.Name == "" {
		cfg.Server.Name = DefaultServerName
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = DefaultServerVersion
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListenAddr
	}
	return cfg, nil
}
