// Package config provides hierarchical configuration loading for rigpilot.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the rigpilot gateway.
// It is built once at startup and treated as immutable afterwards.
type Config struct {
	Server    Server    `yaml:"server"`
	VLM       VLM       `yaml:"vlm"`
	Security  Security  `yaml:"security"`
	Features  Features  `yaml:"features"`
	Logging   Logging   `yaml:"logging"`
	Telemetry Telemetry `yaml:"telemetry"`
}

// Server holds transport configuration for the HTTP/SSE front end and
// the shared secret used by both transports.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Password is the plaintext shared secret. Prefer PasswordHash.
	Password string `yaml:"password"`
	// PasswordHash is a bcrypt hash of the shared secret, as written by
	// `rigpilot init`. When set it takes precedence over Password.
	PasswordHash string `yaml:"password_hash"`
}

// VLM holds vision-language-model provider configuration for the
// analyze_screen / analyze_image tools.
type VLM struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

// Security holds the allow/block rules for filesystem and command tools.
type Security struct {
	// AllowedPaths restricts file tools to these directory prefixes.
	// Empty means unrestricted, which is a documented risk.
	AllowedPaths []string `yaml:"allowed_paths"`
	// BlockedCommands are case-insensitive substrings that reject a
	// shell command before it spawns.
	BlockedCommands []string `yaml:"blocked_commands"`
	// MaxCommandTimeout caps the per-command execution timeout.
	MaxCommandTimeout time.Duration `yaml:"max_command_timeout"`
}

// Features toggles whole tool families on or off.
type Features struct {
	Screenshot       bool `yaml:"screenshot"`
	FileAccess       bool `yaml:"file_access"`
	CommandExecution bool `yaml:"command_execution"`
	MouseControl     bool `yaml:"mouse_control"`
	KeyboardControl  bool `yaml:"keyboard_control"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Telemetry holds OpenTelemetry export configuration.
type Telemetry struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Server: Server{
			Host: "0.0.0.0",
			Port: 8765,
		},
		VLM: VLM{
			Enabled:  false,
			Provider: "ollama",
			Model:    "qwen2.5-vl:3b",
			Endpoint: "http://localhost:11434",
		},
		Security: Security{
			BlockedCommands:   []string{"rm -rf", "format", "del /f", "mkfs"},
			MaxCommandTimeout: 30 * time.Second,
		},
		Features: Features{
			Screenshot:       true,
			FileAccess:       true,
			CommandExecution: true,
			MouseControl:     true,
			KeyboardControl:  true,
		},
		Logging: Logging{
			Level:   "info",
			Service: "rigpilot",
		},
		Telemetry: Telemetry{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
	}
}
