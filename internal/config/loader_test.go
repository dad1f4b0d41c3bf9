package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromDefaultsOnly(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom with missing file: %v", err)
	}
	if cfg.Server.Port != 8765 {
		t.Errorf("Port = %d, want 8765", cfg.Server.Port)
	}
	if cfg.Security.MaxCommandTimeout != 30*time.Second {
		t.Errorf("MaxCommandTimeout = %s, want 30s", cfg.Security.MaxCommandTimeout)
	}
	if !cfg.Features.Screenshot || !cfg.Features.CommandExecution {
		t.Error("features should default to enabled")
	}
	if cfg.VLM.Enabled {
		t.Error("vlm should default to disabled")
	}
	if len(cfg.Security.BlockedCommands) == 0 {
		t.Error("default blocklist is empty")
	}
}

func TestLoadFromYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9999
  password: swordfish
security:
  allowed_paths: ["/srv/data"]
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.Password != "swordfish" {
		t.Errorf("Password = %q", cfg.Server.Password)
	}
	if len(cfg.Security.AllowedPaths) != 1 || cfg.Security.AllowedPaths[0] != "/srv/data" {
		t.Errorf("AllowedPaths = %v", cfg.Security.AllowedPaths)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RIGPILOT_PORT", "7777")
	t.Setenv("RIGPILOT_LOG_LEVEL", "warn")
	t.Setenv("RIGPILOT_MAX_COMMAND_TIMEOUT", "45s")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Port = %d, want env override 7777", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Security.MaxCommandTimeout != 45*time.Second {
		t.Errorf("MaxCommandTimeout = %s, want 45s", cfg.Security.MaxCommandTimeout)
	}
}

func TestLoadFromValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"port out of range", "server:\n  port: 99999\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"vlm without endpoint", "vlm:\n  enabled: true\n  endpoint: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("invalid config loaded without error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Defaults()
	cfg.Server.Port = 9001
	cfg.Server.PasswordHash = "$2a$10$fakehash"
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600 (file may hold the secret)", perm)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Server.Port != 9001 {
		t.Errorf("Port = %d, want 9001", loaded.Server.Port)
	}
	if loaded.Server.PasswordHash != "$2a$10$fakehash" {
		t.Errorf("PasswordHash = %q", loaded.Server.PasswordHash)
	}
}
