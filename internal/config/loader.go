package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is the per-user directory holding the config file.
const DefaultConfigDir = ".rigpilot"

// DefaultConfigFile is the file name inside DefaultConfigDir.
const DefaultConfigFile = "config.yaml"

// DefaultPath returns the default per-user config file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFile
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// Load returns a Config using the hierarchy: defaults < YAML < ENV,
// reading the YAML file from the default per-user path.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// Save writes cfg as YAML to the given path, creating parent
// directories. The file is written 0600 because it may hold the secret.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Host, "RIGPILOT_HOST")
	setInt(&cfg.Server.Port, "RIGPILOT_PORT")
	setString(&cfg.Server.Password, "RIGPILOT_PASSWORD")
	setString(&cfg.Server.PasswordHash, "RIGPILOT_PASSWORD_HASH")
	setBool(&cfg.VLM.Enabled, "RIGPILOT_VLM_ENABLED")
	setString(&cfg.VLM.Provider, "RIGPILOT_VLM_PROVIDER")
	setString(&cfg.VLM.Model, "RIGPILOT_VLM_MODEL")
	setString(&cfg.VLM.Endpoint, "RIGPILOT_VLM_ENDPOINT")
	setDuration(&cfg.Security.MaxCommandTimeout, "RIGPILOT_MAX_COMMAND_TIMEOUT")
	setString(&cfg.Logging.Level, "RIGPILOT_LOG_LEVEL")
	setString(&cfg.Logging.Service, "RIGPILOT_LOG_SERVICE")
	setBool(&cfg.Telemetry.Enabled, "RIGPILOT_OTEL_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "RIGPILOT_OTEL_ENDPOINT")
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if cfg.Security.MaxCommandTimeout <= 0 {
		return fmt.Errorf("security.max_command_timeout must be > 0, got %s", cfg.Security.MaxCommandTimeout)
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level invalid: %q", cfg.Logging.Level)
	}
	if cfg.VLM.Enabled && cfg.VLM.Endpoint == "" {
		return errors.New("vlm.endpoint required when vlm.enabled")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
