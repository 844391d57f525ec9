package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// DefaultConfigDir returns the per-user directory the config file lives in.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "oblevel"), nil
}

// DefaultConfigPath returns the path the config file is written back to.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// WriteFile persists cfg as YAML, creating the directory if needed. Keys are
// written explicitly so the file stays stable across versions.
func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cfg must not be nil")
	}
	if path == "" {
		return fmt.Errorf("path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	payload := map[string]any{
		"app": map[string]any{
			"name":      cfg.App.Name,
			"log_level": cfg.App.LogLevel,
		},
		"storage": map[string]any{
			"database": cfg.Storage.Database,
			"recent":   cfg.Storage.Recent,
		},
		"rules": map[string]any{
			"major_cap":        cfg.Rules.MajorCap,
			"readiness_target": cfg.Rules.ReadinessTarget,
		},
		"web": map[string]any{
			"listen_addr": cfg.Web.ListenAddr,
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
