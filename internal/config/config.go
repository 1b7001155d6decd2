// Package config handles the .covenant workspace configuration: the identity
// and project context commits run under, and the optional invariant policy
// file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the flat Covenant workspace configuration.
type Config struct {
	Version   string `json:"version"`
	Committer string `json:"committer,omitempty"`  // identity stamped on commitments
	ProjectID string `json:"project_id,omitempty"` // invariant scope; empty means global
}

// LoadConfig reads .covenant/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".covenant", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to the directory's .covenant folder.
func SaveConfig(dir string, cfg *Config) error {
	covenantDir := filepath.Join(dir, ".covenant")
	if err := os.MkdirAll(covenantDir, 0755); err != nil {
		return fmt.Errorf("failed to create .covenant dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(covenantDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
