package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Policy is the parsed .covenant/policy.yaml: per-invariant flag overrides a
// project checks into version control alongside its requirements.
type Policy struct {
	Invariants []PolicyEntry `yaml:"invariants"`
}

// PolicyEntry overrides one invariant's flags. Nil pointers mean "leave the
// stored value alone"; only flags present in the file are applied.
type PolicyEntry struct {
	ID       string `yaml:"id"`
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Blocking *bool  `yaml:"blocking,omitempty"`
}

// LoadPolicy reads .covenant/policy.yaml from the specified directory.
// Returns (nil, nil) when no policy file exists; an absent policy is not an
// error.
func LoadPolicy(dir string) (*Policy, error) {
	path := filepath.Join(dir, ".covenant", "policy.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}

	for i, entry := range policy.Invariants {
		if entry.ID == "" {
			return nil, fmt.Errorf("policy entry %d has no invariant id", i+1)
		}
	}
	return &policy, nil
}
