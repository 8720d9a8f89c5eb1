// Package config loads scaling policies from YAML or JSON files and can
// watch a file for changes, swapping the policy into a running pool without
// a restart.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adaptric/go-adaptive-pool/criteria"
)

// LoadPolicy reads a policy's tagged mapping from path. YAML and JSON are
// both accepted (JSON is a YAML subset).
func LoadPolicy(path string) (*criteria.MultiCriterionPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	policy, err := criteria.PolicyFromMap(m)
	if err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}
	return policy, nil
}

// SavePolicy writes the policy's tagged mapping to path as indented JSON,
// readable back by LoadPolicy.
func SavePolicy(path string, policy *criteria.MultiCriterionPolicy) error {
	if policy == nil {
		return fmt.Errorf("policy must not be nil")
	}
	data, err := json.MarshalIndent(policy.ToMap(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode policy: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write policy file: %w", err)
	}
	return nil
}
