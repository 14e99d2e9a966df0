package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads template overrides from a YAML file. Keys left out keep their defaults.
// An empty path returns the defaults.
func Load(path string) (Templates, error) {
	defaults := Default()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("read prompts file: %w", err)
	}

	var overrides Templates
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Templates{}, fmt.Errorf("parse prompts file %s: %w", path, err)
	}

	return overrides.merge(defaults), nil
}
