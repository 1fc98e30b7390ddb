// Package syncdir copies a plugin source tree into the deploy environment
// (typically a bind-mounted Docker docroot), driven by a small YAML rule
// file with doublestar include/exclude patterns.
package syncdir

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules is the parsed sync rule file (.flowdev/sync.yaml).
type Rules struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
	Prune   bool     `yaml:"prune"`
}

// defaultRules applies when the plugin carries no rule file: the whole tree
// minus generated and VCS directories.
func defaultRules() *Rules {
	return &Rules{
		Include: []string{"**"},
		Exclude: []string{".git/**", ".flowdev/**", "db/orphans/**"},
	}
}

// LoadRules reads the rule file at path. A missing file yields the default
// rule set; a present but unparsable one is a configuration error.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from tool configuration
	if err != nil {
		if os.IsNotExist(err) {
			return defaultRules(), nil
		}
		return nil, fmt.Errorf("failed to read sync rules %s: %w", path, err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("invalid sync rules %s: %w", path, err)
	}
	if len(rules.Include) == 0 {
		rules.Include = []string{"**"}
	}
	return &rules, nil
}
