// Package attr resolves the per-path diff attribute via path glob
// rules.
package attr

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"diffkit/diff"
)

// Rule binds a doublestar pattern to a diff attribute value.
// Recognized false-like values ("false", "no", "0") force binary,
// true-like values ("true", "yes", "1", or empty for a bare set)
// force text; anything else leaves the attribute unspecified.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Value   string `yaml:"value"`
}

// RulesConfig holds the rules file layout.
type RulesConfig struct {
	Rules []Rule `yaml:"rules"`
}

// Matcher matches file paths to diff attribute values. The last
// matching rule wins.
type Matcher struct {
	rules []Rule
}

// NewMatcher creates a matcher from a list of rules.
func NewMatcher(rules []Rule) *Matcher {
	return &Matcher{rules: rules}
}

// Load loads attribute rules from a YAML file.
func Load(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading attributes file: %w", err)
	}

	var config RulesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing attributes file: %w", err)
	}

	return &Matcher{rules: config.Rules}, nil
}

// DiffAttribute implements diff.AttributeSource.
func (m *Matcher) DiffAttribute(path string) (diff.Tristate, error) {
	result := diff.TristateUnset
	for _, rule := range m.rules {
		match, err := doublestar.Match(rule.Pattern, path)
		if err != nil {
			return diff.TristateUnset, fmt.Errorf("bad attribute pattern %q: %w", rule.Pattern, err)
		}
		if !match {
			continue
		}
		result = valueState(rule.Value)
	}
	return result, nil
}

func valueState(value string) diff.Tristate {
	switch value {
	case "false", "no", "0":
		return diff.TristateFalse
	case "true", "yes", "1", "":
		return diff.TristateTrue
	}
	return diff.TristateUnset
}
