// Package config implements the YAML surface formats consumed by the
// engine: the ruleset document and the pipeline/report
// document. It only decodes these documents into typed
// Go values; compiling a RuleDoc into a metaphi.Ruleset, and driving a
// PipelineDoc's test sets, are the concern of pkg/metaphi and an
// external pipeline driver outside this repository's scope.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleDoc is the top-level ruleset document.
type RuleDoc struct {
	Title string     `yaml:"title"`
	Rules []RuleYAML `yaml:"rules"`
}

// RuleYAML is one rule's surface syntax.
type RuleYAML struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Context     *ContextYAML `yaml:"context"`
	Pattern     string       `yaml:"pattern"`
	Result      string       `yaml:"result"`
	When        []WhenYAML   `yaml:"when"`
	Tests       []TestYAML   `yaml:"tests"`
}

// ContextYAML names the meta-variables capturing the global object and
// the current (enclosing) object.
type ContextYAML struct {
	GlobalObject  string `yaml:"global-object"`
	CurrentObject string `yaml:"current-object"`
}

// WhenYAML is one side condition. Exactly one of its fields is set.
type WhenYAML struct {
	NF           []string         `yaml:"nf"`
	PresentAttrs *AttrsCondYAML   `yaml:"present_attrs"`
	AbsentAttrs  *AttrsCondYAML   `yaml:"absent_attrs"`
}

// AttrsCondYAML backs present_attrs/absent_attrs.
type AttrsCondYAML struct {
	Attrs    []string `yaml:"attrs"`
	Bindings string   `yaml:"bindings"`
}

// TestYAML is one rule self-test (§6.2's `tests:` list).
type TestYAML struct {
	Name    string `yaml:"name"`
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Matches bool   `yaml:"matches"`
}

// LoadRuleDoc reads and decodes a ruleset YAML file.
func LoadRuleDoc(path string) (*RuleDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset %s: %w", path, err)
	}
	var doc RuleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse ruleset %s: %w", path, err)
	}
	return &doc, nil
}
