package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineDoc is the top-level pipeline/report document.
// It is decode-only: phinorm does not implement the pipeline driver
// that orchestrates file batches and renders the report; this
// type exists so that driver, or a Go reimplementation of it, can
// depend on phinorm for the document shape instead of redefining it.
type PipelineDoc struct {
	Report   ReportYAML    `yaml:"report"`
	TestSets []TestSetYAML `yaml:"test-sets"`
}

// ReportYAML configures the (externally rendered) report: output
// paths and expected metric deltas.
type ReportYAML struct {
	Output             string             `yaml:"output"`
	ExpectedChanges    map[string]float64 `yaml:"expected-changes"`
	ExpectedImprovedPct float64           `yaml:"expected-improved-percentage"`
}

// TestSetYAML pairs a source .eo file with intermediate artifact paths
// and the two bindings-path roots used to scope metrics to a subtree
// before/after normalization.
type TestSetYAML struct {
	Source          string         `yaml:"source"`
	Artifacts       ArtifactsYAML  `yaml:"artifacts"`
	BindingsBefore  string         `yaml:"bindings-path-before"`
	BindingsAfter   string         `yaml:"bindings-path-after"`
	Enable          *bool          `yaml:"enable"`
	Exclude         []string       `yaml:"exclude"`
}

// ArtifactsYAML names the intermediate file paths a test-set entry
// produces (parsed, phi-translated, normalized forms).
type ArtifactsYAML struct {
	Parsed     string `yaml:"parsed"`
	Translated string `yaml:"translated"`
	Normalized string `yaml:"normalized"`
}

// Enabled reports whether this test-set entry should run (defaults to
// true when Enable is unset).
func (t TestSetYAML) Enabled() bool {
	return t.Enable == nil || *t.Enable
}

// Excludes reports whether the named test object is excluded.
func (t TestSetYAML) Excludes(name string) bool {
	for _, e := range t.Exclude {
		if e == name {
			return true
		}
	}
	return false
}

// LoadPipelineDoc reads and decodes a pipeline/report YAML file.
func LoadPipelineDoc(path string) (*PipelineDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config %s: %w", path, err)
	}
	var doc PipelineDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse pipeline config %s: %w", path, err)
	}
	return &doc, nil
}
