package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRuleDocDecodesRulesAndConditions(t *testing.T) {
	path := writeTempFile(t, "rules.yaml", `
title: demo
rules:
  - name: phi-unfold
    description: unfolds phi decoration
    pattern: "⟦ !rest, φ ↦ !x ⟧"
    result: "!x"
    when:
      - absent_attrs:
          attrs: ["!a"]
          bindings: rest
    tests:
      - name: fires
        input: "⟦ φ ↦ ⟦ ⟧ ⟧"
        output: "⟦ ⟧"
        matches: true
`)

	doc, err := LoadRuleDoc(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", doc.Title)
	require.Len(t, doc.Rules, 1)

	rule := doc.Rules[0]
	assert.Equal(t, "phi-unfold", rule.Name)
	assert.Equal(t, "⟦ !rest, φ ↦ !x ⟧", rule.Pattern)
	require.Len(t, rule.When, 1)
	require.NotNil(t, rule.When[0].AbsentAttrs)
	assert.Equal(t, []string{"!a"}, rule.When[0].AbsentAttrs.Attrs)
	require.Len(t, rule.Tests, 1)
	assert.True(t, rule.Tests[0].Matches)
}

func TestLoadRuleDocMissingFile(t *testing.T) {
	_, err := LoadRuleDoc(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadPipelineDocDecodesTestSets(t *testing.T) {
	path := writeTempFile(t, "pipeline.yaml", `
report:
  output: report.json
  expected-changes:
    total-lines: -10.0
  expected-improved-percentage: 80.0
test-sets:
  - source: examples/foo.eo
    artifacts:
      parsed: foo.parsed
      translated: foo.phi
      normalized: foo.norm
    bindings-path-before: org.eolang.foo
    bindings-path-after: org.eolang.foo
    exclude: ["org.eolang.foo.skip"]
`)

	doc, err := LoadPipelineDoc(path)
	require.NoError(t, err)
	assert.Equal(t, "report.json", doc.Report.Output)
	assert.Equal(t, 80.0, doc.Report.ExpectedImprovedPct)
	require.Len(t, doc.TestSets, 1)

	ts := doc.TestSets[0]
	assert.Equal(t, "examples/foo.eo", ts.Source)
	assert.True(t, ts.Enabled())
	assert.True(t, ts.Excludes("org.eolang.foo.skip"))
	assert.False(t, ts.Excludes("org.eolang.foo.keep"))
}

func TestTestSetDisabledWhenEnableFalse(t *testing.T) {
	enable := false
	ts := TestSetYAML{Enable: &enable}
	assert.False(t, ts.Enabled())
}
