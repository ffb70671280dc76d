package metaphi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phi-calculus/phinorm/pkg/config"
)

func TestCompileSimpleRule(t *testing.T) {
	doc := &config.RuleDoc{
		Title: "t",
		Rules: []config.RuleYAML{
			{
				Name:    "phi-unfold",
				Pattern: "⟦ !rest, φ ↦ !x ⟧",
				Result:  "!x",
			},
		},
	}
	rs, err := Compile(doc)
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, "phi-unfold", rs.Rules()[0].Name)
}

func TestCompileRejectsUnboundReplacementMeta(t *testing.T) {
	doc := &config.RuleDoc{
		Rules: []config.RuleYAML{
			{Name: "bad", Pattern: "⟦ !rest ⟧", Result: "!unbound"},
		},
	}
	_, err := Compile(doc)
	require.Error(t, err)
	var mre *MalformedRuleError
	require.ErrorAs(t, err, &mre)
}

func TestCompileRejectsUnboundNF(t *testing.T) {
	doc := &config.RuleDoc{
		Rules: []config.RuleYAML{
			{
				Name:    "bad-nf",
				Pattern: "⟦ !rest ⟧",
				Result:  "!rest",
				When:    []config.WhenYAML{{NF: []string{"missing"}}},
			},
		},
	}
	_, err := Compile(doc)
	require.Error(t, err)
}

func TestCompilePresentAbsentAttrs(t *testing.T) {
	doc := &config.RuleDoc{
		Rules: []config.RuleYAML{
			{
				Name:    "guarded",
				Pattern: "⟦ !rest, φ ↦ !x ⟧",
				Result:  "!x",
				When: []config.WhenYAML{
					{PresentAttrs: &config.AttrsCondYAML{Attrs: []string{"φ"}, Bindings: "rest"}},
				},
			},
		},
	}
	rs, err := Compile(doc)
	require.NoError(t, err)
	cond := rs.Rules()[0].When[0].(PresentAttrs)
	assert.Equal(t, "rest", cond.Bindings)
}

func TestCompileContextMetaBindsGlobalAndCurrent(t *testing.T) {
	doc := &config.RuleDoc{
		Rules: []config.RuleYAML{
			{
				Name:    "ctxrule",
				Context: &config.ContextYAML{GlobalObject: "g", CurrentObject: "c"},
				Pattern: "!x",
				Result:  "!g",
			},
		},
	}
	_, err := Compile(doc)
	require.NoError(t, err)
}
