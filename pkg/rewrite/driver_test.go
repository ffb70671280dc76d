package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phi-calculus/phinorm/pkg/config"
	"github.com/phi-calculus/phinorm/pkg/metaphi"
	"github.com/phi-calculus/phinorm/pkg/phi"
)

func compileRuleset(t *testing.T, doc *config.RuleDoc) *metaphi.Ruleset {
	t.Helper()
	rs, err := metaphi.Compile(doc)
	require.NoError(t, err)
	return rs
}

// dropEmptyRuleset turns `⟦ a ↦ ∅, !!rest ⟧` into `⟦ !!rest ⟧`, i.e. it
// drops a single named Empty binding wherever it appears in a
// formation — a minimal rule exercising MetaBindings substitution.
func dropEmptyRuleset(t *testing.T) *metaphi.Ruleset {
	return compileRuleset(t, &config.RuleDoc{
		Title: "drop-empty",
		Rules: []config.RuleYAML{
			{
				Name:    "drop-a-empty",
				Pattern: "⟦ a ↦ ∅, !!rest ⟧",
				Result:  "⟦ !!rest ⟧",
			},
		},
	})
}

func TestStepRootPosition(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	term := mustParsePattern(t, "⟦ a ↦ ∅, b ↦ ⟦ ⟧ ⟧")

	succs := Step(term, ctx)
	require.Len(t, succs, 1)
	assert.True(t, phi.Equal(succs[0], mustParsePattern(t, "⟦ b ↦ ⟦ ⟧ ⟧")))
}

func TestStepDescendsIntoChildrenWhenRootHasNoMatch(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	term := mustParsePattern(t, "⟦ outer ↦ ⟦ a ↦ ∅, b ↦ ⟦ ⟧ ⟧ ⟧")

	succs := Step(term, ctx)
	require.Len(t, succs, 1)
	assert.True(t, phi.Equal(succs[0], mustParsePattern(t, "⟦ outer ↦ ⟦ b ↦ ⟦ ⟧ ⟧ ⟧")))
}

func TestStepTraversesApplicationFunBeforeBindings(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	// Both the function position and an Alpha-binding payload match;
	// traversal order (§4.4) puts the function's successor first.
	term := mustParsePattern(t, "⟦ a ↦ ∅, b ↦ ⟦ ⟧ ⟧(x ↦ ⟦ a ↦ ∅, c ↦ ⟦ ⟧ ⟧)")

	succs := Step(term, ctx)
	require.Len(t, succs, 2)
	assert.True(t, phi.Equal(succs[0], mustParsePattern(t, "⟦ b ↦ ⟦ ⟧ ⟧(x ↦ ⟦ a ↦ ∅, c ↦ ⟦ ⟧ ⟧)")))
	assert.True(t, phi.Equal(succs[1], mustParsePattern(t, "⟦ a ↦ ∅, b ↦ ⟦ ⟧ ⟧(x ↦ ⟦ c ↦ ⟦ ⟧ ⟧)")))
}

func TestNormalFormHasNoSuccessors(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	assert.True(t, NormalForm(mustParsePattern(t, "⟦ b ↦ ⟦ ⟧ ⟧"), ctx))
	assert.False(t, NormalForm(mustParsePattern(t, "⟦ a ↦ ∅ ⟧"), ctx))
}

// Every successor's size is bounded by the root's size plus the
// ruleset's maximum replacement size.
func TestPropertySuccessorSizeBounded(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	term := mustParsePattern(t, "⟦ outer ↦ ⟦ a ↦ ∅, b ↦ ⟦ ⟧ ⟧ ⟧")
	rootSize := phi.Size(term)
	maxReplacementSize := phi.Size(mustParsePattern(t, "⟦ !!rest ⟧"))

	for _, succ := range Step(term, ctx) {
		assert.LessOrEqual(t, phi.Size(succ), rootSize+maxReplacementSize)
	}
}

// Step(t) is finite — trivially true of a slice, but also true of a
// ruleset that could in principle loop across recursive positions; this
// exercises a term with several eligible positions.
func TestPropertyStepIsFinite(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	term := mustParsePattern(t, "⟦ p ↦ ⟦ a ↦ ∅, x ↦ ⟦ ⟧ ⟧, q ↦ ⟦ a ↦ ∅, y ↦ ⟦ ⟧ ⟧ ⟧")
	succs := Step(term, ctx)
	assert.Len(t, succs, 2)
}

// The step relation is invariant under binding reordering.
func TestPropertyStepInvariantUnderReordering(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	a := mustParsePattern(t, "⟦ a ↦ ∅, b ↦ ⟦ ⟧ ⟧")
	b := mustParsePattern(t, "⟦ b ↦ ⟦ ⟧, a ↦ ∅ ⟧")

	require.True(t, phi.Equal(a, b))
	succA := Step(a, ctx)
	succB := Step(b, ctx)
	require.Len(t, succA, 1)
	require.Len(t, succB, 1)
	assert.True(t, phi.Equal(succA[0], succB[0]))
}

// copyCallRuleset mirrors testdata/rulesets/yegor.yaml's copy-call rule:
// applying an object with an argument bound to an attribute it already
// declares replaces that attribute's payload.
func copyCallRuleset(t *testing.T) *metaphi.Ruleset {
	return compileRuleset(t, &config.RuleDoc{
		Title: "copy-call",
		Rules: []config.RuleYAML{
			{
				Name:    "copy-call",
				Pattern: "⟦ !name ↦ !old, !!rest ⟧(!name ↦ !new)",
				Result:  "⟦ !name ↦ !new, !!rest ⟧",
			},
		},
	})
}

// The step relation is invariant under binding reordering even when the
// firing rule's matched attribute is an unbound meta-variable: the
// target attribute's position among its same-kind siblings must not
// affect whether the rule fires.
func TestPropertyStepInvariantUnderReorderingWithMetaAttribute(t *testing.T) {
	rs := copyCallRuleset(t)
	ctx := NewContext(rs, nil)
	a := mustParsePattern(t, "⟦ other ↦ ⟦ ⟧, c ↦ ⟦ y ↦ ∅ ⟧ ⟧(c ↦ ⟦ z ↦ ∅ ⟧)")
	b := mustParsePattern(t, "⟦ c ↦ ⟦ y ↦ ∅ ⟧, other ↦ ⟦ ⟧ ⟧(c ↦ ⟦ z ↦ ∅ ⟧)")

	require.True(t, phi.Equal(a, b))
	succA := Step(a, ctx)
	succB := Step(b, ctx)
	require.Len(t, succA, 1)
	require.Len(t, succB, 1)
	assert.True(t, phi.Equal(succA[0], succB[0]))
	assert.True(t, phi.Equal(succA[0], mustParsePattern(t, "⟦ c ↦ ⟦ z ↦ ∅ ⟧, other ↦ ⟦ ⟧ ⟧")))
}

func TestNFConditionBlocksUntilSubtermNormalizes(t *testing.T) {
	rs := compileRuleset(t, &config.RuleDoc{
		Title: "nf-guarded",
		Rules: []config.RuleYAML{
			{
				Name:    "strip-a-empty",
				Pattern: "⟦ a ↦ ∅, !!rest ⟧",
				Result:  "⟦ !!rest ⟧",
			},
			{
				Name:    "finalize",
				Pattern: "⟦ wrapped ↦ !x, !!rest ⟧",
				Result:  "⟦ done ↦ !x, !!rest ⟧",
				When:    []config.WhenYAML{{NF: []string{"x"}}},
			},
		},
	})
	ctx := NewContext(rs, nil)

	stillReducible := mustParsePattern(t, "⟦ wrapped ↦ ⟦ a ↦ ∅ ⟧ ⟧")
	succs := Step(stillReducible, ctx)
	require.Len(t, succs, 1, "only strip-a-empty fires; finalize's nf guard blocks it")
	assert.True(t, phi.Equal(succs[0], mustParsePattern(t, "⟦ wrapped ↦ ⟦ ⟧ ⟧")))

	alreadyNormal := mustParsePattern(t, "⟦ wrapped ↦ ⟦ ⟧ ⟧")
	succs2 := Step(alreadyNormal, ctx)
	require.Len(t, succs2, 1)
	assert.True(t, phi.Equal(succs2[0], mustParsePattern(t, "⟦ done ↦ ⟦ ⟧ ⟧")))
}

func TestPresentAbsentAttrConditions(t *testing.T) {
	rs := compileRuleset(t, &config.RuleDoc{
		Title: "present-absent",
		Rules: []config.RuleYAML{
			{
				Name:    "mark-decidable",
				Pattern: "⟦ !!rest ⟧",
				Result:  "⟦ marked ↦ ⟦ ⟧, !!rest ⟧",
				When: []config.WhenYAML{
					{PresentAttrs: &config.AttrsCondYAML{Attrs: []string{"φ"}, Bindings: "rest"}},
					{AbsentAttrs: &config.AttrsCondYAML{Attrs: []string{"marked"}, Bindings: "rest"}},
				},
			},
		},
	})
	ctx := NewContext(rs, nil)

	hasPhi := mustParsePattern(t, "⟦ φ ↦ ξ ⟧")
	succs := Step(hasPhi, ctx)
	require.Len(t, succs, 1)
	assert.True(t, phi.Equal(succs[0], mustParsePattern(t, "⟦ marked ↦ ⟦ ⟧, φ ↦ ξ ⟧")))

	lacksPhi := mustParsePattern(t, "⟦ a ↦ ⟦ ⟧ ⟧")
	assert.Empty(t, Step(lacksPhi, ctx))

	alreadyMarked := mustParsePattern(t, "⟦ marked ↦ ⟦ ⟧, φ ↦ ξ ⟧")
	assert.Empty(t, Step(alreadyMarked, ctx))
}
