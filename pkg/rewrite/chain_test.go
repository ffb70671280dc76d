package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phi-calculus/phinorm/pkg/config"
	"github.com/phi-calculus/phinorm/pkg/phi"
)

func TestChainEnumeratesLayersUntilNormalForm(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	term := mustParsePattern(t, "⟦ p ↦ ⟦ a ↦ ∅, x ↦ ⟦ ⟧ ⟧, q ↦ ⟦ a ↦ ∅, y ↦ ⟦ ⟧ ⟧ ⟧")

	chain := NewChain(term, ctx)
	var layers []*ChainNode
	for {
		node, ok := chain.Next()
		if !ok {
			break
		}
		layers = append(layers, node)
	}

	require.Len(t, layers, 3) // root, one step each, converged result
	assert.Len(t, layers[0].Terms, 1)
	assert.Len(t, layers[1].Terms, 2) // two independent positions fire in either order
	assert.Len(t, layers[2].Terms, 1) // both converge to the same normal form
	assert.True(t, phi.Equal(layers[2].Terms[0], mustParsePattern(t, "⟦ p ↦ ⟦ x ↦ ⟦ ⟧ ⟧, q ↦ ⟦ y ↦ ⟦ ⟧ ⟧ ⟧")))

	stats := chain.Stats()
	assert.Equal(t, 3, stats.TotalSteps)
	assert.False(t, stats.ChainTruncated)
}

func TestChainRespectsMaxChainLength(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	ctx.MaxChainLength = 1
	term := mustParsePattern(t, "⟦ p ↦ ⟦ a ↦ ∅, x ↦ ⟦ ⟧ ⟧, q ↦ ⟦ a ↦ ∅, y ↦ ⟦ ⟧ ⟧ ⟧")

	chain := NewChain(term, ctx)
	_, _ = chain.Next() // root layer
	_, ok := chain.Next()
	assert.False(t, ok)
	assert.True(t, chain.Stats().ChainTruncated)
}

func TestLeftmostReachesNormalForm(t *testing.T) {
	rs := dropEmptyRuleset(t)
	ctx := NewContext(rs, nil)
	term := mustParsePattern(t, "⟦ p ↦ ⟦ a ↦ ∅, x ↦ ⟦ ⟧ ⟧, q ↦ ⟦ a ↦ ∅, y ↦ ⟦ ⟧ ⟧ ⟧")

	result, stats := Leftmost(term, ctx)
	assert.True(t, phi.Equal(result, mustParsePattern(t, "⟦ p ↦ ⟦ x ↦ ⟦ ⟧ ⟧, q ↦ ⟦ y ↦ ⟦ ⟧ ⟧ ⟧")))
	assert.Equal(t, 2, stats.TotalSteps)
	assert.Equal(t, 2, stats.StepsByRule["drop-a-empty"])
}

func TestLeftmostDetectsCycle(t *testing.T) {
	rs := compileRuleset(t, &config.RuleDoc{
		Title: "swap",
		Rules: []config.RuleYAML{
			{
				Name:    "swap-labels",
				Pattern: "⟦ a ↦ !x, b ↦ !y ⟧",
				Result:  "⟦ a ↦ !y, b ↦ !x ⟧",
			},
		},
	})
	ctx := NewContext(rs, nil)
	term := mustParsePattern(t, "⟦ a ↦ ⟦ one ↦ ∅ ⟧, b ↦ ⟦ two ↦ ∅ ⟧ ⟧")

	_, stats := Leftmost(term, ctx)
	assert.True(t, stats.ChainTruncated)
}
