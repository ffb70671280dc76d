package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phi-calculus/phinorm/pkg/phi"
)

func TestParseFormationRoundTrip(t *testing.T) {
	src := "⟦ a ↦ ⟦ Δ ⤍ 00-01 ⟧, b ↦ ∅ ⟧"
	term, err := Parse(src)
	require.NoError(t, err)

	f, ok := term.(*phi.Formation)
	require.True(t, ok)
	require.Len(t, f.Bindings, 2)

	again, err := Parse(phi.Print(term))
	require.NoError(t, err)
	assert.True(t, phi.Equal(term, again))
}

func TestParseProgramWrapper(t *testing.T) {
	src := "{ ⟦ a ↦ ξ.ρ.c ⟧ }"
	term, err := Parse(src)
	require.NoError(t, err)
	_, ok := term.(*phi.Formation)
	assert.True(t, ok)
}

func TestParseApplicationAndDispatch(t *testing.T) {
	term, err := Parse("⟦ a ↦ ξ.b(c ↦ ⟦ ⟧).d ⟧")
	require.NoError(t, err)
	f := term.(*phi.Formation)
	ab := f.Bindings[0].(phi.AlphaBinding)
	disp, ok := ab.Object.(*phi.Dispatch)
	require.True(t, ok)
	assert.Equal(t, "d", disp.Attr.Label)
}

func TestParsePatternMeta(t *testing.T) {
	term, err := ParsePattern("⟦ !rest, a ↦ !x ⟧")
	require.NoError(t, err)
	f := term.(*phi.Formation)
	_, ok := f.Bindings[0].(phi.MetaBindings)
	assert.True(t, ok)
}

func TestParseRejectsMetaOutsidePatterns(t *testing.T) {
	_, err := Parse("⟦ !x ⟧")
	assert.Error(t, err)
}

func TestParseByteLiteralEmpty(t *testing.T) {
	term, err := Parse("⟦ Δ ⤍  ⟧")
	require.NoError(t, err)
	f := term.(*phi.Formation)
	d := f.Bindings[0].(phi.DeltaBinding)
	assert.Empty(t, d.Bytes)
}

func TestParseErrorLocation(t *testing.T) {
	_, err := Parse("⟦ a ↦ ⟧")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
