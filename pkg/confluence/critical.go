package confluence

import (
	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/rewrite"
)

// Pair is a critical pair: two distinct one-step successors of the
// same source term.
type Pair struct {
	Source phi.Term
	X, Y   phi.Term
}

// CriticalPairs enumerates every unordered pair of distinct successors
// of t under ctx.
func CriticalPairs(t phi.Term, ctx *rewrite.Context) []Pair {
	succs := rewrite.Step(t, ctx)
	var out []Pair
	for i := 0; i < len(succs); i++ {
		for j := i + 1; j < len(succs); j++ {
			if phi.Equal(succs[i], succs[j]) {
				continue
			}
			out = append(out, Pair{Source: t, X: succs[i], Y: succs[j]})
		}
	}
	return out
}
