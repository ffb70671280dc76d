package confluence

import (
	"sort"

	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/rewrite"
)

// JoinConfig bounds the joinability search.
type JoinConfig struct {
	MaxDepth int
	MaxSize  int
}

// DefaultJoinConfig bounds the search to depth ≤ 7, per-term size ≤ 30.
func DefaultJoinConfig() JoinConfig {
	return JoinConfig{MaxDepth: 7, MaxSize: 30}
}

// descendantsLayers returns, for i in [0, cfg.MaxDepth], the set of
// terms reachable from t in exactly i steps — descendantsₙ(t)
// level-by-level.
func descendantsLayers(t phi.Term, ctx *rewrite.Context, cfg JoinConfig) [][]phi.Term {
	bounded := *ctx
	bounded.MaxSize = cfg.MaxSize
	chain := rewrite.NewChain(t, &bounded)
	var layers [][]phi.Term
	for len(layers) <= cfg.MaxDepth {
		node, ok := chain.Next()
		if !ok {
			break
		}
		layers = append(layers, node.Terms)
	}
	return layers
}

// Joinable performs a bounded joinability search: enumerate
// descendantsₙ(x) and descendantsₙ(y) level-by-level, pair them in
// lexicographic level order (ascending total depth, then ascending
// x-depth), and report the first structurally equal overlap.
func Joinable(x, y phi.Term, ctx *rewrite.Context, cfg JoinConfig) (phi.Term, bool) {
	lx := descendantsLayers(x, ctx, cfg)
	ly := descendantsLayers(y, ctx, cfg)

	type level struct{ i, j int }
	var levels []level
	for i := range lx {
		for j := range ly {
			levels = append(levels, level{i, j})
		}
	}
	sort.Slice(levels, func(a, b int) bool {
		sa, sb := levels[a].i+levels[a].j, levels[b].i+levels[b].j
		if sa != sb {
			return sa < sb
		}
		return levels[a].i < levels[b].i
	})

	for _, lv := range levels {
		for _, tx := range lx[lv.i] {
			for _, ty := range ly[lv.j] {
				if phi.Equal(tx, ty) {
					return tx, true
				}
			}
		}
	}
	return nil, false
}
