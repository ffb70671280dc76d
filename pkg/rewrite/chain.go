package rewrite

import "github.com/phi-calculus/phinorm/pkg/phi"

// Stats accumulates rewrite-driver counters over a chain or a leftmost
// reduction: per-rule step counts and the reasons a search stopped
// short.
type Stats struct {
	StepsByRule     map[string]int
	TotalSteps      int
	MaxDepthReached int
	MaxSizeReached  bool
	ChainTruncated  bool
}

func newStats() *Stats {
	return &Stats{StepsByRule: map[string]int{}}
}

func (s *Stats) recordStep(ruleName string, depth int) {
	s.StepsByRule[ruleName]++
	s.TotalSteps++
	if depth > s.MaxDepthReached {
		s.MaxDepthReached = depth
	}
}

// ChainNode is one layer of the breadth-layered chain: the terms
// reachable at exactly this many steps from the root, together with
// the rule name that produced each one (empty for the root layer).
type ChainNode struct {
	Terms     []phi.Term
	RuleNames []string
	Depth     int
}

// Chain lazily enumerates the breadth-layered sequence of reachable
// terms from root: layer 0 is {root}, layer k+1 is every
// one-step successor of every term in layer k, deduplicated by
// structural equality within the layer. Successors larger than MaxSize
// are dropped from a layer without being recorded in Stats. Enumeration
// stops when a layer is empty (every term in the prior layer was in
// normal form or had only oversized successors), or when the total step
// count would exceed MaxChainLength, which sets Stats.ChainTruncated.
type Chain struct {
	ctx     *Context
	current []phi.Term
	depth   int
	stats   *Stats
	done    bool
}

// NewChain starts a chain rooted at t.
func NewChain(t phi.Term, ctx *Context) *Chain {
	return &Chain{ctx: ctx, current: []phi.Term{t}, stats: newStats()}
}

// Next advances to the following layer, returning it and whether one
// was produced. A false return means the chain is exhausted: either
// the last layer produced no successors within MaxSize, or the
// MaxChainLength bound was hit (Stats.ChainTruncated).
func (c *Chain) Next() (*ChainNode, bool) {
	if c.done {
		return nil, false
	}

	if c.depth == 0 {
		node := &ChainNode{Terms: c.current, RuleNames: make([]string, len(c.current)), Depth: 0}
		c.depth++
		return node, true
	}

	maxChain := c.ctx.MaxChainLength
	if maxChain == 0 {
		maxChain = DefaultMaxChainLength
	}

	var next []namedSuccessor
	for _, t := range c.current {
		next = append(next, stepNamed(t, c.ctx)...)
	}

	if len(next) == 0 {
		c.done = true
		return nil, false
	}

	deduped := make([]phi.Term, 0, len(next))
	ruleNames := make([]string, 0, len(next))
	for _, s := range next {
		seen := false
		for _, d := range deduped {
			if phi.Equal(d, s.Term) {
				seen = true
				break
			}
		}
		if seen {
			continue
		}
		deduped = append(deduped, s.Term)
		ruleNames = append(ruleNames, s.Rule)
	}

	if c.stats.TotalSteps+len(ruleNames) > maxChain {
		c.stats.ChainTruncated = true
		c.done = true
		return nil, false
	}

	for _, rn := range ruleNames {
		c.stats.recordStep(rn, c.depth)
	}

	node := &ChainNode{Terms: deduped, RuleNames: ruleNames, Depth: c.depth}
	c.current = deduped
	c.depth++
	return node, true
}

// Stats returns the accumulated statistics so far.
func (c *Chain) Stats() *Stats { return c.stats }

// Leftmost drives the chain along the single leftmost-first successor
// at each layer — Step's traversal order already enumerates root
// before children and children left-to-right, so the first element of
// Step's result is the leftmost one-step reduct — until normal form, a
// cycle (revisiting a structurally equal term), or a bound is reached.
// This is the `--single` reduction path of the CLI.
func Leftmost(t phi.Term, ctx *Context) (phi.Term, *Stats) {
	stats := newStats()
	seen := []phi.Term{t}
	cur := t
	depth := 0
	maxChain := ctx.MaxChainLength
	if maxChain == 0 {
		maxChain = DefaultMaxChainLength
	}

	for {
		succs := stepNamed(cur, ctx)
		if len(succs) == 0 {
			return cur, stats
		}
		next := succs[0].Term
		ruleName := succs[0].Rule
		if ctx.MaxSize > 0 && phi.Size(next) > ctx.MaxSize {
			stats.MaxSizeReached = true
			return cur, stats
		}
		depth++
		stats.recordStep(ruleName, depth)
		if stats.TotalSteps >= maxChain {
			stats.ChainTruncated = true
			return next, stats
		}
		for _, s := range seen {
			if phi.Equal(s, next) {
				stats.ChainTruncated = true
				return next, stats
			}
		}
		seen = append(seen, next)
		cur = next
	}
}
