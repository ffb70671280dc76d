package metaphi

// Ruleset is the compiled, ordered, read-only collection of rules a
// context rewrites with. It is safe to share across goroutines once
// Compile returns, since nothing in phinorm mutates a Ruleset after
// compilation.
type Ruleset struct {
	Title string
	rules []*Rule
}

// Rules returns the ordered rule list. The slice is owned by the
// Ruleset; callers must not mutate it.
func (r *Ruleset) Rules() []*Rule { return r.rules }

// Len reports the number of rules.
func (r *Ruleset) Len() int { return len(r.rules) }
