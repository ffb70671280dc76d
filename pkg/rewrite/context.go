// Package rewrite implements the matcher, substitutor, and rewrite
// driver: unifying a pattern against a subterm, applying substitution,
// enumerating every position x rule that applies to a term, and
// detecting normal form.
package rewrite

import (
	"go.uber.org/zap"

	"github.com/phi-calculus/phinorm/pkg/metaphi"
	"github.com/phi-calculus/phinorm/pkg/phi"
)

// Context carries the compiled ruleset, the path of enclosing terms
// from the root (oldest first), the current attribute under which the
// innermost enclosing formation was entered, and the dataize-package
// scoped flag. Context is a value passed into each
// call; scoped mutations (clearing a flag on descent) produce a new
// Context rather than mutating a shared one, so restoring on exit is
// simply "use the Context from before the call."
type Context struct {
	Ruleset        *metaphi.Ruleset
	Path           []phi.Term
	CurrentAttr    phi.Attribute
	DataizePackage bool

	// MaxChainLength and MaxSize bound exploration;
	// zero means "use the package defaults."
	MaxChainLength int
	MaxSize        int

	Log *zap.Logger
}

const (
	DefaultMaxChainLength = 10_000
	DefaultMaxSize        = 100_000
)

// NewContext builds a root Context over rs. log may be nil, meaning
// silent.
func NewContext(rs *metaphi.Ruleset, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{Ruleset: rs, Log: log, MaxChainLength: DefaultMaxChainLength, MaxSize: DefaultMaxSize}
}

// Enter returns a new Context descended into child under attr, with
// dataizePackage left unchanged (callers that need to clear it use
// WithDataizePackage).
func (c *Context) Enter(child phi.Term, attr phi.Attribute) *Context {
	next := *c
	path := make([]phi.Term, len(c.Path)+1)
	copy(path, c.Path)
	path[len(path)-1] = child
	next.Path = path
	next.CurrentAttr = attr
	return &next
}

// WithDataizePackage returns a Context with the dataize-package flag
// set to v, leaving everything else the same. Used by the dataization
// interpreter when descending into an Application/Dispatch head (flag
// cleared) and when returning (flag restored to the caller's own
// Context, which it still holds).
func (c *Context) WithDataizePackage(v bool) *Context {
	next := *c
	next.DataizePackage = v
	return &next
}

// Self returns the innermost enclosing formation, if any (used by
// rules/builtins that resolve σ/ρ).
func (c *Context) Self() (phi.Term, bool) {
	if len(c.Path) == 0 {
		return nil, false
	}
	return c.Path[len(c.Path)-1], true
}
