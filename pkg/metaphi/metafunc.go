package metaphi

import "github.com/phi-calculus/phinorm/pkg/phi"

// MetaFunc executes a meta-function at substitution time. arg is the
// already-substituted argument term (nil if the meta-function took
// none); bindings is the bindings-sequence of the formation currently
// being rewritten, for meta-functions that need to inspect siblings
// (e.g. "fetch a binding by attribute").
type MetaFunc func(arg phi.Term, bindings []phi.Binding) (phi.Term, error)

// Registry is the small, fixed, extensible set of meta-functions the
// engine supports. Unknown meta-functions fail rule compilation; at
// substitution time a lookup miss is a registry bug, not a
// data-dependent failure, so Substitute panics rather than returning
// an error for it.
var Registry = map[string]MetaFunc{
	"attr": metaFuncAttr,
	"fresh-alpha": metaFuncFreshAlpha,
}

// Known reports whether name is a registered meta-function.
func Known(name string) bool {
	_, ok := Registry[name]
	return ok
}

// metaFuncAttr implements `@attr(!x)`: forces resolution of an
// already-substituted argument, for replacements built from a pattern
// dispatch like `!x.label` where the matcher has already done the
// lookup structurally.
func metaFuncAttr(arg phi.Term, bindings []phi.Binding) (phi.Term, error) {
	if arg == nil {
		return nil, &MalformedRuleError{Rule: "@attr", Reason: "missing argument"}
	}
	return arg, nil
}

// metaFuncFreshAlpha computes a fresh α-index one past the highest
// α-index already present among bindings, for replacements that append
// a new positional argument.
func metaFuncFreshAlpha(arg phi.Term, bindings []phi.Binding) (phi.Term, error) {
	max := -1
	for _, b := range bindings {
		attr := b.Attr()
		if attr.Kind == phi.AttrAlpha && attr.Index > max {
			max = attr.Index
		}
	}
	return &phi.Formation{Bindings: []phi.Binding{
		phi.DeltaBinding{Bytes: phi.EncodeInt(int64(max + 1))},
	}}, nil
}
