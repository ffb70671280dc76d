// Package dataize implements the dataization interpreter: reducing a
// normalized φ-term to a byte value where possible, or a residual term
// where not, via a small registry of named built-ins.
package dataize

import (
	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/rewrite"
)

// Value is the result of dataizing a term: either bytes, or a residual
// term the interpreter could not reduce further. Residual == nil
// signals bytes; otherwise Bytes is nil and Residual holds the term.
type Value struct {
	Bytes    []byte
	Residual phi.Term
}

// BytesValue wraps a concrete byte result.
func BytesValue(b []byte) Value { return Value{Bytes: b} }

// ResidualValue wraps an irreducible term.
func ResidualValue(t phi.Term) Value { return Value{Residual: t} }

// IsBytes reports whether v holds a concrete byte value.
func (v Value) IsBytes() bool { return v.Residual == nil }

// IsTermination reports whether v residualized to the stuck term.
func (v Value) IsTermination() bool {
	if v.IsBytes() {
		return false
	}
	_, ok := v.Residual.(phi.Termination)
	return ok
}

// maxIterations bounds the Application/Dispatch re-wrap loop of step 2
// against non-terminating rulesets, independent of rewrite.Context's
// own chain-length bound.
const maxIterations = 10_000

// Dataize computes the value of t under ctx: drive to normal form, inspect the shape,
// recurse as required, and stop at a fixpoint.
func Dataize(t phi.Term, ctx *rewrite.Context) Value {
	cur := t
	for i := 0; i < maxIterations; i++ {
		normalized, _ := rewrite.Leftmost(cur, ctx)

		switch v := normalized.(type) {
		case phi.Termination:
			return ResidualValue(v)

		case *phi.Formation:
			if d, ok := phi.FindDelta(v); ok && !phi.HasEmpty(v) {
				return BytesValue(d.Bytes)
			}
			if l, ok := phi.FindLambda(v); ok && !phi.HasEmpty(v) {
				fn, known := Builtins[l.Name]
				if !known {
					return ResidualValue(v)
				}
				return fn(v, ctx)
			}
			if ab, ok := findAlphaPhi(v); ok && !phi.HasEmpty(v) {
				childCtx := ctx.Enter(v, phi.Phi())
				return Dataize(ab.Object, childCtx)
			}
			return ResidualValue(v)

		case *phi.Application:
			head := Dataize(v.Fun, ctx.WithDataizePackage(false))
			newFun := headTerm(head)
			rewrapped := &phi.Application{Fun: newFun, Bindings: v.Bindings}
			if phi.Equal(rewrapped, cur) {
				return ResidualValue(rewrapped)
			}
			cur = rewrapped
			continue

		case *phi.Dispatch:
			head := Dataize(v.Receiver, ctx.WithDataizePackage(false))
			newRecv := headTerm(head)
			rewrapped := &phi.Dispatch{Receiver: newRecv, Attr: v.Attr}
			if phi.Equal(rewrapped, cur) {
				return ResidualValue(rewrapped)
			}
			cur = rewrapped
			continue

		default:
			return ResidualValue(normalized)
		}
	}
	return ResidualValue(cur)
}

func headTerm(v Value) phi.Term {
	if v.IsBytes() {
		return &phi.Formation{Bindings: []phi.Binding{phi.DeltaBinding{Bytes: v.Bytes}}}
	}
	return v.Residual
}

func findAlphaPhi(f *phi.Formation) (phi.AlphaBinding, bool) {
	for _, b := range f.Bindings {
		if ab, ok := b.(phi.AlphaBinding); ok && ab.Attribute.Kind == phi.AttrPhi {
			return ab, true
		}
	}
	return phi.AlphaBinding{}, false
}
