package dataize

import (
	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/rewrite"
)

// BuiltinFunc evaluates a Lambda-bound formation: self is the formation
// holding the `λ ⤍ Name` binding (plus whatever sibling bindings the
// built-in needs, typically ρ and α0).
type BuiltinFunc func(self *phi.Formation, ctx *rewrite.Context) Value

// Builtins is the small, fixed registry of opaque names the
// interpreter knows how to evaluate: a name-keyed table of typed
// evaluators invoked from the Lambda-carrier branch of Dataize.
var Builtins = map[string]BuiltinFunc{
	"Lorg_eolang_int_plus":  arithmetic(func(a, b int64) int64 { return a + b }),
	"Lorg_eolang_int_minus": arithmetic(func(a, b int64) int64 { return a - b }),
	"Lorg_eolang_int_times": arithmetic(func(a, b int64) int64 { return a * b }),
	"Lorg_eolang_int_div":   arithmetic(func(a, b int64) int64 { return a / b }),
	"Lorg_eolang_int_mod":   arithmetic(func(a, b int64) int64 { return a % b }),
	"Lorg_eolang_int_gt":    predicate(func(a, b int64) bool { return a > b }),
	"Lorg_eolang_int_lt":    predicate(func(a, b int64) bool { return a < b }),
	"Lorg_eolang_int_eq":    predicate(func(a, b int64) bool { return a == b }),
	"Package":               builtinPackage,
}

// operands dataizes the ρ and α0 siblings of self, the two operands
// every binary int built-in needs. ok is false when either side is
// Termination (propagated without invoking the operation) or failed
// to reduce to bytes (left residual, conservatively).
func operands(self *phi.Formation, ctx *rewrite.Context) (a, b int64, result Value, ok bool) {
	rho, hasRho := phi.Find(self.Bindings, phi.Rho())
	arg0, hasArg0 := phi.Find(self.Bindings, phi.Alpha(0))
	if !hasRho || !hasArg0 {
		return 0, 0, ResidualValue(self), false
	}
	rhoAlpha, isAlpha := rho.(phi.AlphaBinding)
	arg0Alpha, isAlpha0 := arg0.(phi.AlphaBinding)
	if !isAlpha || !isAlpha0 {
		return 0, 0, ResidualValue(self), false
	}

	lhs := Dataize(rhoAlpha.Object, ctx)
	if lhs.IsTermination() {
		return 0, 0, lhs, false
	}
	rhs := Dataize(arg0Alpha.Object, ctx)
	if rhs.IsTermination() {
		return 0, 0, rhs, false
	}
	if !lhs.IsBytes() || !rhs.IsBytes() {
		return 0, 0, ResidualValue(self), false
	}
	return phi.DecodeInt(lhs.Bytes), phi.DecodeInt(rhs.Bytes), Value{}, true
}

func arithmetic(op func(a, b int64) int64) BuiltinFunc {
	return func(self *phi.Formation, ctx *rewrite.Context) Value {
		a, b, fallback, ok := operands(self, ctx)
		if !ok {
			return fallback
		}
		return BytesValue(phi.EncodeInt(op(a, b)))
	}
}

func predicate(op func(a, b int64) bool) BuiltinFunc {
	return func(self *phi.Formation, ctx *rewrite.Context) Value {
		a, b, fallback, ok := operands(self, ctx)
		if !ok {
			return fallback
		}
		if op(a, b) {
			return BytesValue([]byte{0x01})
		}
		return BytesValue([]byte{0x00})
	}
}

// builtinPackage dataizes every Alpha sibling in place when the
// ambient dataize-package flag is set, replacing each by a formation
// carrying just its reduced Delta; the λ Package binding itself is
// left untouched. With the flag clear, Package is a no-op. A sibling
// that fails to reduce to bytes is left unchanged — the conservative
// reading where the semantics for this case are underspecified.
func builtinPackage(self *phi.Formation, ctx *rewrite.Context) Value {
	if !ctx.DataizePackage {
		return ResidualValue(self)
	}
	newBindings := make([]phi.Binding, len(self.Bindings))
	for i, b := range self.Bindings {
		ab, ok := b.(phi.AlphaBinding)
		if !ok {
			newBindings[i] = b
			continue
		}
		v := Dataize(ab.Object, ctx)
		if v.IsBytes() {
			newBindings[i] = phi.AlphaBinding{
				Attribute: ab.Attribute,
				Object:    &phi.Formation{Bindings: []phi.Binding{phi.DeltaBinding{Bytes: v.Bytes}}},
			}
			continue
		}
		newBindings[i] = b
	}
	return ResidualValue(&phi.Formation{Bindings: newBindings})
}
