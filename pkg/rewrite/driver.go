package rewrite

import (
	"go.uber.org/zap"

	"github.com/phi-calculus/phinorm/pkg/metaphi"
	"github.com/phi-calculus/phinorm/pkg/phi"
)

// namedSuccessor is one one-step successor together with the name of
// the rule that produced it, for Stats attribution.
type namedSuccessor struct {
	Term phi.Term
	Rule string
}

// NamedSuccessor is namedSuccessor's exported form, for callers (such as
// cmd/phinorm's --chain reporting) that need to know which rule produced
// each successor.
type NamedSuccessor struct {
	Term phi.Term
	Rule string
}

// StepNamed is Step, but tagging each successor with the name of the
// rule that produced it.
func StepNamed(t phi.Term, ctx *Context) []NamedSuccessor {
	named := stepNamed(t, ctx)
	out := make([]NamedSuccessor, len(named))
	for i, n := range named {
		out[i] = NamedSuccessor{Term: n.Term, Rule: n.Rule}
	}
	return out
}

// Step yields the ordered sequence of terms obtained by applying every
// rule at every subterm position of t, in a deterministic traversal
// order: root first, then (for Application) the function followed by
// each argument binding's payload left-to-right, (for Dispatch) the
// receiver, (for Formation) each binding's payload left-to-right. At
// each position, rules are tried in ruleset order; each successful match yields one successor with the patched subterm
// re-inserted in the enclosing context. Step never picks one —
// it returns all, imposing no confluence assumption.
func Step(t phi.Term, ctx *Context) []phi.Term {
	named := stepNamed(t, ctx)
	out := make([]phi.Term, len(named))
	for i, n := range named {
		out[i] = n.Term
	}
	return out
}

// stepNamed is Step's traversal, additionally tagging each successor
// with the name of the rule that produced it (pkg/rewrite/chain.go
// uses the tag for Stats; Step itself discards it).
func stepNamed(t phi.Term, ctx *Context) []namedSuccessor {
	var out []namedSuccessor
	out = append(out, applyRulesAt(t, ctx)...)

	switch v := t.(type) {
	case *phi.Application:
		for _, succ := range stepNamed(v.Fun, ctx) {
			out = append(out, boundedAppend(&phi.Application{Fun: succ.Term, Bindings: v.Bindings}, succ.Rule, ctx)...)
		}
		for i, b := range v.Bindings {
			ab, ok := b.(phi.AlphaBinding)
			if !ok {
				continue
			}
			childCtx := ctx.Enter(t, ab.Attribute)
			for _, succ := range stepNamed(ab.Object, childCtx) {
				newBindings := cloneBindings(v.Bindings)
				newBindings[i] = phi.AlphaBinding{Attribute: ab.Attribute, Object: succ.Term}
				out = append(out, boundedAppend(&phi.Application{Fun: v.Fun, Bindings: newBindings}, succ.Rule, ctx)...)
			}
		}

	case *phi.Dispatch:
		for _, succ := range stepNamed(v.Receiver, ctx) {
			out = append(out, boundedAppend(&phi.Dispatch{Receiver: succ.Term, Attr: v.Attr}, succ.Rule, ctx)...)
		}

	case *phi.Formation:
		for i, b := range v.Bindings {
			ab, ok := b.(phi.AlphaBinding)
			if !ok {
				continue
			}
			childCtx := ctx.Enter(t, ab.Attribute)
			for _, succ := range stepNamed(ab.Object, childCtx) {
				newBindings := cloneBindings(v.Bindings)
				newBindings[i] = phi.AlphaBinding{Attribute: ab.Attribute, Object: succ.Term}
				out = append(out, boundedAppend(&phi.Formation{Bindings: newBindings}, succ.Rule, ctx)...)
			}
		}
	}

	return out
}

func boundedAppend(t phi.Term, rule string, ctx *Context) []namedSuccessor {
	if ctx.MaxSize > 0 && phi.Size(t) > ctx.MaxSize {
		return nil
	}
	return []namedSuccessor{{Term: t, Rule: rule}}
}

func cloneBindings(b []phi.Binding) []phi.Binding {
	out := make([]phi.Binding, len(b))
	copy(out, b)
	return out
}

// NormalForm reports whether t has no applicable step under ctx.
func NormalForm(t phi.Term, ctx *Context) bool {
	return len(Step(t, ctx)) == 0
}

func applyRulesAt(t phi.Term, ctx *Context) []namedSuccessor {
	if ctx.Ruleset == nil {
		return nil
	}
	var out []namedSuccessor
	for _, rule := range ctx.Ruleset.Rules() {
		for _, result := range ApplyRule(rule, t, ctx) {
			out = append(out, namedSuccessor{Term: result, Rule: rule.Name})
		}
	}
	return out
}

// ApplyRule matches rule's pattern against t, evaluates its side
// conditions, and substitutes into its replacement for every
// successful, condition-passing match — the single-rule, single-
// position core that applyRulesAt fans out across a whole ruleset.
// Exported for cmd/phinorm's ruletest subcommand, which runs one rule's
// declarative self-tests in isolation.
func ApplyRule(rule *metaphi.Rule, t phi.Term, ctx *Context) []phi.Term {
	var out []phi.Term
	for _, sub := range Match(rule.Pattern, t) {
		if !evalConditions(rule, sub, ctx) {
			continue
		}
		bound := bindRuleContext(rule, sub, t)
		result, err := Substitute(rule.Replacement, bound, ctx, bindingsOf(t))
		if err != nil {
			continue
		}
		if ctx.MaxSize > 0 && phi.Size(result) > ctx.MaxSize {
			continue
		}
		if ctx.Log != nil {
			ctx.Log.Debug("rule fired", zap.String("rule", rule.Name))
		}
		out = append(out, result)
	}
	return out
}

func bindRuleContext(rule *metaphi.Rule, sub Substitution, t phi.Term) Substitution {
	if rule.Context == nil {
		return sub
	}
	next := sub.clone()
	if rule.Context.GlobalMeta != "" {
		next.Objects[rule.Context.GlobalMeta] = phi.Global{}
	}
	if rule.Context.CurrentMeta != "" {
		next.Objects[rule.Context.CurrentMeta] = t
	}
	return next
}

func bindingsOf(t phi.Term) []phi.Binding {
	switch v := t.(type) {
	case *phi.Formation:
		return v.Bindings
	case *phi.Application:
		return v.Bindings
	default:
		return nil
	}
}

// evalConditions evaluates every side condition of rule against sub.
func evalConditions(rule *metaphi.Rule, sub Substitution, ctx *Context) bool {
	for _, c := range rule.When {
		if !EvalCondition(c, sub, ctx) {
			return false
		}
	}
	return true
}

// EvalCondition implements the three side-condition kinds. nf is
// intentionally fixpoint-coupled: it calls back into Step
// under the same ruleset, so a rule conditioned on nf behaves
// reflexively correctly when added to its own ruleset.
func EvalCondition(c metaphi.Condition, sub Substitution, ctx *Context) bool {
	switch cond := c.(type) {
	case metaphi.NF:
		term, ok := sub.Objects[cond.Meta]
		if !ok {
			return false
		}
		return NormalForm(term, ctx)
	case metaphi.PresentAttrs:
		seq, ok := sub.Bindings[cond.Bindings]
		if !ok {
			return false
		}
		for _, ref := range cond.Attrs {
			attr, ok := resolveAttrRef(ref, sub)
			if !ok {
				return false
			}
			if _, found := phi.Find(seq, attr); !found {
				return false
			}
		}
		return true
	case metaphi.AbsentAttrs:
		seq, ok := sub.Bindings[cond.Bindings]
		if !ok {
			return false
		}
		for _, ref := range cond.Attrs {
			attr, ok := resolveAttrRef(ref, sub)
			if !ok {
				continue
			}
			if _, found := phi.Find(seq, attr); found {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func resolveAttrRef(ref metaphi.AttrRef, sub Substitution) (phi.Attribute, bool) {
	if ref.Literal != nil {
		return *ref.Literal, true
	}
	attr, ok := sub.Attrs[ref.MetaID]
	return attr, ok
}
