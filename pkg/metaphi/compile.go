package metaphi

import (
	"fmt"

	"github.com/phi-calculus/phinorm/pkg/config"
	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/syntax"
)

// MalformedRuleError reports a rule compilation failure: a
// meta-variable used but not bound by the pattern, an nf condition
// naming an unbound meta-variable, or similar.
type MalformedRuleError struct {
	Rule   string
	Reason string
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("malformed rule %q: %s", e.Rule, e.Reason)
}

// Compile compiles a ruleset document into a read-only Ruleset,
// performing four checks for every rule: parse pattern and
// replacement, collect meta-variables, verify every meta-variable used
// in the replacement or side conditions is bound by the pattern, and
// verify nf conditions name pattern-bound meta-variables.
func Compile(doc *config.RuleDoc) (*Ruleset, error) {
	rs := &Ruleset{Title: doc.Title}
	for _, ry := range doc.Rules {
		rule, err := compileRule(ry)
		if err != nil {
			return nil, err
		}
		rs.rules = append(rs.rules, rule)
	}
	return rs, nil
}

func compileRule(ry config.RuleYAML) (*Rule, error) {
	pattern, err := syntax.ParsePattern(ry.Pattern)
	if err != nil {
		return nil, fmt.Errorf("rule %s: pattern: %w", ry.Name, err)
	}
	replacement, err := syntax.ParsePattern(ry.Result)
	if err != nil {
		return nil, fmt.Errorf("rule %s: result: %w", ry.Name, err)
	}

	bound := collectMetaVars(pattern)

	var rctx *RuleContext
	if ry.Context != nil {
		rctx = &RuleContext{GlobalMeta: ry.Context.GlobalObject, CurrentMeta: ry.Context.CurrentObject}
		if rctx.GlobalMeta != "" {
			bound[rctx.GlobalMeta] = true
		}
		if rctx.CurrentMeta != "" {
			bound[rctx.CurrentMeta] = true
		}
	}

	replUsed := collectMetaVars(replacement)
	for id := range replUsed {
		if !bound[id] {
			return nil, &MalformedRuleError{Rule: ry.Name, Reason: "meta-variable !" + id + " used in result but not bound by pattern"}
		}
	}

	for _, name := range collectMetaFuncNames(replacement) {
		if !Known(name) {
			return nil, &MalformedRuleError{Rule: ry.Name, Reason: "unknown meta-function @" + name}
		}
	}

	conditions, err := compileConditions(ry.Name, ry.When, bound)
	if err != nil {
		return nil, err
	}

	tests := make([]RuleTest, len(ry.Tests))
	for i, ty := range ry.Tests {
		tests[i] = RuleTest{Name: ty.Name, Input: ty.Input, Output: ty.Output, Matches: ty.Matches}
	}

	return &Rule{
		Name:        ry.Name,
		Description: ry.Description,
		Pattern:     pattern,
		Replacement: replacement,
		Context:     rctx,
		When:        conditions,
		Tests:       tests,
	}, nil
}

func compileConditions(ruleName string, whens []config.WhenYAML, bound map[string]bool) ([]Condition, error) {
	var out []Condition
	for _, w := range whens {
		switch {
		case len(w.NF) > 0:
			for _, m := range w.NF {
				if !bound[m] {
					return nil, &MalformedRuleError{Rule: ruleName, Reason: "nf condition names unbound meta-variable !" + m}
				}
				out = append(out, NF{Meta: m})
			}
		case w.PresentAttrs != nil:
			attrs, err := compileAttrRefs(ruleName, w.PresentAttrs.Attrs, bound)
			if err != nil {
				return nil, err
			}
			if !bound[w.PresentAttrs.Bindings] {
				return nil, &MalformedRuleError{Rule: ruleName, Reason: "present_attrs names unbound bindings meta-variable !" + w.PresentAttrs.Bindings}
			}
			out = append(out, PresentAttrs{Attrs: attrs, Bindings: w.PresentAttrs.Bindings})
		case w.AbsentAttrs != nil:
			attrs, err := compileAttrRefs(ruleName, w.AbsentAttrs.Attrs, bound)
			if err != nil {
				return nil, err
			}
			if !bound[w.AbsentAttrs.Bindings] {
				return nil, &MalformedRuleError{Rule: ruleName, Reason: "absent_attrs names unbound bindings meta-variable !" + w.AbsentAttrs.Bindings}
			}
			out = append(out, AbsentAttrs{Attrs: attrs, Bindings: w.AbsentAttrs.Bindings})
		default:
			return nil, &MalformedRuleError{Rule: ruleName, Reason: "empty 'when' entry"}
		}
	}
	return out, nil
}

func compileAttrRefs(ruleName string, names []string, bound map[string]bool) ([]AttrRef, error) {
	out := make([]AttrRef, 0, len(names))
	for _, n := range names {
		if len(n) > 0 && n[0] == '!' {
			id := n[1:]
			if !bound[id] {
				return nil, &MalformedRuleError{Rule: ruleName, Reason: "attribute reference !" + id + " not bound by pattern"}
			}
			out = append(out, AttrRef{MetaID: id})
			continue
		}
		attr, err := literalAttr(n)
		if err != nil {
			return nil, &MalformedRuleError{Rule: ruleName, Reason: err.Error()}
		}
		out = append(out, AttrRef{Literal: &attr})
	}
	return out, nil
}

func literalAttr(name string) (phi.Attribute, error) {
	switch name {
	case "φ":
		return phi.Phi(), nil
	case "ρ":
		return phi.Rho(), nil
	case "σ":
		return phi.Sigma(), nil
	case "ν":
		return phi.Nu(), nil
	default:
		if name == "" {
			return phi.Attribute{}, fmt.Errorf("empty attribute name")
		}
		return phi.Label(name), nil
	}
}

// collectMetaVars walks t and returns the set of meta-variable ids
// mentioned, by a MetaObject, a MetaBindings, or a meta-attribute
// (`!id` as a binding's or a dispatch's attribute).
func collectMetaVars(t phi.Term) map[string]bool {
	out := make(map[string]bool)
	attr := func(a phi.Attribute) {
		if a.Kind == phi.AttrLabel && len(a.Label) > 1 && a.Label[0] == '!' {
			out[a.Label[1:]] = true
		}
	}
	var walk func(phi.Term)
	walk = func(t phi.Term) {
		switch v := t.(type) {
		case *phi.MetaObject:
			out[v.ID] = true
		case *phi.MetaFunction:
			if v.Arg != nil {
				walk(v.Arg)
			}
		case *phi.Formation:
			for _, b := range v.Bindings {
				attr(b.Attr())
				walkBinding(b, out, walk)
			}
		case *phi.Application:
			walk(v.Fun)
			for _, b := range v.Bindings {
				attr(b.Attr())
				walkBinding(b, out, walk)
			}
		case *phi.Dispatch:
			attr(v.Attr)
			walk(v.Receiver)
		}
	}
	walk(t)
	return out
}

// collectMetaFuncNames walks t and returns every meta-function name
// mentioned, for the unknown-meta-function compile-time check.
func collectMetaFuncNames(t phi.Term) []string {
	var out []string
	var walk func(phi.Term)
	walk = func(t phi.Term) {
		switch v := t.(type) {
		case *phi.MetaFunction:
			out = append(out, v.Name)
			if v.Arg != nil {
				walk(v.Arg)
			}
		case *phi.Formation:
			for _, b := range v.Bindings {
				if a, ok := b.(phi.AlphaBinding); ok {
					walk(a.Object)
				}
			}
		case *phi.Application:
			walk(v.Fun)
			for _, b := range v.Bindings {
				if a, ok := b.(phi.AlphaBinding); ok {
					walk(a.Object)
				}
			}
		case *phi.Dispatch:
			walk(v.Receiver)
		}
	}
	walk(t)
	return out
}

func walkBinding(b phi.Binding, out map[string]bool, walk func(phi.Term)) {
	switch v := b.(type) {
	case phi.AlphaBinding:
		walk(v.Object)
	case phi.MetaBindings:
		out[v.ID] = true
	}
}
