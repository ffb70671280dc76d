// Package metaphi implements the MetaPHI rule language: the internal
// form of a rewrite rule compiled from its declarative (YAML) source,
// plus the meta-function registry used at substitution time.
package metaphi

import "github.com/phi-calculus/phinorm/pkg/phi"

// RuleContext names the meta-variables that capture the enclosing
// global object and current object when a rule's replacement needs to
// reference them.
type RuleContext struct {
	GlobalMeta  string
	CurrentMeta string
}

// Rule is a compiled rewrite rule: a unique name, a pattern term (with
// meta-variables), a replacement term, optional context, and a list of
// side conditions.
type Rule struct {
	Name        string
	Description string
	Pattern     phi.Term
	Replacement phi.Term
	Context     *RuleContext
	When        []Condition
	Tests       []RuleTest
}

// RuleTest is one entry of a rule's declarative self-test list, run by
// pkg/metaphi/selftest.go.
type RuleTest struct {
	Name    string
	Input   string
	Output  string
	Matches bool
}

// AttrRef is either a literal attribute or a reference to a
// meta-variable that is resolved via the substitution before a
// present/absent side condition is evaluated.
type AttrRef struct {
	Literal  *phi.Attribute
	MetaID   string
}

// Condition is a rule side condition: nf, present, or
// absent.
type Condition interface {
	isCondition()
}

// NF requires that the subterm bound to Meta be in normal form under
// the current ruleset.
type NF struct {
	Meta string
}

func (NF) isCondition() {}

// PresentAttrs requires every attribute in Attrs to occur in the
// bindings-sequence bound to Bindings.
type PresentAttrs struct {
	Attrs    []AttrRef
	Bindings string
}

func (PresentAttrs) isCondition() {}

// AbsentAttrs requires none of the attributes in Attrs to occur in the
// bindings-sequence bound to Bindings.
type AbsentAttrs struct {
	Attrs    []AttrRef
	Bindings string
}

func (AbsentAttrs) isCondition() {}
