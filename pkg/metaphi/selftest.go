package metaphi

import (
	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/syntax"
)

// TestResult is the outcome of running one RuleTest.
type TestResult struct {
	RuleName string
	TestName string
	Passed   bool
	Reason   string
}

// RunTests executes every declarative self-test attached to rule
// against check, a caller-supplied predicate over (input, expected
// output, expected match verdict). The indirection lets the caller
// (cmd/phinorm's ruletest, which uses pkg/rewrite to match and rewrite
// terms) supply the check without pkg/metaphi importing pkg/rewrite.
func (r *Rule) RunTests(check func(test RuleTest) (bool, string)) []TestResult {
	results := make([]TestResult, 0, len(r.Tests))
	for _, test := range r.Tests {
		ok, reason := check(test)
		results = append(results, TestResult{RuleName: r.Name, TestName: test.Name, Passed: ok, Reason: reason})
	}
	return results
}

// ParseTest parses a rule test's input or expected-output text as a
// pattern (rule tests may reference the rule's own meta-variables).
func ParseTest(src string) (phi.Term, error) {
	return syntax.ParsePattern(src)
}
