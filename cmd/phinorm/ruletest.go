package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phi-calculus/phinorm/pkg/config"
	"github.com/phi-calculus/phinorm/pkg/metaphi"
	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/rewrite"
)

type ruletestOpts struct {
	rulesPath string
}

func newRuletestCmd() *cobra.Command {
	opts := &ruletestOpts{}
	cmd := &cobra.Command{
		Use:   "ruletest",
		Short: "Run every rule's embedded self-tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuletest(opts)
		},
	}
	cmd.Flags().StringVar(&opts.rulesPath, "rules", "", "ruleset YAML file (required)")
	cmd.MarkFlagRequired("rules")
	return cmd
}

func runRuletest(opts *ruletestOpts) error {
	doc, err := config.LoadRuleDoc(opts.rulesPath)
	if err != nil {
		return ioErr(err)
	}
	rs, err := metaphi.Compile(doc)
	if err != nil {
		return parseErr(err)
	}
	ctx := rewrite.NewContext(rs, logger())

	failed := 0
	total := 0
	for _, rule := range rs.Rules() {
		results := rule.RunTests(func(test metaphi.RuleTest) (bool, string) {
			return checkRuleTest(rule, test, ctx)
		})
		for _, r := range results {
			total++
			status := "ok"
			if !r.Passed {
				failed++
				status = "FAIL: " + r.Reason
			}
			fmt.Printf("%s/%s: %s\n", r.RuleName, r.TestName, status)
		}
	}

	fmt.Printf("%d/%d passed\n", total-failed, total)
	if failed > 0 {
		return parseErr(fmt.Errorf("%d rule test(s) failed", failed))
	}
	return nil
}

// checkRuleTest applies rule to test's input (pattern match plus side
// conditions, exactly as the driver would at this position), verifying
// the fires/does-not-fire verdict first, then — for a positive test —
// that the produced result reproduces the expected output.
func checkRuleTest(rule *metaphi.Rule, test metaphi.RuleTest, ctx *rewrite.Context) (bool, string) {
	input, err := metaphi.ParseTest(test.Input)
	if err != nil {
		return false, fmt.Sprintf("parse input: %v", err)
	}

	results := rewrite.ApplyRule(rule, input, ctx)
	fired := len(results) > 0
	if fired != test.Matches {
		return false, fmt.Sprintf("expected matches=%v, got matches=%v", test.Matches, fired)
	}
	if !test.Matches {
		return true, ""
	}

	expected, err := metaphi.ParseTest(test.Output)
	if err != nil {
		return false, fmt.Sprintf("parse output: %v", err)
	}
	if !phi.Equal(results[0], expected) {
		return false, fmt.Sprintf("got %s, want %s", phi.Print(results[0]), phi.Print(expected))
	}
	return true, ""
}
