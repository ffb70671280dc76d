package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phi-calculus/phinorm/pkg/confluence"
	"github.com/phi-calculus/phinorm/pkg/config"
	"github.com/phi-calculus/phinorm/pkg/metaphi"
)

type confluenceOpts struct {
	rulesPath string
	samples   int
	depth     int
	maxSize   int
	seed      int64
	jsonOut   bool
}

func newConfluenceCmd() *cobra.Command {
	opts := &confluenceOpts{}
	cmd := &cobra.Command{
		Use:   "confluence",
		Short: "Property-test a ruleset for confluence over random samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfluence(opts)
		},
	}
	cmd.Flags().StringVar(&opts.rulesPath, "rules", "", "ruleset YAML file (required)")
	cmd.Flags().IntVar(&opts.samples, "samples", 100, "number of random formations to sample")
	cmd.Flags().IntVar(&opts.depth, "depth", 7, "joinability search depth bound (descendantsₙ, n)")
	cmd.Flags().IntVar(&opts.maxSize, "max-size", 30, "joinability search per-term size bound")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "random seed")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit machine-readable JSON")
	cmd.MarkFlagRequired("rules")
	return cmd
}

func runConfluence(opts *confluenceOpts) error {
	doc, err := config.LoadRuleDoc(opts.rulesPath)
	if err != nil {
		return ioErr(err)
	}
	rs, err := metaphi.Compile(doc)
	if err != nil {
		return parseErr(err)
	}

	cfg := confluence.DefaultCheckConfig(opts.samples, opts.seed)
	cfg.Join.MaxDepth = opts.depth
	cfg.Join.MaxSize = opts.maxSize

	report := confluence.Check(rs, cfg, logger())

	if opts.jsonOut {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return ioErr(err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Printf("samples checked:        %d\n", report.SamplesChecked)
		fmt.Printf("critical pairs checked: %d\n", report.CriticalPairsChecked)
		fmt.Printf("failures:               %d\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Printf("  source: %s\n    x: %s\n    y: %s\n", f.Source, f.X, f.Y)
		}
	}

	if len(report.Failures) > 0 {
		return parseErr(fmt.Errorf("%d critical pair(s) failed to join within the search bound", len(report.Failures)))
	}
	return nil
}
