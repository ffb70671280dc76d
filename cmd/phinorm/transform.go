package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phi-calculus/phinorm/pkg/config"
	"github.com/phi-calculus/phinorm/pkg/dataize"
	"github.com/phi-calculus/phinorm/pkg/metaphi"
	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/rewrite"
	"github.com/phi-calculus/phinorm/pkg/syntax"
)

type transformOpts struct {
	rulesPath  string
	inputFile  string
	outputFile string
	chain      bool
	single     bool
	jsonOut    bool
}

func newTransformCmd() *cobra.Command {
	opts := &transformOpts{}
	cmd := &cobra.Command{
		Use:   "transform [PROGRAM]",
		Short: "Normalize a φ-program under a ruleset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var program string
			if len(args) == 1 {
				program = args[0]
			}
			return runTransform(opts, program)
		},
	}
	cmd.Flags().StringVar(&opts.rulesPath, "rules", "", "ruleset YAML file (required)")
	cmd.Flags().StringVar(&opts.inputFile, "input-file", "", "read the program from a file instead of the positional argument")
	cmd.Flags().StringVar(&opts.outputFile, "output-file", "", "write output here instead of stdout")
	cmd.Flags().BoolVar(&opts.chain, "chain", false, "print every intermediate step of every reduction ordering")
	cmd.Flags().BoolVar(&opts.single, "single", false, "print one leftmost-first reduction result")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit machine-readable JSON")
	cmd.MarkFlagRequired("rules")
	return cmd
}

func runTransform(opts *transformOpts, positional string) error {
	doc, err := config.LoadRuleDoc(opts.rulesPath)
	if err != nil {
		return ioErr(err)
	}
	rs, err := metaphi.Compile(doc)
	if err != nil {
		return parseErr(err)
	}

	src, err := readProgram(opts.inputFile, positional)
	if err != nil {
		return ioErr(err)
	}

	term, err := syntax.Parse(src)
	if err != nil {
		return parseErr(err)
	}

	ctx := rewrite.NewContext(rs, logger())

	w := io.Writer(os.Stdout)
	if opts.outputFile != "" {
		f, ferr := os.Create(opts.outputFile)
		if ferr != nil {
			return ioErr(ferr)
		}
		defer f.Close()
		w = f
	}

	switch {
	case opts.chain:
		return writeChain(w, term, ctx, opts.jsonOut)
	case opts.single:
		result, stats := rewrite.Leftmost(term, ctx)
		return writeSingle(w, result, stats, opts.jsonOut)
	default:
		v := dataize.Dataize(term, ctx)
		return writeValue(w, v, opts.jsonOut)
	}
}

func readProgram(inputFile, positional string) (string, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("read program %s: %w", inputFile, err)
		}
		return string(data), nil
	}
	if positional != "" {
		return positional, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read program from stdin: %w", err)
	}
	return string(data), nil
}

type stepJSON struct {
	Term string `json:"term"`
	Rule string `json:"rule,omitempty"`
}

type pathJSON struct {
	Steps []stepJSON `json:"steps"`
}

// writeChain prints every maximal reduction path of term, as found by
// enumeratePaths' depth-first walk over StepNamed, each step labelled
// with the rule that produced it.
func writeChain(w io.Writer, term phi.Term, ctx *rewrite.Context, jsonOut bool) error {
	paths := enumeratePaths(term, ctx, rewrite.DefaultMaxChainLength)

	if jsonOut {
		out := make([]pathJSON, 0, len(paths))
		for _, p := range paths {
			pj := pathJSON{}
			for i, t := range p.terms {
				rule := ""
				if i > 0 {
					rule = p.rules[i-1]
				}
				pj.Steps = append(pj.Steps, stepJSON{Term: phi.Print(t), Rule: rule})
			}
			out = append(out, pj)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return ioErr(enc.Encode(out))
	}

	for i, p := range paths {
		fmt.Fprintf(w, "-- ordering %d --\n", i+1)
		for j, t := range p.terms {
			if j == 0 {
				fmt.Fprintln(w, phi.PrintProgram(t))
				continue
			}
			fmt.Fprintf(w, "  [%s] %s\n", p.rules[j-1], phi.PrintProgram(t))
		}
	}
	return nil
}

type reductionPath struct {
	terms []phi.Term
	rules []string
}

// enumeratePaths performs a bounded depth-first exploration of every
// maximal reduction ordering from t, stopping each path at normal form
// or maxSteps, for --chain to print every ordering a non-confluent
// ruleset could produce.
func enumeratePaths(t phi.Term, ctx *rewrite.Context, maxSteps int) []reductionPath {
	var out []reductionPath
	var walk func(path reductionPath, cur phi.Term, steps int)
	walk = func(path reductionPath, cur phi.Term, steps int) {
		if steps >= maxSteps {
			out = append(out, path)
			return
		}
		named := rewrite.StepNamed(cur, ctx)
		if len(named) == 0 {
			out = append(out, path)
			return
		}
		for _, s := range named {
			next := reductionPath{
				terms: append(append([]phi.Term{}, path.terms...), s.Term),
				rules: append(append([]string{}, path.rules...), s.Rule),
			}
			walk(next, s.Term, steps+1)
		}
	}
	walk(reductionPath{terms: []phi.Term{t}}, t, 0)
	return out
}

func writeSingle(w io.Writer, result phi.Term, stats *rewrite.Stats, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return ioErr(enc.Encode(struct {
			Term  string         `json:"term"`
			Stats *rewrite.Stats `json:"stats"`
		}{Term: phi.Print(result), Stats: stats}))
	}
	fmt.Fprintln(w, phi.PrintProgram(result))
	return nil
}

func writeValue(w io.Writer, v dataize.Value, jsonOut bool) error {
	if jsonOut {
		type valueJSON struct {
			Bytes    string `json:"bytes,omitempty"`
			Residual string `json:"residual,omitempty"`
		}
		vj := valueJSON{}
		if v.IsBytes() {
			vj.Bytes = phi.FormatBytes(v.Bytes)
		} else {
			vj.Residual = phi.Print(v.Residual)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return ioErr(enc.Encode(vj))
	}
	if v.IsBytes() {
		fmt.Fprintln(w, phi.FormatBytes(v.Bytes))
		return nil
	}
	fmt.Fprintln(w, phi.PrintProgram(v.Residual))
	return nil
}
