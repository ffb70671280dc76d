package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phi-calculus/phinorm/internal/xlog"
)

// cliError pins an exit code to a failure: 1 for a ruleset/program
// parse failure (or a confluence-law violation), 2 for an I/O failure.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func parseErr(err error) error { return &cliError{code: 1, err: err} }
func ioErr(err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: 2, err: err}
}

var verbose bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "phinorm",
		Short:         "Normalize and dataize φ-calculus programs under a rewrite ruleset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level trace logging")
	cmd.AddCommand(newTransformCmd(), newConfluenceCmd(), newRuletestCmd())
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "phinorm:", err)
		var ce *cliError
		if errors.As(err, &ce) {
			return ce.code
		}
		return 1
	}
	return 0
}

func logger() *zap.Logger {
	return xlog.New(verbose)
}
