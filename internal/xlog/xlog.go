// Package xlog builds the zap.Logger phinorm's CLI and confluence
// tester share: a leveled structured logger in place of an env-var
// debug flag plus raw fmt.Fprintf.
package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger writing to stderr: info level normally, debug
// level when verbose is set. Output is console-encoded (human-readable
// for CLI use, unlike a production JSON encoder) since phinorm's log
// output is consumed by the person running the command, not shipped.
func New(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
