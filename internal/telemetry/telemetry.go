// Package telemetry wraps go.uber.org/zap in the small package-level
// constructor idiom library packages use: a no-op default any package can
// log against safely, overridable once by an owning binary (cmd/bnctl).
package telemetry

import "go.uber.org/zap"

var logger = zap.NewNop()

// Set installs the process-wide structured logger. Passing nil restores the
// no-op default. Library packages (inference, substitution, gibbs) never
// call this themselves; only cmd/bnctl does, at startup.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// L returns the process-wide structured logger.
func L() *zap.Logger { return logger }
