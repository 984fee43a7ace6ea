// SPDX-License-Identifier: MIT
//
// Package bnctlcli implements the bnctl CLI and newline-delimited-JSON RPC
// façade: an *external* client of the core packages (domain/dist/table/
// factor/ratematrix/network/inference/substitution/gibbs), not a core
// package itself (spec.md §1's file-I/O/CLI Non-goal is preserved by
// keeping this package a thin consumer).
//
// Grounded on FeatureBaseDB-featurebase's cmd/ package (cobra commands
// returning RunE errors, a thin cmd/<tool>/main.go delegating to an
// Execute entry point) and OFFIS-RIT-kiwi's cmd/<tool>/main.go convention of
// a one-line main that hands off to an internal package.
package bnctlcli

// Exit codes, spec.md §6 verbatim: 0 success; 1 unknown model; 2 I/O
// failure; 3 unknown argument; 5/6/7/8 missing required argument (assigned
// per missing-argument kind below since spec.md names the range without
// binding individual codes to individual arguments — a decision recorded in
// DESIGN.md).
const (
	ExitSuccess          = 0
	ExitUnknownModel     = 1
	ExitIOFailure        = 2
	ExitUnknownArgument  = 3
	ExitMissingTree      = 5
	ExitMissingAlignment = 6
	ExitMissingModelName = 7
	ExitMissingQueryArg  = 8
)

// exitError carries a specific process exit code alongside the underlying
// error, letting Execute translate a command failure into spec.md's exit
// code table instead of cobra's default binary success/failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}
