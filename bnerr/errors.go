// Package bnerr defines the closed error taxonomy shared by every package in
// this module, mirroring the original Java implementation's single
// bn.BNException hierarchy rather than letting each package invent its own
// ad hoc error strings.
//
// Every sentinel error in the module wraps one Kind so callers can recover
// the taxonomy via errors.As regardless of which package raised the error.
package bnerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the error taxonomy named in the specification.
type Kind int

const (
	// InvalidModel marks dimension mismatches or a non-finite rate matrix.
	InvalidModel Kind = iota
	// InvalidDomain marks a value outside its declared enumerable domain.
	InvalidDomain
	// IncompleteNetwork marks a missing distribution for a relevant node, or a cycle.
	IncompleteNetwork
	// EvidenceImpossible marks total weight 0 under evidence.
	EvidenceImpossible
	// Unfactorisable marks a density-carrying node without enumerable parents
	// met as non-evidenced in a query.
	Unfactorisable
	// Cancelled marks cooperative cancellation during a long-running reconstruction.
	Cancelled
)

// String renders the Kind's canonical tag.
func (k Kind) String() string {
	switch k {
	case InvalidModel:
		return "InvalidModel"
	case InvalidDomain:
		return "InvalidDomain"
	case IncompleteNetwork:
		return "IncompleteNetwork"
	case EvidenceImpossible:
		return "EvidenceImpossible"
	case Unfactorisable:
		return "Unfactorisable"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type carrying a Kind, an originating op, and an
// optional wrapped cause.
type Error struct {
	Kind Kind
	Op   string // "pkg.Func"
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target carries the same Kind, enabling
// errors.Is(err, bnerr.New(bnerr.EvidenceImpossible, "", "")).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// New builds an *Error for op with the given Kind and message.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap builds an *Error for op with the given Kind, message, and cause.
func Wrap(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// Of reports the Kind of err, if err is (or wraps) a *bnerr.Error.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
