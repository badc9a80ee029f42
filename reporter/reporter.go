// Package reporter carries diagnostics across the five layers of spec.md §7
// (lex, CST parse, lowering, analysis, runtime parse) without ever aborting
// a pass: every layer reports through a Handler and keeps producing its
// best-effort result.
package reporter

import (
	"errors"

	"github.com/binspec/bfdl/ast"
)

// ErrInvalidSource is returned by Handler.Error when at least one error was
// reported.
var ErrInvalidSource = errors.New("bfdl: invalid source")

// ErrorWithPos is an error tied to a source position, implemented by every
// diagnostic family in the parser/ir/analysis/eval packages.
type ErrorWithPos interface {
	error
	GetPosition() ast.SourcePosInfo
	Unwrap() error
}

// ErrorReporter is invoked for every error Handle-d. Its return value is
// passed back out of Handler.HandleError; the parser, lowering, and
// analysis passes ignore it and always run to completion.
type ErrorReporter func(ErrorWithPos) error

// WarningReporter is invoked for every warning Handle-d. It cannot abort.
type WarningReporter func(ErrorWithPos)

// Handler accumulates diagnostics from a single pass. It is safe to pass by
// pointer through a single lexer/parser/analyzer/evaluator invocation; it
// is not meant to be shared across concurrent invocations.
type Handler struct {
	errs     ErrorReporter
	warns    WarningReporter
	errCount int
	firstErr error
}

// NewHandler builds a Handler. A nil errs defaults to "report every error
// and keep going"; a nil warns defaults to "discard warnings".
func NewHandler(errs ErrorReporter, warns WarningReporter) *Handler {
	if errs == nil {
		errs = func(ErrorWithPos) error { return nil }
	}
	if warns == nil {
		warns = func(ErrorWithPos) {}
	}
	return &Handler{errs: errs, warns: warns}
}

// HandleError reports err through the configured ErrorReporter and returns
// whatever the reporter returned.
func (h *Handler) HandleError(err ErrorWithPos) error {
	h.errCount++
	if h.firstErr == nil {
		h.firstErr = err
	}
	return h.errs(err)
}

// HandleWarning reports a non-fatal diagnostic.
func (h *Handler) HandleWarning(err ErrorWithPos) {
	h.warns(err)
}

// ErrorCount returns how many errors have been handled so far.
func (h *Handler) ErrorCount() int { return h.errCount }

// Error returns ErrInvalidSource if any error was handled, else nil. Use
// this at the end of a pass that is expected to abort the caller's flow on
// any error (e.g. the CLI); passes that want to keep the partial result
// regardless should inspect ErrorCount instead.
func (h *Handler) Error() error {
	if h.errCount > 0 {
		return ErrInvalidSource
	}
	return nil
}

// FirstError returns the first error handled, or nil.
func (h *Handler) FirstError() error { return h.firstErr }
