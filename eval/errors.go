package eval

import (
	"fmt"

	"github.com/binspec/bfdl/ast"
	"github.com/binspec/bfdl/sourceinfo"
)

// ParseErrKind is spec.md §4.8's runtime error taxonomy.
type ParseErrKind int

const (
	InputTooShort ParseErrKind = iota
	OffsetTooLarge
	ArithmeticError
	AssertionFailure
	ExpectationFailure
	Io
)

func (k ParseErrKind) String() string {
	switch k {
	case InputTooShort:
		return "InputTooShort"
	case OffsetTooLarge:
		return "OffsetTooLarge"
	case ArithmeticError:
		return "ArithmeticError"
	case AssertionFailure:
		return "AssertionFailure"
	case ExpectationFailure:
		return "ExpectationFailure"
	case Io:
		return "Io"
	}
	return "?"
}

// ParseErr is a single runtime diagnostic: it carries both provenance
// (which input bytes contributed to the failing decision, possibly none)
// and the IR span of the node that raised it, so a caller can highlight
// both sides (spec.md §7's "Propagation" note).
type ParseErr struct {
	Kind       ParseErrKind
	Message    string
	Span       ast.Span
	Provenance *sourceinfo.RangeSet
	pos        ast.SourcePosInfo
}

func (e *ParseErr) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.pos, e.Kind, e.Message)
}

func (e *ParseErr) GetPosition() ast.SourcePosInfo { return e.pos }
func (e *ParseErr) Unwrap() error                  { return fmt.Errorf("%s", e.Message) }

func newErr(kind ParseErrKind, span ast.Span, pos ast.SourcePosInfo, prov *sourceinfo.RangeSet, format string, args ...any) *ParseErr {
	return &ParseErr{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Span:       span,
		Provenance: prov,
		pos:        pos,
	}
}
