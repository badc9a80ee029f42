package analysis

import (
	"fmt"

	"github.com/binspec/bfdl/ast"
)

// Kind tags which of spec.md §4.5's seven checks produced an Error.
type Kind int

const (
	UnresolvedName Kind = iota
	InvalidContext
	EndiannessNotSet
	InvalidAlignment
	InvalidWidth
	TypeMismatch
	InvalidMessageUTF8
)

func (k Kind) String() string {
	switch k {
	case UnresolvedName:
		return "unresolved-name"
	case InvalidContext:
		return "invalid-context"
	case EndiannessNotSet:
		return "endianness-not-set"
	case InvalidAlignment:
		return "invalid-alignment"
	case InvalidWidth:
		return "invalid-width"
	case TypeMismatch:
		return "type-mismatch"
	case InvalidMessageUTF8:
		return "invalid-message-utf8"
	}
	return "unknown"
}

// Error is a spec.md §7 layer-4 diagnostic: a well-formedness violation
// found in an otherwise fully-lowered IR. Like every other layer, analysis
// never aborts on one of these — it keeps walking and reports every
// violation it finds in a single pass.
type Error struct {
	Kind    Kind
	Message string
	Pos     ast.SourcePosInfo
}

func (e *Error) Error() string                 { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }
func (e *Error) GetPosition() ast.SourcePosInfo { return e.Pos }
func (e *Error) Unwrap() error                  { return fmt.Errorf("%s", e.Message) }
