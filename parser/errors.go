package parser

import (
	"errors"
	"fmt"

	"github.com/binspec/bfdl/ast"
)

// SyntaxError is a CST-layer diagnostic (spec.md §7 layer 2): an
// expected-vs-found mismatch recorded by the parser at a resynchronization
// point. It satisfies reporter.ErrorWithPos.
type SyntaxError struct {
	Message string
	Pos     ast.SourcePosInfo
}

func (e *SyntaxError) Error() string     { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }
func (e *SyntaxError) GetPosition() ast.SourcePosInfo { return e.Pos }
func (e *SyntaxError) Unwrap() error     { return errors.New(e.Message) }
