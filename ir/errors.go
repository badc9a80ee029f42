package ir

import (
	"fmt"

	"github.com/binspec/bfdl/ast"
)

// LoweringError is a spec.md §7 layer-3 diagnostic: a malformed literal or
// other construct that Lower could not turn into a well-formed IR node. It
// is recorded, not fatal — lowering substitutes an Error expression or
// omits the offending item and keeps going.
type LoweringError struct {
	Message string
	Pos     ast.SourcePosInfo
}

func (e *LoweringError) Error() string                 { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }
func (e *LoweringError) GetPosition() ast.SourcePosInfo { return e.Pos }
func (e *LoweringError) Unwrap() error                  { return fmt.Errorf("%s", e.Message) }
