package reporter

import (
	"fmt"

	"github.com/binspec/bfdl/ast"
)

// Error creates an ErrorWithPos from an existing error and a position.
func Error(pos ast.SourcePosInfo, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates an ErrorWithPos from a format string and position.
func Errorf(pos ast.SourcePosInfo, format string, args ...any) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithSourcePos struct {
	underlying error
	pos        ast.SourcePosInfo
}

func (e errorWithSourcePos) Error() string {
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

func (e errorWithSourcePos) GetPosition() ast.SourcePosInfo { return e.pos }
func (e errorWithSourcePos) Unwrap() error                  { return e.underlying }

var _ ErrorWithPos = errorWithSourcePos{}
