// Package ast provides the lossless concrete syntax tree for BFDL source
// text and a typed facade over it. The CST is built from a recorded event
// stream produced by the parser package (see parser.Parse); this package
// owns only the tree shape, span bookkeeping, and node accessors.
package ast

import "fmt"

// Span is a half-open [Start, End) byte range over a source file's text.
// Spans total-order by Start; every diagnostic in this module carries one.
type Span struct {
	Start, End int
}

// Len reports the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether p lies within [Start, End).
func (s Span) Contains(p int) bool { return p >= s.Start && p < s.End }

// Union returns the smallest span covering both s and o.
func (s Span) Union(o Span) Span {
	u := s
	if o.Start < u.Start {
		u.Start = o.Start
	}
	if o.End > u.End {
		u.End = o.End
	}
	return u
}

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }

// SourcePos is a 1-based line/column position, derived from a byte offset
// via FileInfo.
type SourcePos struct {
	Filename string
	Offset   int
	Line     int
	Col      int
}

func (p SourcePos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}

// SourcePosInfo pairs a start and end SourcePos, attached to every
// diagnostic so a caller can highlight the offending source range.
type SourcePosInfo struct {
	Start, End SourcePos
}

func (p SourcePosInfo) String() string { return p.Start.String() }
