package eval

import (
	"github.com/binspec/bfdl/ir"
	"github.com/binspec/bfdl/sourceinfo"
	"github.com/binspec/bfdl/value"
)

// sourceinfoEmpty is the always-empty RangeSet $parent's snapshot uses, per
// spec.md's "empty provenance aggregating parsed siblings".
var sourceinfoEmpty sourceinfo.RangeSet

// Endianness selects how multi-byte Integer/Float parse types decode their
// bytes. The zero value, Little, is also this evaluator's "native" default
// (spec.md §4.8's `endianness: Little|Big (initial: native)`) — a fixed
// choice rather than a runtime CPU-endianness probe, since BFDL describes
// the *input's* byte order, which has nothing to do with the host
// evaluating it.
type Endianness int

const (
	Little Endianness = iota
	Big
)

// runtimeScope is the evaluator's analogue of analysis.scope: the sibling
// fields of the struct currently being parsed, parsed so far, chained to
// enclosing structs' scopes (spec.md §4.8's `scope: Vec<{symbol -> &Value}>`).
type runtimeScope struct {
	fields map[ir.Symbol]*value.Value
	parent *runtimeScope
}

func (s *runtimeScope) lookup(name ir.Symbol) (*value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.fields[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// repetition is the `$last`/`$len` context of the innermost enclosing
// RepeatCount/RepeatWhile.
type repetition struct {
	last *value.Value
	len  int
}

// liveStruct is the mutable accumulator behind a struct body that is still
// being parsed. $parent materializes a snapshot Struct Value from it on
// demand (spec.md's "Parent -> the in-progress parent Struct value, fields
// parsed so far").
type liveStruct struct {
	fields []value.Field
}

func (l *liveStruct) snapshot() *value.Value {
	return value.NewStruct(append([]value.Field(nil), l.fields...), &sourceinfoEmpty)
}

// evalCtx is spec.md §4.8's EvalCtx, threaded by value through the
// recursive walk (each branch gets its own copy, matching the per-path
// independence the language's conditionals and switches need).
type evalCtx struct {
	endianness Endianness
	scope      *runtimeScope
	parent     *liveStruct // the enclosing struct, fields parsed so far
	rep        *repetition
}

func rootCtx() evalCtx {
	return evalCtx{endianness: Little}
}

// endianOf translates a top-level ir.SetEndian directive into the
// Endianness an entry point's root context should start with.
func endianOf(se *ir.SetEndian) Endianness {
	if se.Little {
		return Little
	}
	return Big
}

func (c evalCtx) withScope(s *runtimeScope) evalCtx {
	c.scope = s
	return c
}

func (c evalCtx) withEndianness(e Endianness) evalCtx {
	c.endianness = e
	return c
}
