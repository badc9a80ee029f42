// Package eval is the core interpreter (spec.md §4.8): an on-demand parser
// that walks the IR against a View, tracking endianness, cursor position,
// scope, and repetition context, producing provenance-tagged Values with
// partial-failure semantics — no layer here ever aborts the walk early.
package eval

import (
	"encoding/binary"
	"errors"
	"math"
	"math/big"

	"github.com/binspec/bfdl/ast"
	"github.com/binspec/bfdl/internal/bignum"
	"github.com/binspec/bfdl/ir"
	"github.com/binspec/bfdl/sourceinfo"
	"github.com/binspec/bfdl/value"
)

// maxNamedDepth bounds recursive Named lookups: the analyzer only checks
// that a Named type resolves and does not look for cycles through Named,
// so the evaluator bounds the recursion depth itself (spec.md §4.8's
// "runtime may additionally bound recursion depth").
const maxNamedDepth = 1024

// repeatHardCap is the safety bound on RepeatWhile iterations spec.md
// §4.8 requires ("at least 2^32 iterations to prevent runaway").
const repeatHardCap = 1 << 32

// Result is spec.md §4.8's evaluator output: `(ir, view, start) -> {value,
// parse_errors, warnings}`.
type Result struct {
	Value    *value.Value
	Errors   []*ParseErr
	Warnings []*ParseErr
}

// Eval runs entry (a struct or type alias named in file) against view
// starting at the relative offset start, and additionally runs every
// file-scope assertion once the entry has been evaluated.
func Eval(file *ir.File, info *ast.FileInfo, entry ir.Symbol, view View, start int) *Result {
	e := &evaluator{file: file, info: info, root: view}
	item, ok := file.Get(entry)
	if !ok {
		e.reportf(ArithmeticError, ast.Span{}, nil, "unknown entry point %q", entry)
		return &Result{Errors: e.errs, Warnings: e.warns}
	}
	ctx := rootCtx()
	if file.Endian != nil {
		ctx = ctx.withEndianness(endianOf(file.Endian))
	}
	v, _ := e.evalItem(item, view, start, ctx)
	for _, as := range file.Asserts {
		e.evalAssertion(as, view, start, ctx)
	}
	return &Result{Value: v, Errors: e.errs, Warnings: e.warns}
}

type evaluator struct {
	file  *ir.File
	info  *ast.FileInfo
	root  View
	errs  []*ParseErr
	warns []*ParseErr
	depth int
}

func (e *evaluator) pos(s ast.Span) ast.SourcePosInfo { return e.info.SourcePosInfo(s) }

func (e *evaluator) reportf(kind ParseErrKind, span ast.Span, prov *sourceinfo.RangeSet, format string, args ...any) *ParseErr {
	err := newErr(kind, span, e.pos(span), prov, format, args...)
	e.errs = append(e.errs, err)
	return err
}

func (e *evaluator) warnf(kind ParseErrKind, span ast.Span, prov *sourceinfo.RangeSet, format string, args ...any) {
	e.warns = append(e.warns, newErr(kind, span, e.pos(span), prov, format, args...))
}

func (e *evaluator) evalItem(item ir.Item, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	switch it := item.(type) {
	case *ir.StructItem:
		return e.evalStructBody(it.Members, view, cursor, ctx)
	case *ir.TypeAliasItem:
		return e.evalParseType(it.Type, view, cursor, ctx)
	default:
		return nil, cursor
	}
}

// evalStructBody iterates fields in declaration order (spec.md's "Struct{
// fields}"): each parsed field is pushed into scope before the next field
// is parsed so sibling references only ever see earlier fields, and the
// whole in-progress struct is exposed to nested field types via $parent.
func (e *evaluator) evalStructBody(members []ir.StructMember, view View, cursor int, ctxIn evalCtx) (*value.Value, int) {
	live := &liveStruct{}
	scope := &runtimeScope{fields: map[ir.Symbol]*value.Value{}, parent: ctxIn.scope}
	childCtx := ctxIn
	childCtx.scope = scope
	childCtx.parent = live

	for _, m := range members {
		switch mm := m.(type) {
		case *ir.Field:
			savedCursor := cursor
			fieldCursor := cursor
			if mm.At != nil {
				atVal, _ := e.evalExpr(mm.At, view, cursor, childCtx)
				if n, ok := asCursor(atVal); ok {
					fieldCursor = n
				}
			}
			fv, newCursor := e.evalParseType(mm.Type, view, fieldCursor, childCtx)
			if mm.At != nil {
				// spec.md's Elsewhere/peek-style "at" clause never
				// advances the outer cursor, regardless of what kind of
				// ParseType the field actually names.
				cursor = savedCursor
			} else {
				cursor = newCursor
			}
			if mm.Name != "" && fv != nil {
				scope.fields[mm.Name] = fv
				live.fields = append(live.fields, value.Field{Name: mm.Name, Value: fv})
			}
		case *ir.SetEndian:
			if mm.Little {
				childCtx.endianness = Little
			} else {
				childCtx.endianness = Big
			}
		case *ir.AssertionItem:
			e.evalAssertion(mm, view, cursor, childCtx)
		}
	}
	return value.NewStruct(live.fields, nil), cursor
}

func asCursor(v *value.Value) (int, bool) {
	if v == nil || v.Kind != value.Integer {
		return 0, false
	}
	n, ok := v.Int.Int64()
	if !ok {
		return 0, false
	}
	return int(n), true
}

// evalParseType dispatches every ir.ParseType variant (spec.md §4.8's
// "Per-ParseType semantics"), returning the produced Value (nil on
// unrecoverable failure) and the view-relative cursor after the parse.
func (e *evaluator) evalParseType(t ir.ParseType, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	switch n := t.(type) {
	case *ir.FixedBytes:
		return e.evalFixedBytes(n, view, cursor, ctx)
	case *ir.FixedLength:
		return e.evalFixedLength(n, view, cursor, ctx)
	case *ir.Integer:
		return e.evalInteger(n, view, cursor, ctx)
	case *ir.Float:
		return e.evalFloat(n, view, cursor, ctx)
	case *ir.Named:
		return e.evalNamed(n, view, cursor, ctx)
	case *ir.Elsewhere:
		sub := NewSubview(view, cursor, view.Len())
		v, _ := e.evalParseType(n.Inner, sub, 0, ctx)
		return v, cursor
	case *ir.Struct:
		return e.evalStructBody(n.Members, view, cursor, ctx)
	case *ir.RepeatCount:
		return e.evalRepeatCount(n, view, cursor, ctx)
	case *ir.RepeatWhile:
		return e.evalRepeatWhile(n, view, cursor, ctx)
	case *ir.ParseIf:
		return e.evalParseIf(n, view, cursor, ctx)
	case *ir.Switch:
		return e.evalSwitch(n, view, cursor, ctx)
	}
	return nil, cursor
}

func (e *evaluator) read(view View, span ast.Span, cursor, n int) ([]byte, *sourceinfo.RangeSet, bool) {
	buf := make([]byte, n)
	got, err := view.ReadAt(cursor, buf)
	if err != nil {
		if errors.Is(err, errOffsetTooLarge) {
			e.reportf(OffsetTooLarge, span, nil, "offset %d is past the end of the input", cursor)
		} else {
			e.reportf(Io, span, nil, "reading %d bytes at offset %d: %v", n, cursor, err)
		}
		return nil, nil, false
	}
	if got < n {
		abs := view.AbsoluteOffset(cursor)
		prov := sourceinfo.Single(abs, got)
		e.reportf(InputTooShort, span, prov, "expected %d bytes at offset %d, got %d", n, cursor, got)
		return buf[:got], prov, false
	}
	abs := view.AbsoluteOffset(cursor)
	return buf, sourceinfo.Single(abs, n), true
}

func (e *evaluator) evalFixedBytes(n *ir.FixedBytes, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	expected, _ := e.evalExpr(n.Bytes, view, cursor, ctx)
	var want []byte
	if expected != nil && expected.Kind == value.Bytes {
		want = expected.Bytes
	}
	got, prov, ok := e.read(view, n.NodeSpan(), cursor, len(want))
	if !ok {
		return value.NewBytes(got, prov), cursor + len(got)
	}
	if !bytesEqual(got, want) {
		e.reportf(ExpectationFailure, n.NodeSpan(), prov, "expected bytes %x, got %x", want, got)
	}
	return value.NewBytes(got, prov), cursor + len(got)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (e *evaluator) evalFixedLength(n *ir.FixedLength, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	lenVal, _ := e.evalExpr(n.Len, view, cursor, ctx)
	length, ok := asCursor(lenVal)
	if !ok || length < 0 {
		e.reportf(ArithmeticError, n.NodeSpan(), nil, "byte length must be a non-negative integer")
		return nil, cursor
	}
	got, prov, ok := e.read(view, n.NodeSpan(), cursor, length)
	return value.NewBytes(got, prov), cursor + len(got)
}

func (e *evaluator) evalInteger(n *ir.Integer, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	nbytes := n.Bits / 8
	buf, prov, ok := e.read(view, n.NodeSpan(), cursor, nbytes)
	if !ok {
		return nil, cursor + len(buf)
	}
	bi := decodeInteger(buf, n.Signed, ctx.endianness)
	return value.NewInteger(bi, prov), cursor + nbytes
}

// decodeInteger decodes buf per endianness and signedness into an
// arbitrary-precision Int (spec.md §4.8's "decode per endianness and
// signedness"), honoring two's-complement for signed values.
func decodeInteger(buf []byte, signed bool, end Endianness) bignum.Int {
	ordered := make([]byte, len(buf))
	copy(ordered, buf)
	if end == Little {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}
	// ordered is now big-endian for magnitude purposes.
	u := new(big.Int).SetBytes(ordered)
	if signed && len(ordered) > 0 && ordered[0]&0x80 != 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(8*len(ordered)))
		u.Sub(u, full)
	}
	return bignum.FromBigInt(u)
}

func (e *evaluator) evalFloat(n *ir.Float, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	nbytes := n.Bits / 8
	buf, prov, ok := e.read(view, n.NodeSpan(), cursor, nbytes)
	if !ok {
		return nil, cursor + len(buf)
	}
	var order binary.ByteOrder = binary.LittleEndian
	if ctx.endianness == Big {
		order = binary.BigEndian
	}
	var f float64
	if n.Bits == 32 {
		f = float64(math.Float32frombits(order.Uint32(buf)))
	} else {
		f = math.Float64frombits(order.Uint64(buf))
	}
	return value.NewFloat(f, prov), cursor + nbytes
}

func (e *evaluator) evalNamed(n *ir.Named, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	item, ok := e.file.Get(n.Name)
	if !ok {
		e.reportf(ArithmeticError, n.NodeSpan(), nil, "undefined type %q", n.Name)
		return nil, cursor
	}
	if e.depth >= maxNamedDepth {
		e.reportf(ArithmeticError, n.NodeSpan(), nil, "recursion depth exceeded resolving %q", n.Name)
		return nil, cursor
	}
	e.depth++
	v, newCursor := e.evalItem(item, view, cursor, ctx)
	e.depth--
	return v, newCursor
}

func (e *evaluator) evalRepeatCount(n *ir.RepeatCount, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	countVal, _ := e.evalExpr(n.Count, view, cursor, ctx)
	count, ok := asCursor(countVal)
	if !ok || count < 0 {
		e.reportf(ArithmeticError, n.NodeSpan(), nil, "repeat count must be a non-negative integer")
		return value.NewArray(nil, nil), cursor
	}
	items := make([]*value.Value, 0, count)
	rep := &repetition{}
	loopCtx := ctx
	loopCtx.rep = rep
	for i := 0; i < count; i++ {
		v, newCursor := e.evalParseType(n.Inner, view, cursor, loopCtx)
		if v == nil {
			break
		}
		items = append(items, v)
		rep.last = v
		rep.len = len(items)
		cursor = newCursor
	}
	if len(items) < count {
		e.warnf(InputTooShort, n.NodeSpan(), nil, "repeat produced only %d of %d requested items", len(items), count)
	}
	return value.NewArray(items, nil), cursor
}

func (e *evaluator) evalRepeatWhile(n *ir.RepeatWhile, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	var items []*value.Value
	rep := &repetition{}
	loopCtx := ctx
	loopCtx.rep = rep
	for iter := 0; iter < repeatHardCap; iter++ {
		v, newCursor := e.evalParseType(n.Inner, view, cursor, loopCtx)
		if v == nil {
			break
		}
		items = append(items, v)
		rep.last = v
		rep.len = len(items)
		cursor = newCursor
		condVal, _ := e.evalExpr(n.Cond, view, cursor, loopCtx)
		if condVal == nil || condVal.Kind != value.Bool || !condVal.Bool {
			break
		}
	}
	return value.NewArray(items, nil), cursor
}

func (e *evaluator) evalParseIf(n *ir.ParseIf, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	condVal, _ := e.evalExpr(n.Cond, view, cursor, ctx)
	if condVal != nil && condVal.Kind == value.Bool && condVal.Bool {
		return e.evalParseType(n.Then, view, cursor, ctx)
	}
	return e.evalParseType(n.Else, view, cursor, ctx)
}

// evalSwitch evaluates the scrutinee, then each branch's key left to right,
// short-circuiting on the first equal match (spec.md's "Branch expressions
// are evaluated lazily, left-to-right, short-circuited by the first match").
func (e *evaluator) evalSwitch(n *ir.Switch, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	scrutinee, _ := e.evalExpr(n.Scrutinee, view, cursor, ctx)
	for _, br := range n.Branches {
		key, _ := e.evalExpr(br.Key, view, cursor, ctx)
		if valuesEqual(scrutinee, key) {
			return e.evalParseType(br.Body, view, cursor, ctx)
		}
	}
	if n.Default != nil {
		return e.evalParseType(n.Default, view, cursor, ctx)
	}
	e.reportf(ExpectationFailure, n.NodeSpan(), nil, "no switch branch matched and no default was given")
	return nil, cursor
}

func (e *evaluator) evalAssertion(item *ir.AssertionItem, view View, cursor int, ctx evalCtx) {
	cond, _ := e.evalExpr(item.Cond, view, cursor, ctx)
	if cond != nil && cond.Kind == value.Bool && cond.Bool {
		return
	}
	msg := "assertion failed"
	if item.HasMsg {
		msg = item.Message
	}
	var prov *sourceinfo.RangeSet
	if cond != nil {
		prov = cond.Provenance
	}
	e.reportf(AssertionFailure, item.Span, prov, "%s", msg)
}
