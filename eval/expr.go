package eval

import (
	"math"

	"github.com/binspec/bfdl/internal/bignum"
	"github.com/binspec/bfdl/ir"
	"github.com/binspec/bfdl/sourceinfo"
	"github.com/binspec/bfdl/value"
)

var emptyProv = &sourceinfo.RangeSet{}

// evalExpr evaluates an IR expression against the current cursor and
// context (spec.md §4.8's "Expression evaluation"). The returned Value may
// be nil when the expression cannot be evaluated at all (e.g. an unknown
// name); callers treat a nil result the same way a zero-provenance
// ArithmeticError Value would behave, since every arithmetic/comparison
// helper here already tolerates nil operands by reporting and returning
// nil in turn.
func (e *evaluator) evalExpr(ex ir.Expr, view View, cursor int, ctx evalCtx) (*value.Value, int) {
	switch n := ex.(type) {
	case *ir.Lit:
		return e.evalLit(n), cursor
	case *ir.VarUse:
		if v, ok := ctx.scope.lookup(n.Name); ok {
			return v, cursor
		}
		e.reportf(ArithmeticError, n.NodeSpan(), nil, "undefined name %q", n.Name)
		return nil, cursor
	case *ir.Offset:
		abs := view.AbsoluteOffset(cursor)
		return value.NewInteger(bignum.FromInt64(int64(cursor)), sourceinfo.Single(abs, 0)), cursor
	case *ir.Parent:
		if ctx.parent == nil {
			e.reportf(ArithmeticError, n.NodeSpan(), nil, "$parent used outside a struct body")
			return nil, cursor
		}
		return ctx.parent.snapshot(), cursor
	case *ir.Last:
		if ctx.rep == nil || ctx.rep.last == nil {
			e.reportf(ArithmeticError, n.NodeSpan(), nil, "$last used before any repetition item was produced")
			return nil, cursor
		}
		return ctx.rep.last, cursor
	case *ir.Len:
		length := 0
		if ctx.rep != nil {
			length = ctx.rep.len
		}
		return value.NewInteger(bignum.FromInt64(int64(length)), emptyProv), cursor
	case *ir.Endianness:
		n := int64(0)
		if ctx.endianness == Big {
			n = 1
		}
		return value.NewInteger(bignum.FromInt64(n), emptyProv), cursor
	case *ir.FieldAccess:
		base, _ := e.evalExpr(n.Base, view, cursor, ctx)
		if base == nil || base.Kind != value.Struct {
			e.reportf(ArithmeticError, n.NodeSpan(), nil, "field access on a non-struct value")
			return nil, cursor
		}
		fv, ok := base.Field(n.Name)
		if !ok {
			e.reportf(ArithmeticError, n.NodeSpan(), nil, "no field named %q", n.Name)
			return nil, cursor
		}
		return fv, cursor
	case *ir.UnOpExpr:
		return e.evalUnOp(n, view, cursor, ctx), cursor
	case *ir.BinOpExpr:
		return e.evalBinOp(n, view, cursor, ctx), cursor
	case *ir.Peek:
		return e.evalPeek(n, view, cursor, ctx), cursor
	case *ir.Error:
		return nil, cursor
	}
	return nil, cursor
}

func (e *evaluator) evalLit(n *ir.Lit) *value.Value {
	switch n.Kind {
	case ir.LitInt:
		return value.NewInteger(n.Int, emptyProv)
	case ir.LitBytes:
		return value.NewBytes(n.Bytes, emptyProv)
	case ir.LitBool:
		return value.NewBool(n.Bool, emptyProv)
	}
	return nil
}

// evalPeek evaluates n.Type at n.At (or the current cursor) without
// advancing anything — not even the nested type's own Elsewhere-style
// cursor restoration matters here, since the result's cursor is always
// discarded.
func (e *evaluator) evalPeek(n *ir.Peek, view View, cursor int, ctx evalCtx) *value.Value {
	at := cursor
	if n.At != nil {
		atVal, _ := e.evalExpr(n.At, view, cursor, ctx)
		if pos, ok := asCursor(atVal); ok {
			at = pos
		}
	}
	sub := NewSubview(view, at, view.Len())
	v, _ := e.evalParseType(n.Type, sub, 0, ctx)
	return v
}

func (e *evaluator) evalUnOp(n *ir.UnOpExpr, view View, cursor int, ctx evalCtx) *value.Value {
	operand, _ := e.evalExpr(n.Operand, view, cursor, ctx)
	if operand == nil {
		return nil
	}
	switch n.Op {
	case ir.UnNeg:
		if operand.Kind == value.Integer {
			return value.NewInteger(bignum.FromInt64(0).Sub(operand.Int), operand.Provenance)
		}
		if operand.Kind == value.Float {
			return value.NewFloat(-operand.Float64, operand.Provenance)
		}
	case ir.UnPlus:
		return operand
	case ir.UnNot:
		if operand.Kind == value.Bool {
			return value.NewBool(!operand.Bool, operand.Provenance)
		}
	}
	e.reportf(ArithmeticError, n.NodeSpan(), operand.Provenance, "unary operator not defined for a %s value", operand.Kind)
	return nil
}

func (e *evaluator) evalBinOp(n *ir.BinOpExpr, view View, cursor int, ctx evalCtx) *value.Value {
	// Logical operators short-circuit (spec.md §4.8) and so evaluate
	// their right operand conditionally, unlike every other operator.
	if n.Op == ir.OpAnd || n.Op == ir.OpOr {
		lhs, _ := e.evalExpr(n.Lhs, view, cursor, ctx)
		if lhs == nil || lhs.Kind != value.Bool {
			e.reportf(ArithmeticError, n.NodeSpan(), nil, "logical operator requires Bool operands")
			return nil
		}
		if n.Op == ir.OpAnd && !lhs.Bool {
			return value.NewBool(false, lhs.Provenance)
		}
		if n.Op == ir.OpOr && lhs.Bool {
			return value.NewBool(true, lhs.Provenance)
		}
		rhs, _ := e.evalExpr(n.Rhs, view, cursor, ctx)
		if rhs == nil || rhs.Kind != value.Bool {
			e.reportf(ArithmeticError, n.NodeSpan(), nil, "logical operator requires Bool operands")
			return nil
		}
		return value.NewBool(rhs.Bool, sourceinfo.UnionAll(lhs.Provenance, rhs.Provenance))
	}

	lhs, _ := e.evalExpr(n.Lhs, view, cursor, ctx)
	rhs, _ := e.evalExpr(n.Rhs, view, cursor, ctx)
	if lhs == nil || rhs == nil {
		return nil
	}
	prov := sourceinfo.UnionAll(lhs.Provenance, rhs.Provenance)

	switch n.Op {
	case ir.OpEq, ir.OpNe:
		eq := valuesEqual(lhs, rhs)
		if n.Op == ir.OpNe {
			eq = !eq
		}
		return value.NewBool(eq, prov)
	case ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe:
		cmp, ok := compareValues(lhs, rhs)
		if !ok {
			e.reportf(ArithmeticError, n.NodeSpan(), prov, "cannot order a %s against a %s", lhs.Kind, rhs.Kind)
			return nil
		}
		var result bool
		switch n.Op {
		case ir.OpLt:
			result = cmp < 0
		case ir.OpLe:
			result = cmp <= 0
		case ir.OpGt:
			result = cmp > 0
		case ir.OpGe:
			result = cmp >= 0
		}
		return value.NewBool(result, prov)
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv:
		return e.evalArith(n, lhs, rhs, prov)
	case ir.OpBitAnd, ir.OpBitOr, ir.OpBitXor, ir.OpShl, ir.OpShr:
		return e.evalBitwise(n, lhs, rhs, prov)
	}
	return nil
}

func (e *evaluator) evalArith(n *ir.BinOpExpr, lhs, rhs *value.Value, prov *sourceinfo.RangeSet) *value.Value {
	if lhs.Kind == value.Integer && rhs.Kind == value.Integer {
		if n.Op == ir.OpDiv && rhs.Int.IsZero() {
			e.reportf(ArithmeticError, n.NodeSpan(), prov, "division by zero")
			return nil
		}
		var result bignum.Int
		switch n.Op {
		case ir.OpAdd:
			result = lhs.Int.Add(rhs.Int)
		case ir.OpSub:
			result = lhs.Int.Sub(rhs.Int)
		case ir.OpMul:
			result = lhs.Int.Mul(rhs.Int)
		case ir.OpDiv:
			result = lhs.Int.Div(rhs.Int)
		}
		return value.NewInteger(result, prov)
	}
	if lhs.Kind == value.Float && rhs.Kind == value.Float {
		if n.Op == ir.OpDiv && rhs.Float64 == 0 {
			e.reportf(ArithmeticError, n.NodeSpan(), prov, "division by zero")
			return nil
		}
		var result float64
		switch n.Op {
		case ir.OpAdd:
			result = lhs.Float64 + rhs.Float64
		case ir.OpSub:
			result = lhs.Float64 - rhs.Float64
		case ir.OpMul:
			result = lhs.Float64 * rhs.Float64
		case ir.OpDiv:
			result = lhs.Float64 / rhs.Float64
		}
		return value.NewFloat(result, prov)
	}
	e.reportf(ArithmeticError, n.NodeSpan(), prov, "cannot mix %s and %s in arithmetic", lhs.Kind, rhs.Kind)
	return nil
}

func (e *evaluator) evalBitwise(n *ir.BinOpExpr, lhs, rhs *value.Value, prov *sourceinfo.RangeSet) *value.Value {
	if lhs.Kind != value.Integer || rhs.Kind != value.Integer {
		e.reportf(ArithmeticError, n.NodeSpan(), prov, "bitwise/shift operator requires Integer operands")
		return nil
	}
	switch n.Op {
	case ir.OpBitAnd:
		return value.NewInteger(lhs.Int.And(rhs.Int), prov)
	case ir.OpBitOr:
		return value.NewInteger(lhs.Int.Or(rhs.Int), prov)
	case ir.OpBitXor:
		return value.NewInteger(lhs.Int.Xor(rhs.Int), prov)
	case ir.OpShl, ir.OpShr:
		amt, ok := rhs.Int.Int64()
		if !ok || amt < 0 {
			e.reportf(ArithmeticError, n.NodeSpan(), prov, "shift amount must be a non-negative integer less than 2^64")
			return nil
		}
		if n.Op == ir.OpShl {
			return value.NewInteger(lhs.Int.Shl(uint(amt)), prov)
		}
		return value.NewInteger(lhs.Int.Shr(uint(amt)), prov)
	}
	return nil
}

// valuesEqual implements equality for `=`/`!=` (any matching type pair)
// and for Switch branch matching (spec.md's "first branch whose
// expression evaluates equal to s").
func valuesEqual(a, b *value.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.Bool:
		return a.Bool == b.Bool
	case value.Integer:
		return a.Int.Cmp(b.Int) == 0
	case value.Float:
		if math.IsNaN(a.Float64) && math.IsNaN(b.Float64) {
			return true
		}
		return a.Float64 == b.Float64
	case value.Bytes:
		return string(a.Bytes) == string(b.Bytes)
	case value.Struct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !valuesEqual(a.Fields[i].Value, b.Fields[i].Value) {
				return false
			}
		}
		return true
	case value.Array:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !valuesEqual(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// compareValues implements ordering for `<`/`<=`/`>`/`>=`: Integer and
// Float order numerically, Bytes lexicographically, Bool false < true
// (spec.md's explicit ordering rules). ok is false for any other pairing.
func compareValues(a, b *value.Value) (cmp int, ok bool) {
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case value.Integer:
		return a.Int.Cmp(b.Int), true
	case value.Float:
		switch {
		case a.Float64 < b.Float64:
			return -1, true
		case a.Float64 > b.Float64:
			return 1, true
		default:
			return 0, true
		}
	case value.Bytes:
		n := len(a.Bytes)
		if len(b.Bytes) < n {
			n = len(b.Bytes)
		}
		for i := 0; i < n; i++ {
			if a.Bytes[i] != b.Bytes[i] {
				if a.Bytes[i] < b.Bytes[i] {
					return -1, true
				}
				return 1, true
			}
		}
		switch {
		case len(a.Bytes) < len(b.Bytes):
			return -1, true
		case len(a.Bytes) > len(b.Bytes):
			return 1, true
		default:
			return 0, true
		}
	case value.Bool:
		switch {
		case a.Bool == b.Bool:
			return 0, true
		case !a.Bool && b.Bool:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}
