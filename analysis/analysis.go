// Package analysis implements the IR well-formedness checks of spec.md
// §4.5. Like every other pass in the pipeline it never aborts: every
// violation is reported through a reporter.Handler and the walk continues,
// so a single invocation can surface every problem in the source at once.
package analysis

import (
	"fmt"
	"unicode/utf8"

	"github.com/binspec/bfdl/ast"
	"github.com/binspec/bfdl/ir"
	"github.com/binspec/bfdl/reporter"
)

// Analyze walks every top-level item of file and reports each violation of
// the seven checks in spec.md §4.5 through handler. info supplies the
// line/column translation for the spans stored on IR nodes.
func Analyze(file *ir.File, info *ast.FileInfo, handler *reporter.Handler) {
	a := &analyzer{file: file, info: info, handler: handler}
	for _, item := range file.Items() {
		switch it := item.(type) {
		case *ir.StructItem:
			a.analyzeStructBody(it.Members, nil, ctx{})
		case *ir.TypeAliasItem:
			a.analyzeParseType(it.Type, nil, ctx{})
		case *ir.AssertionItem:
			a.analyzeExpr(it.Cond, nil, ctx{})
			a.checkMessage(it)
		}
	}
	for _, as := range file.Asserts {
		a.analyzeExpr(as.Cond, nil, ctx{})
		a.checkMessage(as)
	}
}

// scope is one lexical level of already-declared field names: the fields of
// the struct body currently being walked, parsed so far (spec.md §4.5
// check 1's "current struct fields parsed so far, then enclosing scopes").
type scope struct {
	names  map[ir.Symbol]bool
	parent *scope
}

func (s *scope) has(name ir.Symbol) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.names[name] {
			return true
		}
	}
	return false
}

// ctx carries the contextual-validity state for check 2 ($offset/$parent/
// $last/$len) and the running "has endianness been set yet on this path"
// flag for check 3. It is threaded by value since each branch of a
// conditional or switch explores its own, independent path.
type ctx struct {
	inStruct   bool
	inRepeat   bool
	endianSet  bool
	endianFlag *bool // shared back-pointer so a SetEndian sibling updates later siblings
}

type analyzer struct {
	file    *ir.File
	info    *ast.FileInfo
	handler *reporter.Handler
}

func (a *analyzer) pos(s ast.Span) ast.SourcePosInfo { return a.info.SourcePosInfo(s) }

func (a *analyzer) errorf(kind Kind, s ast.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.handler.HandleError(reporter.Error(a.pos(s), &Error{Kind: kind, Message: msg, Pos: a.pos(s)}))
}

func (a *analyzer) analyzeStructBody(members []ir.StructMember, enclosing *scope, c ctx) {
	cur := &scope{names: map[ir.Symbol]bool{}, parent: enclosing}
	c.inStruct = true

	// A body with no set_endianness directive at all relies entirely on
	// the evaluator's initial ("native") endianness for every multi-byte
	// read in it, which is a well-defined value, not an absent one — so
	// check 3 only has something to say about bodies that set endianness
	// explicitly at least once: there, a multi-byte read before the first
	// such directive almost certainly parsed with the wrong byte order.
	hasSetEndian := false
	for _, m := range members {
		if _, ok := m.(*ir.SetEndian); ok {
			hasSetEndian = true
			break
		}
	}

	endianSet := !hasSetEndian
	c.endianFlag = &endianSet
	for _, m := range members {
		switch mm := m.(type) {
		case *ir.Field:
			if mm.At != nil {
				a.analyzeExpr(mm.At, cur, c)
			}
			a.analyzeParseType(mm.Type, cur, c)
			if mm.Name != "" {
				cur.names[mm.Name] = true
			}
		case *ir.SetEndian:
			endianSet = true
		case *ir.AssertionItem:
			a.analyzeExpr(mm.Cond, cur, c)
			a.checkMessage(mm)
		}
	}
}

func (a *analyzer) analyzeParseType(t ir.ParseType, s *scope, c ctx) {
	if t == nil {
		return
	}
	switch n := t.(type) {
	case *ir.FixedBytes:
		a.analyzeExpr(n.Bytes, s, c)
	case *ir.FixedLength:
		a.analyzeExpr(n.Len, s, c)
	case *ir.Integer:
		a.checkWidth(n.Bits, n.NodeSpan())
		if n.Bits > 8 && !*c.endianFlagOrZero() {
			a.errorf(EndiannessNotSet, n.NodeSpan(),
				"multi-byte integer (%d bits) parsed before endianness is set on this path", n.Bits)
		}
	case *ir.Float:
		if n.Bits != 32 && n.Bits != 64 {
			a.errorf(InvalidWidth, n.NodeSpan(), "float width must be 32 or 64, got %d", n.Bits)
		}
		if !*c.endianFlagOrZero() {
			a.errorf(EndiannessNotSet, n.NodeSpan(), "float parsed before endianness is set on this path")
		}
	case *ir.Named:
		if _, ok := a.file.Get(n.Name); !ok {
			a.errorf(UnresolvedName, n.NodeSpan(), "undefined type %q", n.Name)
		}
	case *ir.Elsewhere:
		a.analyzeParseType(n.Inner, s, c)
	case *ir.Struct:
		a.analyzeStructBody(n.Members, s, c)
	case *ir.RepeatCount:
		a.analyzeExpr(n.Count, s, c)
		rc := c
		rc.inRepeat = true
		a.analyzeParseType(n.Inner, s, rc)
	case *ir.RepeatWhile:
		rc := c
		rc.inRepeat = true
		a.analyzeParseType(n.Inner, s, rc)
		a.analyzeExpr(n.Cond, s, rc)
	case *ir.ParseIf:
		a.analyzeExpr(n.Cond, s, c)
		a.analyzeParseType(n.Then, s, c)
		a.analyzeParseType(n.Else, s, c)
	case *ir.Switch:
		a.analyzeExpr(n.Scrutinee, s, c)
		for _, br := range n.Branches {
			a.analyzeExpr(br.Key, s, c)
			a.analyzeParseType(br.Body, s, c)
		}
		a.analyzeParseType(n.Default, s, c)
	}
}

// endianFlagOrZero lets call sites outside any struct body (a top-level type
// alias's ParseType, which by grammar can never carry a SetEndian directive
// of its own) treat endianness as always-already-set, so the ambient
// default applies without ever being flagged.
func (c ctx) endianFlagOrZero() *bool {
	if c.endianFlag != nil {
		return c.endianFlag
	}
	t := true
	return &t
}

func (a *analyzer) checkWidth(bits int, span ast.Span) {
	if bits <= 0 {
		a.errorf(InvalidWidth, span, "integer width must be positive, got %d", bits)
		return
	}
	if bits%8 != 0 {
		a.errorf(InvalidWidth, span, "non-byte-aligned integer width %d is not supported outside bitfields", bits)
	}
}

func (a *analyzer) analyzeExpr(e ir.Expr, s *scope, c ctx) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ir.VarUse:
		if !a.resolves(n.Name, s) {
			a.errorf(UnresolvedName, n.NodeSpan(), "undefined name %q", n.Name)
		}
	case *ir.FieldAccess:
		a.analyzeExpr(n.Base, s, c)
	case *ir.Parent:
		if !c.inStruct {
			a.errorf(InvalidContext, n.NodeSpan(), "$parent used outside a struct body")
		}
	case *ir.Last:
		if !c.inRepeat {
			a.errorf(InvalidContext, n.NodeSpan(), "$last used outside a repetition")
		}
	case *ir.Len:
		if !c.inRepeat {
			a.errorf(InvalidContext, n.NodeSpan(), "$len used outside a repetition")
		}
	case *ir.UnOpExpr:
		a.analyzeExpr(n.Operand, s, c)
	case *ir.BinOpExpr:
		a.analyzeExpr(n.Lhs, s, c)
		a.analyzeExpr(n.Rhs, s, c)
		a.checkComparison(n, s)
	case *ir.Peek:
		a.analyzeParseType(n.Type, s, c)
		if n.At != nil {
			a.analyzeExpr(n.At, s, c)
		}
	}
}

func (a *analyzer) resolves(name ir.Symbol, s *scope) bool {
	if s != nil && s.has(name) {
		return true
	}
	_, ok := a.file.Get(name)
	return ok
}

// staticType is a coarse, best-effort type tag used only for check 6; the
// language is otherwise dynamically typed (spec.md §6's Value model), so
// this never claims more than it can support from syntax alone.
type staticType int

const (
	tyUnknown staticType = iota
	tyBool
	tyInt
	tyFloat
	tyBytes
)

func (a *analyzer) inferType(e ir.Expr) staticType {
	switch n := e.(type) {
	case *ir.Lit:
		switch n.Kind {
		case ir.LitInt:
			return tyInt
		case ir.LitBytes:
			return tyBytes
		case ir.LitBool:
			return tyBool
		}
	case *ir.Offset, *ir.Last, *ir.Len, *ir.Endianness:
		return tyInt
	case *ir.UnOpExpr:
		if n.Op == ir.UnNot {
			return tyBool
		}
		return a.inferType(n.Operand)
	case *ir.BinOpExpr:
		switch n.Op {
		case ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe, ir.OpAnd, ir.OpOr:
			return tyBool
		default:
			lt, rt := a.inferType(n.Lhs), a.inferType(n.Rhs)
			if lt == tyFloat || rt == tyFloat {
				return tyFloat
			}
			if lt == tyInt || rt == tyInt {
				return tyInt
			}
		}
	}
	return tyUnknown
}

// checkComparison enforces spec.md §4.5 check 6: `=`/`!=` accept any
// matching type pair, ordering operators require integer/float. Operands
// whose type can't be inferred statically (names, field access, $parent)
// are skipped rather than flagged — this check only catches mismatches
// syntax alone already proves, consistent with the evaluator being the
// final arbiter of dynamic type errors.
func (a *analyzer) checkComparison(n *ir.BinOpExpr, s *scope) {
	lt, rt := a.inferType(n.Lhs), a.inferType(n.Rhs)
	if lt == tyUnknown || rt == tyUnknown {
		return
	}
	switch n.Op {
	case ir.OpEq, ir.OpNe:
		if lt != rt {
			a.errorf(TypeMismatch, n.NodeSpan(), "comparing mismatched types")
		}
	case ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe:
		numeric := func(t staticType) bool { return t == tyInt || t == tyFloat }
		if !numeric(lt) || !numeric(rt) {
			a.errorf(TypeMismatch, n.NodeSpan(), "ordering operator requires integer or float operands")
		}
	}
}

func (a *analyzer) checkMessage(item *ir.AssertionItem) {
	if !item.HasMsg {
		return
	}
	if !utf8.ValidString(item.Message) {
		a.errorf(InvalidMessageUTF8, item.Span, "assertion message is not valid UTF-8")
	}
}
