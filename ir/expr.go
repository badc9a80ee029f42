package ir

import (
	"github.com/binspec/bfdl/ast"
	"github.com/binspec/bfdl/internal/bignum"
)

// BinOp is a binary operator (spec.md §3's operator list).
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd // logical &&
	OpOr  // logical ||
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

// UnOp is a unary operator.
type UnOp int

const (
	UnNeg UnOp = iota
	UnPlus
	UnNot
)

// LitKind tags the Go type carried by a Lit expression.
type LitKind int

const (
	LitInt LitKind = iota
	LitBytes
	LitBool
)

// Expr is one of the variants in spec.md §3's Expr sum.
type Expr interface {
	exprNode()
	NodeSpan() ast.Span
}

type exprBase struct{ Span ast.Span }

func (e exprBase) NodeSpan() ast.Span { return e.Span }

// Lit is a literal integer, byte string, or bool.
type Lit struct {
	exprBase
	Kind  LitKind
	Int   bignum.Int
	Bytes []byte
	Bool  bool
}

// VarUse references a symbol resolved through the current scope chain
// (sibling fields parsed so far, then enclosing scopes, then top-level).
type VarUse struct {
	exprBase
	Name Symbol
}

// Offset is `$offset`: the current cursor, as an Integer.
type Offset struct{ exprBase }

// Parent is `$parent`: the in-progress enclosing struct.
type Parent struct{ exprBase }

// Last is `$last`: the most recently produced item of a repetition.
type Last struct{ exprBase }

// Len is `$len`: the count of items produced so far in a repetition.
type Len struct{ exprBase }

// Endianness is `$endianness`: 0 for little, 1 for big (SPEC_FULL.md's
// additive builtin, symmetric with the set_endianness statement).
type Endianness struct{ exprBase }

// FieldAccess is `Expr . Ident`.
type FieldAccess struct {
	exprBase
	Base Expr
	Name Symbol
}

// UnOpExpr is a unary operator applied to an operand.
type UnOpExpr struct {
	exprBase
	Op      UnOp
	Operand Expr
}

// BinOpExpr is a binary operator applied to two operands.
type BinOpExpr struct {
	exprBase
	Op  BinOp
	Lhs Expr
	Rhs Expr
}

// Peek evaluates Type at At (or the current cursor, if At is nil) without
// advancing anything.
type Peek struct {
	exprBase
	Type ParseType
	At   Expr // nil means "current cursor"
}

// Error stands in for a malformed expression: lowering records a
// diagnostic and substitutes this node so downstream passes continue.
type Error struct{ exprBase }

func (*Lit) exprNode()         {}
func (*VarUse) exprNode()      {}
func (*Offset) exprNode()      {}
func (*Parent) exprNode()      {}
func (*Last) exprNode()        {}
func (*Len) exprNode()         {}
func (*Endianness) exprNode()  {}
func (*FieldAccess) exprNode() {}
func (*UnOpExpr) exprNode()    {}
func (*BinOpExpr) exprNode()   {}
func (*Peek) exprNode()        {}
func (*Error) exprNode()       {}
