// Package ir is the Intermediate Representation the evaluator walks: a
// File of named top-level items, an expression tree, and ParseType nodes
// (spec.md §3, §4.4). Lowering from the AST never fails — malformed
// constructs become Expr Error nodes or are simply omitted — so the
// analyzer and evaluator can report many diagnostics from a single pass.
package ir

import "github.com/binspec/bfdl/ast"

// Item is a top-level declaration: a struct, a type alias, or a bare
// assertion.
type Item interface {
	itemNode()
}

// StructItem is `struct Name { Field* }`.
type StructItem struct {
	Name    Symbol
	Members []StructMember
	Span    ast.Span
}

func (*StructItem) itemNode() {}

// TypeAliasItem is `type Name = ParseType;`.
type TypeAliasItem struct {
	Name Symbol
	Type ParseType
	Span ast.Span
}

func (*TypeAliasItem) itemNode() {}

// AssertionItem is a top-level `assert Expr;`, with no name of its own.
// Message is the decoded text of an optional trailing `, "text"` literal,
// shown by the evaluator when Cond evaluates false.
type AssertionItem struct {
	Cond    Expr
	Message string
	HasMsg  bool
	Span    ast.Span
}

func (*AssertionItem) itemNode() {}

// StructMember is a Field, a SetEndian directive, or a nested assertion, in
// declaration order (spec.md's note that endianness needs an observable
// syntactic carrier).
type StructMember interface {
	structMember()
}

func (*AssertionItem) structMember() {}

// Field is `{kind: ParseType, at: Option<Expr>}` with an optional name;
// an empty Name denotes an anonymous (padding/skip) field.
type Field struct {
	Name Symbol
	Type ParseType
	At   Expr // nil if absent
	Span ast.Span
}

func (*Field) structMember() {}

// SetEndian is the `set_endianness(little|big);` directive. It doubles as a
// StructMember (interleaved with a struct's fields) and a top-level Item
// (SPEC_FULL.md §5.2's "usable inside a struct body or at top level"),
// mirroring AssertionItem's own dual role above.
type SetEndian struct {
	Little bool
	Span   ast.Span
}

func (*SetEndian) structMember() {}
func (*SetEndian) itemNode()     {}

// ParseType is one of the variants enumerated in spec.md §3.
type ParseType interface {
	parseTypeNode()
	NodeSpan() ast.Span
}

type ptBase struct{ Span ast.Span }

func (p ptBase) NodeSpan() ast.Span { return p.Span }

// FixedBytes reads len(bytes) bytes and requires them to equal the
// evaluated literal exactly (spec.md "FixedBytes(expr)").
type FixedBytes struct {
	ptBase
	Bytes Expr
}

// FixedLength reads a caller-specified number of bytes with no content
// check (spec.md "FixedLength(expr)").
type FixedLength struct {
	ptBase
	Len Expr
}

// Integer reads Bits/8 bytes and decodes them as a signed or unsigned
// integer per the current endianness.
type Integer struct {
	ptBase
	Bits   int
	Signed bool
}

// Float reads Bits/8 bytes and decodes them as IEEE-754 binary32/64.
type Float struct {
	ptBase
	Bits int
}

// Named refers to another top-level item by symbol.
type Named struct {
	ptBase
	Name Symbol
}

// Elsewhere parses Inner at a different offset without advancing the
// outer cursor.
type Elsewhere struct {
	ptBase
	Inner ParseType
}

// Struct parses an ordered list of fields (and SetEndian directives),
// pushing each into scope before the next is parsed.
type Struct struct {
	ptBase
	Members []StructMember
}

// RepeatCount runs Inner exactly Count times.
type RepeatCount struct {
	ptBase
	Inner ParseType
	Count Expr
}

// RepeatWhile runs Inner until Cond evaluates false (checked after each
// iteration, with $last/$len updated).
type RepeatWhile struct {
	ptBase
	Inner ParseType
	Cond  Expr
}

// ParseIf runs Then or Else depending on Cond.
type ParseIf struct {
	ptBase
	Cond Expr
	Then ParseType
	Else ParseType
}

// SwitchBranch is one `Expr => ParseType` arm.
type SwitchBranch struct {
	Key  Expr
	Body ParseType
}

// Switch picks the first branch whose Key evaluates equal to Scrutinee,
// else Default (which may be nil, meaning "no match is an error").
type Switch struct {
	ptBase
	Scrutinee Expr
	Branches  []SwitchBranch
	Default   ParseType
}

func (*FixedBytes) parseTypeNode()   {}
func (*FixedLength) parseTypeNode()  {}
func (*Integer) parseTypeNode()      {}
func (*Float) parseTypeNode()        {}
func (*Named) parseTypeNode()        {}
func (*Elsewhere) parseTypeNode()    {}
func (*Struct) parseTypeNode()       {}
func (*RepeatCount) parseTypeNode()  {}
func (*RepeatWhile) parseTypeNode()  {}
func (*ParseIf) parseTypeNode()      {}
func (*Switch) parseTypeNode()       {}
