package ast

// This file is the AST facade (spec.md §4.3): a typed view over the CST.
// Every wrapper type holds the *Node it was cast from; equality between two
// wrappers of the same type is identity of that underlying node. No wrapper
// mutates the tree.

// base gives every composite wrapper its Span() and underlying Node access.
type base struct{ cst *Node }

func (b base) Span() Span  { return b.cst.Span() }
func (b base) CST() *Node  { return b.cst }

// ---- Items -----------------------------------------------------------

// File is the root of the AST: an ordered list of top-level items.
type File struct {
	base
	Info *FileInfo
}

// Item is implemented by every top-level declaration.
type Item interface {
	Span() Span
	itemNode()
}

func (File) isFile() {}

// Items returns the file's top-level declarations in source order.
func (f *File) Items() []Item {
	var out []Item
	for _, c := range f.cst.NonTrivia() {
		n, ok := c.(*Node)
		if !ok {
			continue
		}
		switch n.Kind {
		case KindStructDecl:
			out = append(out, &StructDecl{base{n}})
		case KindTypeAliasDecl:
			out = append(out, &TypeAliasDecl{base{n}})
		case KindAssertionDecl:
			out = append(out, &AssertionDecl{base{n}})
		case KindSetEndiannessStmt:
			out = append(out, &SetEndiannessStmt{base{n}})
		}
	}
	return out
}

// StructDecl is `struct Name { Field* }`.
type StructDecl struct{ base }

func (*StructDecl) itemNode() {}

func (s *StructDecl) NameToken() *Token {
	if t, ok := s.cst.FirstChildKind(KindIdent).(*Token); ok {
		return t
	}
	return nil
}

// Fields returns the struct's field list, preserving declaration order and
// interleaving set_endianness statements (spec.md's SetEndian IR node).
func (s *StructDecl) Fields() []StructMember {
	list, ok := s.cst.FirstChildKind(KindFieldList).(*Node)
	if !ok {
		return nil
	}
	var out []StructMember
	for _, c := range list.NonTrivia() {
		n, ok := c.(*Node)
		if !ok {
			continue
		}
		switch n.Kind {
		case KindField:
			out = append(out, &Field{base{n}})
		case KindSetEndiannessStmt:
			out = append(out, &SetEndiannessStmt{base{n}})
		case KindAssertionDecl:
			out = append(out, &AssertionDecl{base{n}})
		}
	}
	return out
}

// StructMember is a Field, a SetEndiannessStmt, or a nested AssertionDecl,
// in declaration order.
type StructMember interface {
	Span() Span
	structMember()
}

func (*AssertionDecl) structMember() {}

// TypeAliasDecl is `type Name = ParseType;`.
type TypeAliasDecl struct{ base }

func (*TypeAliasDecl) itemNode() {}

func (t *TypeAliasDecl) NameToken() *Token {
	if tok, ok := t.cst.FirstChildKind(KindIdent).(*Token); ok {
		return tok
	}
	return nil
}

func (t *TypeAliasDecl) Type() ParseType {
	for _, c := range t.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if pt := castParseType(n); pt != nil {
				return pt
			}
		}
	}
	return nil
}

// AssertionDecl is a top-level `assert Expr;`.
type AssertionDecl struct{ base }

func (*AssertionDecl) itemNode() {}

func (a *AssertionDecl) Cond() Expr {
	for _, c := range a.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if e := castExpr(n); e != nil {
				return e
			}
		}
	}
	return nil
}

// Message returns the optional trailing `, "text"` literal attached to the
// assertion, used as the diagnostic shown when the condition fails.
func (a *AssertionDecl) Message() (*Token, bool) {
	for _, c := range a.cst.NonTrivia() {
		if t, ok := c.(*Token); ok && t.Kind == KindStringLit {
			return t, true
		}
	}
	return nil, false
}

// ---- Fields ------------------------------------------------------------

// Field is `(Name :)? ParseType (at Expr)? ;`.
type Field struct{ base }

func (*Field) structMember() {}

func (f *Field) NameToken() (*Token, bool) {
	t, ok := f.cst.FirstChildKind(KindIdent).(*Token)
	return t, ok
}

func (f *Field) Type() ParseType {
	for _, c := range f.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if pt := castParseType(n); pt != nil {
				return pt
			}
		}
	}
	return nil
}

// At returns the field's `at` override expression, if present.
func (f *Field) At() (Expr, bool) {
	clause, ok := f.cst.FirstChildKind(KindAtClause).(*Node)
	if !ok {
		return nil, false
	}
	for _, c := range clause.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if e := castExpr(n); e != nil {
				return e, true
			}
		}
	}
	return nil, false
}

// SetEndiannessStmt is `set_endianness(little|big);`: a StructMember when
// interleaved among a struct's fields, or a top-level Item when it appears
// at file scope setting the file's ambient default (SPEC_FULL.md §5.2/§5.5).
type SetEndiannessStmt struct{ base }

func (*SetEndiannessStmt) structMember() {}
func (*SetEndiannessStmt) itemNode()     {}

// Little reports whether the directive selects little-endian (false means
// big-endian); the parser guarantees one of the two keywords was matched.
func (s *SetEndiannessStmt) Little() bool {
	return s.cst.FirstChildKind(KindKwLittle) != nil
}

// ---- ParseType nodes -----------------------------------------------------

// ParseType is implemented by every IR-parse-type surface node.
type ParseType interface {
	Span() Span
	parseTypeNode()
}

func castParseType(n *Node) ParseType {
	switch n.Kind {
	case KindPrimitiveType:
		return &PrimitiveType{base{n}}
	case KindBytesType:
		return &BytesType{base{n}}
	case KindArrayType:
		return &ArrayType{base{n}}
	case KindWhileType:
		return &WhileType{base{n}}
	case KindIfType:
		return &IfType{base{n}}
	case KindSwitchType:
		return &SwitchType{base{n}}
	case KindElsewhereType:
		return &ElsewhereType{base{n}}
	case KindNamedType:
		return &NamedType{base{n}}
	}
	return nil
}

// PrimitiveType is one of u8/u16/.../i64/f32/f64, carried verbatim as its
// token text so lowering can parse "u"/"i"/"f" + width.
type PrimitiveType struct{ base }

func (*PrimitiveType) parseTypeNode() {}

func (p *PrimitiveType) Text() string {
	if t, ok := p.cst.FirstChildKind(KindIdent).(*Token); ok {
		return t.Text
	}
	return ""
}

// BytesType is `bytes[ Expr ]`.
type BytesType struct{ base }

func (*BytesType) parseTypeNode() {}

func (b *BytesType) Len() Expr { return firstExpr(b.cst) }

// ArrayType is `[ ParseType ; Expr ]`.
type ArrayType struct{ base }

func (*ArrayType) parseTypeNode() {}

func (a *ArrayType) Elem() ParseType {
	for _, c := range a.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if pt := castParseType(n); pt != nil {
				return pt
			}
		}
	}
	return nil
}

func (a *ArrayType) Count() Expr { return firstExpr(a.cst) }

// WhileType is `while Expr { ParseType }`.
type WhileType struct{ base }

func (*WhileType) parseTypeNode() {}

func (w *WhileType) Cond() Expr { return firstExpr(w.cst) }

func (w *WhileType) Inner() ParseType {
	for _, c := range w.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if pt := castParseType(n); pt != nil {
				return pt
			}
		}
	}
	return nil
}

// IfType is `if Expr { ParseType } else { ParseType }`.
type IfType struct{ base }

func (*IfType) parseTypeNode() {}

func (i *IfType) Cond() Expr { return firstExpr(i.cst) }

func (i *IfType) branches() []ParseType {
	var out []ParseType
	for _, c := range i.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if pt := castParseType(n); pt != nil {
				out = append(out, pt)
			}
		}
	}
	return out
}

func (i *IfType) Then() ParseType {
	if b := i.branches(); len(b) > 0 {
		return b[0]
	}
	return nil
}

func (i *IfType) Else() ParseType {
	if b := i.branches(); len(b) > 1 {
		return b[1]
	}
	return nil
}

// SwitchType is `switch Expr { (Expr => ParseType ,)* (_ => ParseType)? }`.
type SwitchType struct{ base }

func (*SwitchType) parseTypeNode() {}

func (s *SwitchType) Scrutinee() Expr { return firstExpr(s.cst) }

func (s *SwitchType) Arms() []*SwitchArm {
	var out []*SwitchArm
	for _, e := range s.cst.AllChildrenKind(KindSwitchArm) {
		out = append(out, &SwitchArm{base{e.(*Node)}})
	}
	return out
}

func (s *SwitchType) Default() ParseType {
	n, ok := s.cst.FirstChildKind(KindSwitchDefaultArm).(*Node)
	if !ok {
		return nil
	}
	for _, c := range n.NonTrivia() {
		if cn, ok := c.(*Node); ok {
			if pt := castParseType(cn); pt != nil {
				return pt
			}
		}
	}
	return nil
}

// SwitchArm is one `Expr => ParseType` branch.
type SwitchArm struct{ base }

func (a *SwitchArm) Key() Expr { return firstExpr(a.cst) }

func (a *SwitchArm) Body() ParseType {
	for _, c := range a.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if pt := castParseType(n); pt != nil {
				return pt
			}
		}
	}
	return nil
}

// ElsewhereType is `elsewhere ParseType`.
type ElsewhereType struct{ base }

func (*ElsewhereType) parseTypeNode() {}

func (e *ElsewhereType) Inner() ParseType {
	for _, c := range e.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if pt := castParseType(n); pt != nil {
				return pt
			}
		}
	}
	return nil
}

// NamedType is a bare identifier referencing a top-level item.
type NamedType struct{ base }

func (*NamedType) parseTypeNode() {}

func (n *NamedType) NameToken() *Token {
	if t, ok := n.cst.FirstChildKind(KindIdent).(*Token); ok {
		return t
	}
	return nil
}

// ---- Expr nodes ----------------------------------------------------------

// Expr is implemented by every expression surface node.
type Expr interface {
	Span() Span
	exprNode()
}

func firstExpr(n *Node) Expr {
	for _, c := range n.NonTrivia() {
		if cn, ok := c.(*Node); ok {
			if e := castExpr(cn); e != nil {
				return e
			}
		}
	}
	return nil
}

func castExpr(n *Node) Expr {
	switch n.Kind {
	case KindLitExpr:
		return &LitExpr{base{n}}
	case KindIdentExpr:
		return &IdentExpr{base{n}}
	case KindOffsetExpr:
		return &OffsetExpr{base{n}}
	case KindParentExpr:
		return &ParentExpr{base{n}}
	case KindLastExpr:
		return &LastExpr{base{n}}
	case KindLenExpr:
		return &LenExpr{base{n}}
	case KindEndiannessExpr:
		return &EndiannessExpr{base{n}}
	case KindFieldAccessExpr:
		return &FieldAccessExpr{base{n}}
	case KindUnaryExpr:
		return &UnaryExpr{base{n}}
	case KindBinaryExpr:
		return &BinaryExpr{base{n}}
	case KindPeekExpr:
		return &PeekExpr{base{n}}
	case KindParenExpr:
		inner := firstExpr(n)
		if inner != nil {
			return inner
		}
		return &ErrorExpr{base{n}}
	case KindErrorExpr:
		return &ErrorExpr{base{n}}
	}
	return nil
}

// LitExpr is an integer, string, or bool literal.
type LitExpr struct{ base }

func (*LitExpr) exprNode() {}

func (l *LitExpr) Token() *Token {
	for _, c := range l.cst.Children {
		if t, ok := c.(*Token); ok && !t.Kind.IsTrivia() {
			return t
		}
	}
	return nil
}

// IdentExpr is a bare identifier reference (a field or variable use).
type IdentExpr struct{ base }

func (*IdentExpr) exprNode() {}

func (i *IdentExpr) NameToken() *Token {
	if t, ok := i.cst.FirstChildKind(KindIdent).(*Token); ok {
		return t
	}
	return nil
}

type OffsetExpr struct{ base }
type ParentExpr struct{ base }
type LastExpr struct{ base }
type LenExpr struct{ base }
type EndiannessExpr struct{ base }

func (*OffsetExpr) exprNode()     {}
func (*ParentExpr) exprNode()     {}
func (*LastExpr) exprNode()       {}
func (*LenExpr) exprNode()        {}
func (*EndiannessExpr) exprNode() {}

// FieldAccessExpr is `Expr . Ident`.
type FieldAccessExpr struct{ base }

func (*FieldAccessExpr) exprNode() {}

func (f *FieldAccessExpr) Base() Expr { return firstExpr(f.cst) }

func (f *FieldAccessExpr) NameToken() *Token {
	if t, ok := f.cst.FirstChildKind(KindIdent).(*Token); ok {
		return t
	}
	return nil
}

// UnaryExpr is `(- | + | !) Expr`.
type UnaryExpr struct{ base }

func (*UnaryExpr) exprNode() {}

func (u *UnaryExpr) OpToken() *Token {
	for _, c := range u.cst.Children {
		if t, ok := c.(*Token); ok && !t.Kind.IsTrivia() {
			return t
		}
	}
	return nil
}

func (u *UnaryExpr) Operand() Expr { return firstExpr(u.cst) }

// BinaryExpr is `Expr op Expr`.
type BinaryExpr struct{ base }

func (*BinaryExpr) exprNode() {}

func (b *BinaryExpr) operands() []Expr {
	var out []Expr
	for _, c := range b.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if e := castExpr(n); e != nil {
				out = append(out, e)
			}
		}
	}
	return out
}

func (b *BinaryExpr) Lhs() Expr {
	if o := b.operands(); len(o) > 0 {
		return o[0]
	}
	return nil
}

func (b *BinaryExpr) Rhs() Expr {
	if o := b.operands(); len(o) > 1 {
		return o[1]
	}
	return nil
}

func (b *BinaryExpr) OpToken() *Token {
	for _, c := range b.cst.Children {
		if t, ok := c.(*Token); ok && !t.Kind.IsTrivia() {
			return t
		}
	}
	return nil
}

// PeekExpr is `peek ParseType (at Expr)?`.
type PeekExpr struct{ base }

func (*PeekExpr) exprNode() {}

func (p *PeekExpr) Type() ParseType {
	for _, c := range p.cst.NonTrivia() {
		if n, ok := c.(*Node); ok {
			if pt := castParseType(n); pt != nil {
				return pt
			}
		}
	}
	return nil
}

func (p *PeekExpr) At() (Expr, bool) {
	clause, ok := p.cst.FirstChildKind(KindAtClause).(*Node)
	if !ok {
		return nil, false
	}
	if e := firstExpr(clause); e != nil {
		return e, true
	}
	return nil, false
}

// ErrorExpr stands in for a syntactically malformed expression so that
// lowering and analysis can continue past it (spec.md's Expr::Error).
type ErrorExpr struct{ base }

func (*ErrorExpr) exprNode() {}
