package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/binspec/bfdl/ast"
	"github.com/binspec/bfdl/internal/bignum"
	"github.com/binspec/bfdl/parser"
	"github.com/binspec/bfdl/reporter"
)

// Lower is a total function over the AST (spec.md §4.4): it never fails,
// recording diagnostics through handler and substituting Error nodes or
// omitting items so that analysis and evaluation can still run and report
// further problems from a single pass.
func Lower(file *ast.File, handler *reporter.Handler) *File {
	l := &lowerer{info: file.Info, handler: handler, out: NewFile()}
	for _, item := range file.Items() {
		l.lowerItem(item)
	}
	return l.out
}

type lowerer struct {
	info    *ast.FileInfo
	handler *reporter.Handler
	out     *File
}

func (l *lowerer) pos(s ast.Span) ast.SourcePosInfo { return l.info.SourcePosInfo(s) }

func (l *lowerer) errorf(s ast.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.handler.HandleError(reporter.Error(l.pos(s), &LoweringError{Message: msg, Pos: l.pos(s)}))
}

func (l *lowerer) lowerItem(item ast.Item) {
	switch n := item.(type) {
	case *ast.StructDecl:
		tok := n.NameToken()
		if tok == nil {
			l.errorf(n.Span(), "struct has no name")
			return
		}
		sym := Intern(tok.Text)
		members := l.lowerMembers(n.Fields())
		if _, had := l.out.Put(sym, &StructItem{Name: sym, Members: members, Span: n.Span()}); had {
			l.errorf(n.Span(), "duplicate top-level name %q", tok.Text)
		}
	case *ast.TypeAliasDecl:
		tok := n.NameToken()
		if tok == nil {
			l.errorf(n.Span(), "type alias has no name")
			return
		}
		sym := Intern(tok.Text)
		pt := l.lowerParseType(n.Type())
		if _, had := l.out.Put(sym, &TypeAliasItem{Name: sym, Type: pt, Span: n.Span()}); had {
			l.errorf(n.Span(), "duplicate top-level name %q", tok.Text)
		}
	case *ast.AssertionDecl:
		l.out.Asserts = append(l.out.Asserts, l.lowerAssertion(n))
	case *ast.SetEndiannessStmt:
		l.out.Endian = &SetEndian{Little: n.Little(), Span: n.Span()}
	}
}

func (l *lowerer) lowerAssertion(n *ast.AssertionDecl) *AssertionItem {
	item := &AssertionItem{Cond: l.lowerExpr(n.Cond()), Span: n.Span()}
	if tok, ok := n.Message(); ok {
		body := tok.Text
		if len(body) >= 2 {
			body = body[1 : len(body)-1]
		}
		bs, err := parser.DecodeStringLiteral(body)
		if err != nil {
			l.errorf(n.Span(), "%s", err.Error())
		}
		item.Message = string(bs)
		item.HasMsg = true
	}
	return item
}

func (l *lowerer) lowerMembers(members []ast.StructMember) []StructMember {
	out := make([]StructMember, 0, len(members))
	for _, m := range members {
		switch n := m.(type) {
		case *ast.Field:
			var name Symbol
			if tok, ok := n.NameToken(); ok {
				name = Intern(tok.Text)
			}
			var at Expr
			if e, ok := n.At(); ok {
				at = l.lowerExpr(e)
			}
			out = append(out, &Field{
				Name: name,
				Type: l.lowerParseType(n.Type()),
				At:   at,
				Span: n.Span(),
			})
		case *ast.SetEndiannessStmt:
			out = append(out, &SetEndian{Little: n.Little(), Span: n.Span()})
		case *ast.AssertionDecl:
			out = append(out, l.lowerAssertion(n))
		}
	}
	return out
}

func (l *lowerer) lowerParseType(n ast.ParseType) ParseType {
	if n == nil {
		return nil
	}
	switch t := n.(type) {
	case *ast.PrimitiveType:
		return l.lowerPrimitive(t)
	case *ast.BytesType:
		e := l.lowerExpr(t.Len())
		base := ptBase{Span: t.Span()}
		if lit, ok := e.(*Lit); ok && lit.Kind == LitBytes {
			return &FixedBytes{ptBase: base, Bytes: e}
		}
		return &FixedLength{ptBase: base, Len: e}
	case *ast.ArrayType:
		return &RepeatCount{
			ptBase: ptBase{Span: t.Span()},
			Inner:  l.lowerParseType(t.Elem()),
			Count:  l.lowerExpr(t.Count()),
		}
	case *ast.WhileType:
		return &RepeatWhile{
			ptBase: ptBase{Span: t.Span()},
			Inner:  l.lowerParseType(t.Inner()),
			Cond:   l.lowerExpr(t.Cond()),
		}
	case *ast.IfType:
		return &ParseIf{
			ptBase: ptBase{Span: t.Span()},
			Cond:   l.lowerExpr(t.Cond()),
			Then:   l.lowerParseType(t.Then()),
			Else:   l.lowerParseType(t.Else()),
		}
	case *ast.SwitchType:
		sw := &Switch{
			ptBase:    ptBase{Span: t.Span()},
			Scrutinee: l.lowerExpr(t.Scrutinee()),
			Default:   l.lowerParseType(t.Default()),
		}
		for _, arm := range t.Arms() {
			sw.Branches = append(sw.Branches, SwitchBranch{
				Key:  l.lowerExpr(arm.Key()),
				Body: l.lowerParseType(arm.Body()),
			})
		}
		return sw
	case *ast.ElsewhereType:
		return &Elsewhere{ptBase: ptBase{Span: t.Span()}, Inner: l.lowerParseType(t.Inner())}
	case *ast.NamedType:
		tok := t.NameToken()
		name := ""
		if tok != nil {
			name = tok.Text
		}
		return &Named{ptBase: ptBase{Span: t.Span()}, Name: Intern(name)}
	}
	l.errorf(n.Span(), "malformed type")
	return nil
}

func (l *lowerer) lowerPrimitive(t *ast.PrimitiveType) ParseType {
	text := t.Text()
	base := ptBase{Span: t.Span()}
	if strings.HasPrefix(text, "f") {
		bits, _ := strconv.Atoi(text[1:])
		return &Float{ptBase: base, Bits: bits}
	}
	signed := strings.HasPrefix(text, "i")
	bits, err := strconv.Atoi(text[1:])
	if err != nil {
		l.errorf(t.Span(), "malformed integer type %q", text)
		bits = 0
	}
	return &Integer{ptBase: base, Bits: bits, Signed: signed}
}

func (l *lowerer) lowerExpr(n ast.Expr) Expr {
	if n == nil {
		return nil
	}
	base := exprBase{Span: n.Span()}
	switch e := n.(type) {
	case *ast.LitExpr:
		tok := e.Token()
		if tok == nil {
			l.errorf(n.Span(), "malformed literal")
			return &Error{exprBase: base}
		}
		switch tok.Kind {
		case ast.KindIntLit:
			v, ok := bignum.Parse(tok.Text)
			if !ok {
				l.errorf(n.Span(), "malformed integer literal %q", tok.Text)
				return &Error{exprBase: base}
			}
			return &Lit{exprBase: base, Kind: LitInt, Int: v}
		case ast.KindStringLit:
			body := tok.Text
			if len(body) >= 2 {
				body = body[1 : len(body)-1]
			}
			bs, err := parser.DecodeStringLiteral(body)
			if err != nil {
				l.errorf(n.Span(), "%s", err.Error())
			}
			return &Lit{exprBase: base, Kind: LitBytes, Bytes: bs}
		case ast.KindKwTrue:
			return &Lit{exprBase: base, Kind: LitBool, Bool: true}
		case ast.KindKwFalse:
			return &Lit{exprBase: base, Kind: LitBool, Bool: false}
		}
		l.errorf(n.Span(), "unrecognized literal")
		return &Error{exprBase: base}
	case *ast.IdentExpr:
		tok := e.NameToken()
		name := ""
		if tok != nil {
			name = tok.Text
		}
		return &VarUse{exprBase: base, Name: Intern(name)}
	case *ast.OffsetExpr:
		return &Offset{exprBase: base}
	case *ast.ParentExpr:
		return &Parent{exprBase: base}
	case *ast.LastExpr:
		return &Last{exprBase: base}
	case *ast.LenExpr:
		return &Len{exprBase: base}
	case *ast.EndiannessExpr:
		return &Endianness{exprBase: base}
	case *ast.FieldAccessExpr:
		tok := e.NameToken()
		name := ""
		if tok != nil {
			name = tok.Text
		}
		return &FieldAccess{exprBase: base, Base: l.lowerExpr(e.Base()), Name: Intern(name)}
	case *ast.UnaryExpr:
		op, ok := lowerUnOp(e.OpToken())
		if !ok {
			l.errorf(n.Span(), "unrecognized unary operator")
			return &Error{exprBase: base}
		}
		return &UnOpExpr{exprBase: base, Op: op, Operand: l.lowerExpr(e.Operand())}
	case *ast.BinaryExpr:
		op, ok := lowerBinOp(e.OpToken())
		if !ok {
			l.errorf(n.Span(), "unrecognized binary operator")
			return &Error{exprBase: base}
		}
		return &BinOpExpr{exprBase: base, Op: op, Lhs: l.lowerExpr(e.Lhs()), Rhs: l.lowerExpr(e.Rhs())}
	case *ast.PeekExpr:
		var at Expr
		if a, ok := e.At(); ok {
			at = l.lowerExpr(a)
		}
		return &Peek{exprBase: base, Type: l.lowerParseType(e.Type()), At: at}
	case *ast.ErrorExpr:
		return &Error{exprBase: base}
	}
	l.errorf(n.Span(), "malformed expression")
	return &Error{exprBase: base}
}

func lowerUnOp(tok *ast.Token) (UnOp, bool) {
	if tok == nil {
		return 0, false
	}
	switch tok.Kind {
	case ast.KindMinus:
		return UnNeg, true
	case ast.KindPlus:
		return UnPlus, true
	case ast.KindBang:
		return UnNot, true
	}
	return 0, false
}

func lowerBinOp(tok *ast.Token) (BinOp, bool) {
	if tok == nil {
		return 0, false
	}
	switch tok.Kind {
	case ast.KindPlus:
		return OpAdd, true
	case ast.KindMinus:
		return OpSub, true
	case ast.KindStar:
		return OpMul, true
	case ast.KindSlash:
		return OpDiv, true
	case ast.KindEq:
		return OpEq, true
	case ast.KindNe:
		return OpNe, true
	case ast.KindLt:
		return OpLt, true
	case ast.KindLe:
		return OpLe, true
	case ast.KindGt:
		return OpGt, true
	case ast.KindGe:
		return OpGe, true
	case ast.KindAndAnd:
		return OpAnd, true
	case ast.KindOrOr:
		return OpOr, true
	case ast.KindAmp:
		return OpBitAnd, true
	case ast.KindPipe:
		return OpBitOr, true
	case ast.KindCaret:
		return OpBitXor, true
	case ast.KindShl:
		return OpShl, true
	case ast.KindShr:
		return OpShr, true
	}
	return 0, false
}
