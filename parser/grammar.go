package parser

import "github.com/binspec/bfdl/ast"

// This file implements the BFDL grammar (spec.md §6) on top of the
// Parser/event machinery in events.go. Every rule opens a marker, bumps
// tokens as it recognizes them, and completes the marker with the node
// kind it parsed — recovering from mismatches by recording an error event
// and resynchronizing at a follow-set token rather than aborting.

var primitiveNames = map[string]bool{
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true,
	"f32": true, "f64": true,
}

func isPrimitiveName(s string) bool { return primitiveNames[s] }

// parseFile parses the whole token stream into a KindFile node.
func parseFile(p *Parser) {
	m := p.start()
	for !p.atEOF() {
		if !parseItem(p) {
			// Nothing recognized an item start; consume one token as an
			// error and resynchronize so a single bad character cannot
			// stall the parser forever.
			p.error("expected item (struct, type, or assert)")
			p.bump()
		}
	}
	p.bumpTrailingTrivia()
	m.complete(p, ast.KindFile)
}

func parseItem(p *Parser) bool {
	switch p.current().Kind {
	case ast.KindKwStruct:
		parseStructDecl(p)
		return true
	case ast.KindKwType:
		parseTypeAliasDecl(p)
		return true
	case ast.KindKwAssert:
		parseAssertionDecl(p)
		return true
	case ast.KindKwSetEndianness:
		// SPEC_FULL.md §5.2: set_endianness is usable inside a struct
		// body or at top level; the grammar is identical either way.
		parseSetEndianness(p)
		return true
	default:
		return false
	}
}

func expect(p *Parser, kind ast.Kind, what string) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	p.error("expected " + what)
	return false
}

func parseStructDecl(p *Parser) {
	m := p.start()
	p.bump() // 'struct'
	expect(p, ast.KindIdent, "struct name")
	parseFieldList(p)
	m.complete(p, ast.KindStructDecl)
}

func parseFieldList(p *Parser) {
	m := p.start()
	if !expect(p, ast.KindLBrace, "'{'") {
		m.complete(p, ast.KindFieldList)
		return
	}
	for !p.at(ast.KindRBrace) && !p.atEOF() {
		before := p.pos
		switch p.current().Kind {
		case ast.KindKwSetEndianness:
			parseSetEndianness(p)
		case ast.KindKwAssert, ast.KindKwExpect, ast.KindKwWarn:
			parseAssertionDecl(p)
		default:
			parseField(p)
		}
		if p.pos == before {
			// The attempted member matched nothing at all (e.g. a stray
			// token with no recognizable field/assertion/set_endianness
			// shape) and consumed zero tokens doing it — force progress
			// so a single bad token can't stall this loop forever.
			p.error("expected a field, assertion, or set_endianness")
			p.bump()
		}
	}
	expect(p, ast.KindRBrace, "'}'")
	m.complete(p, ast.KindFieldList)
}

func parseSetEndianness(p *Parser) {
	m := p.start()
	p.bump() // 'set_endianness'
	expect(p, ast.KindLParen, "'('")
	if p.at(ast.KindKwLittle) || p.at(ast.KindKwBig) {
		p.bump()
	} else {
		p.error("expected 'little' or 'big'")
	}
	expect(p, ast.KindRParen, "')'")
	expect(p, ast.KindSemicolon, "';'")
	m.complete(p, ast.KindSetEndiannessStmt)
}

func parseField(p *Parser) {
	m := p.start()
	if p.at(ast.KindIdent) && p.nth(1).Kind == ast.KindColon {
		p.bump() // name
		p.bump() // ':'
	}
	parseParseType(p)
	if p.at(ast.KindKwAt) {
		am := p.start()
		p.bump()
		parseExpr(p, 0)
		am.complete(p, ast.KindAtClause)
	}
	expect(p, ast.KindSemicolon, "';'")
	m.complete(p, ast.KindField)
}

func parseTypeAliasDecl(p *Parser) {
	m := p.start()
	p.bump() // 'type'
	expect(p, ast.KindIdent, "type name")
	expect(p, ast.KindAssign, "'='")
	parseParseType(p)
	expect(p, ast.KindSemicolon, "';'")
	m.complete(p, ast.KindTypeAliasDecl)
}

func parseAssertionDecl(p *Parser) {
	m := p.start()
	p.bump() // 'assert'/'expect'/'warn'
	parseExpr(p, 0)
	if p.at(ast.KindComma) {
		p.bump()
		expect(p, ast.KindStringLit, "assertion message")
	}
	expect(p, ast.KindSemicolon, "';'")
	m.complete(p, ast.KindAssertionDecl)
}

// ---- ParseType -----------------------------------------------------------

func parseParseType(p *Parser) {
	switch p.current().Kind {
	case ast.KindKwBytes:
		m := p.start()
		p.bump()
		expect(p, ast.KindLBracket, "'['")
		parseExpr(p, 0)
		expect(p, ast.KindRBracket, "']'")
		m.complete(p, ast.KindBytesType)
	case ast.KindLBracket:
		m := p.start()
		p.bump()
		parseParseType(p)
		expect(p, ast.KindSemicolon, "';'")
		parseExpr(p, 0)
		expect(p, ast.KindRBracket, "']'")
		m.complete(p, ast.KindArrayType)
	case ast.KindKwWhile:
		m := p.start()
		p.bump()
		parseExpr(p, 0)
		expect(p, ast.KindLBrace, "'{'")
		parseParseType(p)
		expect(p, ast.KindRBrace, "'}'")
		m.complete(p, ast.KindWhileType)
	case ast.KindKwIf:
		m := p.start()
		p.bump()
		parseExpr(p, 0)
		expect(p, ast.KindLBrace, "'{'")
		parseParseType(p)
		expect(p, ast.KindRBrace, "'}'")
		expect(p, ast.KindKwElse, "'else'")
		expect(p, ast.KindLBrace, "'{'")
		parseParseType(p)
		expect(p, ast.KindRBrace, "'}'")
		m.complete(p, ast.KindIfType)
	case ast.KindKwSwitch:
		parseSwitchType(p)
	case ast.KindKwElsewhere:
		m := p.start()
		p.bump()
		parseParseType(p)
		m.complete(p, ast.KindElsewhereType)
	case ast.KindIdent:
		m := p.start()
		text := p.current().Text
		p.bump()
		if isPrimitiveName(text) {
			m.complete(p, ast.KindPrimitiveType)
		} else {
			m.complete(p, ast.KindNamedType)
		}
	default:
		p.error("expected a type")
	}
}

func parseSwitchType(p *Parser) {
	m := p.start()
	p.bump() // 'switch'
	parseExpr(p, 0)
	expect(p, ast.KindLBrace, "'{'")
	for !p.at(ast.KindRBrace) && !p.atEOF() {
		before := p.pos
		if p.at(ast.KindUnderscore) {
			am := p.start()
			p.bump()
			expect(p, ast.KindFatArrow, "'=>'")
			parseParseType(p)
			if p.at(ast.KindComma) {
				p.bump()
			}
			am.complete(p, ast.KindSwitchDefaultArm)
		} else {
			am := p.start()
			parseExpr(p, 0)
			expect(p, ast.KindFatArrow, "'=>'")
			parseParseType(p)
			expect(p, ast.KindComma, "','")
			am.complete(p, ast.KindSwitchArm)
		}
		if p.pos == before {
			// Same forward-progress guard as parseFieldList's loop: a
			// totally unrecognized arm token must not stall this loop.
			p.error("expected a switch arm")
			p.bump()
		}
	}
	expect(p, ast.KindRBrace, "'}'")
	m.complete(p, ast.KindSwitchType)
}

// ---- Expr: precedence climbing with forward-parent rewrites ------------

// infixBindingPower returns (leftBP, rightBP, ok) for a binary operator
// token kind. Left-associative operators have rightBP = leftBP+1.
func infixBindingPower(k ast.Kind) (int, int, bool) {
	switch k {
	case ast.KindOrOr:
		return 1, 2, true
	case ast.KindAndAnd:
		return 3, 4, true
	case ast.KindPipe:
		return 5, 6, true
	case ast.KindCaret:
		return 7, 8, true
	case ast.KindAmp:
		return 9, 10, true
	case ast.KindEq, ast.KindNe:
		return 11, 12, true
	case ast.KindLt, ast.KindLe, ast.KindGt, ast.KindGe:
		return 13, 14, true
	case ast.KindShl, ast.KindShr:
		return 15, 16, true
	case ast.KindPlus, ast.KindMinus:
		return 17, 18, true
	case ast.KindStar, ast.KindSlash:
		return 19, 20, true
	}
	return 0, 0, false
}

// parseExpr parses an expression with precedence climbing: operators with
// a left binding power below minBP stop the loop, leaving them for an
// enclosing call. Each iteration wraps the already-parsed left-hand side
// in a new BinaryExpr node via CompletedMarker.precede — the forward-
// parent rewrite spec.md §4.2 names as the mechanism that avoids
// backtracking or re-parsing the left operand.
func parseExpr(p *Parser, minBP int) CompletedMarker {
	lhs := parseUnary(p)
	for {
		lbp, rbp, ok := infixBindingPower(p.current().Kind)
		if !ok || lbp < minBP {
			break
		}
		m := lhs.precede(p)
		p.bump() // operator
		parseExpr(p, rbp)
		lhs = m.complete(p, ast.KindBinaryExpr)
	}
	return lhs
}

func parseUnary(p *Parser) CompletedMarker {
	switch p.current().Kind {
	case ast.KindMinus, ast.KindPlus, ast.KindBang:
		m := p.start()
		p.bump()
		parseUnary(p)
		return m.complete(p, ast.KindUnaryExpr)
	default:
		return parsePostfix(p)
	}
}

func parsePostfix(p *Parser) CompletedMarker {
	lhs := parsePrimary(p)
	for p.at(ast.KindDot) {
		m := lhs.precede(p)
		p.bump() // '.'
		expect(p, ast.KindIdent, "field name")
		lhs = m.complete(p, ast.KindFieldAccessExpr)
	}
	return lhs
}

func parsePrimary(p *Parser) CompletedMarker {
	switch p.current().Kind {
	case ast.KindIntLit, ast.KindStringLit, ast.KindKwTrue, ast.KindKwFalse:
		m := p.start()
		p.bump()
		return m.complete(p, ast.KindLitExpr)
	case ast.KindIdent:
		m := p.start()
		p.bump()
		return m.complete(p, ast.KindIdentExpr)
	case ast.KindDollarOffset:
		m := p.start()
		p.bump()
		return m.complete(p, ast.KindOffsetExpr)
	case ast.KindDollarParent:
		m := p.start()
		p.bump()
		return m.complete(p, ast.KindParentExpr)
	case ast.KindDollarLast:
		m := p.start()
		p.bump()
		return m.complete(p, ast.KindLastExpr)
	case ast.KindDollarLen:
		m := p.start()
		p.bump()
		return m.complete(p, ast.KindLenExpr)
	case ast.KindDollarEndianness:
		m := p.start()
		p.bump()
		return m.complete(p, ast.KindEndiannessExpr)
	case ast.KindKwPeek:
		m := p.start()
		p.bump()
		parseParseType(p)
		if p.at(ast.KindKwAt) {
			am := p.start()
			p.bump()
			parseExpr(p, 0)
			am.complete(p, ast.KindAtClause)
		}
		return m.complete(p, ast.KindPeekExpr)
	case ast.KindLParen:
		m := p.start()
		p.bump()
		parseExpr(p, 0)
		expect(p, ast.KindRParen, "')'")
		return m.complete(p, ast.KindParenExpr)
	default:
		m := p.start()
		p.error("expected an expression")
		return m.complete(p, ast.KindErrorExpr)
	}
}
