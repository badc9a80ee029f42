// Package parser turns BFDL source text into a lossless concrete syntax
// tree (spec.md §4.1, §4.2): a lexer produces a flat token stream, and an
// event-driven parser replays it into a tree via a recorded Start/Token/
// Finish/Error event stream with forward-parent rewrites for operator
// precedence.
package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/binspec/bfdl/ast"
)

var keywords = map[string]ast.Kind{
	"struct":          ast.KindKwStruct,
	"type":            ast.KindKwType,
	"at":              ast.KindKwAt,
	"bytes":           ast.KindKwBytes,
	"while":           ast.KindKwWhile,
	"if":              ast.KindKwIf,
	"else":            ast.KindKwElse,
	"switch":          ast.KindKwSwitch,
	"elsewhere":       ast.KindKwElsewhere,
	"peek":            ast.KindKwPeek,
	"assert":          ast.KindKwAssert,
	"expect":          ast.KindKwExpect,
	"warn":            ast.KindKwWarn,
	"set_endianness":  ast.KindKwSetEndianness,
	"little":          ast.KindKwLittle,
	"big":             ast.KindKwBig,
	"true":            ast.KindKwTrue,
	"false":           ast.KindKwFalse,
}

var builtinIdents = map[string]ast.Kind{
	"$offset":     ast.KindDollarOffset,
	"$parent":     ast.KindDollarParent,
	"$last":       ast.KindDollarLast,
	"$len":        ast.KindDollarLen,
	"$endianness": ast.KindDollarEndianness,
}

// lexer is a single pass over UTF-8 source, producing a flat []ast.Token
// stream including trivia (spec.md §4.1). It never stops on malformed
// input: unrecognized bytes become a KindError token and scanning resumes
// at the next rune.
type lexer struct {
	src    []byte
	pos    int
	info   *ast.FileInfo
	tokens []ast.Token
}

func newLexer(src []byte, info *ast.FileInfo) *lexer {
	return &lexer{src: src, info: info}
}

func (l *lexer) lexAll() []ast.Token {
	for l.pos < len(l.src) {
		l.lexOne()
	}
	l.emit(ast.KindEOF, l.pos, l.pos)
	return l.tokens
}

func (l *lexer) emit(kind ast.Kind, start, end int) {
	l.tokens = append(l.tokens, ast.Token{
		Kind: kind,
		Rng:  ast.Span{Start: start, End: end},
		Text: string(l.src[start:end]),
	})
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) lexOne() {
	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == ' ' || c == '\t' || c == '\r':
		for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\r') {
			l.pos++
		}
		l.emit(ast.KindWhitespace, start, l.pos)
	case c == '\n':
		l.pos++
		l.info.AddLine(l.pos)
		l.emit(ast.KindWhitespace, start, l.pos)
	case c == '/' && l.peekByteAt(1) == '/':
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		l.emit(ast.KindLineComment, start, l.pos)
	case c == '/' && l.peekByteAt(1) == '*':
		l.pos += 2
		for l.pos < len(l.src) {
			if l.src[l.pos] == '\n' {
				l.info.AddLine(l.pos + 1)
			}
			if l.src[l.pos] == '*' && l.peekByteAt(1) == '/' {
				l.pos += 2
				break
			}
			l.pos++
		}
		l.emit(ast.KindBlockComment, start, l.pos)
	case c == '"':
		l.lexString(start)
	case c >= '0' && c <= '9':
		l.lexNumber(start)
	case c == '$':
		l.lexBuiltin(start)
	case c == '_' && !isIdentCont(l.peekByteAt(1)):
		l.lexPunct(start)
	case isIdentStart(c):
		l.lexIdentOrKeyword(start)
	default:
		l.lexPunct(start)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (l *lexer) lexIdentOrKeyword(start int) {
	l.pos++
	for l.pos < len(l.src) {
		r, sz := utf8.DecodeRune(l.src[l.pos:])
		if r == utf8.RuneError && sz <= 1 {
			if isIdentCont(l.src[l.pos]) {
				l.pos++
				continue
			}
			break
		}
		if sz == 1 {
			if !isIdentCont(l.src[l.pos]) {
				break
			}
			l.pos++
		} else if unicode.IsLetter(r) || unicode.IsDigit(r) {
			l.pos += sz
		} else {
			break
		}
	}
	text := string(l.src[start:l.pos])
	if kind, ok := keywords[text]; ok {
		l.emit(kind, start, l.pos)
		return
	}
	l.emit(ast.KindIdent, start, l.pos)
}

func (l *lexer) lexBuiltin(start int) {
	l.pos++
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	text := string(l.src[start:l.pos])
	if kind, ok := builtinIdents[text]; ok {
		l.emit(kind, start, l.pos)
		return
	}
	l.emit(ast.KindError, start, l.pos)
}

func (l *lexer) lexNumber(start int) {
	// Base prefixes: 0x, 0o, 0b; digits may be separated by '_' anywhere
	// after the first. Value parsing is deferred to lowering (spec.md
	// §4.1): the lexer only needs to find the literal's extent.
	if l.src[l.pos] == '0' && l.pos+1 < len(l.src) {
		switch l.src[l.pos+1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.pos += 2
			for l.pos < len(l.src) && (isHexDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
				l.pos++
			}
			l.emit(ast.KindIntLit, start, l.pos)
			return
		}
	}
	for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9' || l.src[l.pos] == '_') {
		l.pos++
	}
	l.emit(ast.KindIntLit, start, l.pos)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *lexer) lexString(start int) {
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos += 2
			continue
		}
		if c == '"' {
			l.pos++
			l.emit(ast.KindStringLit, start, l.pos)
			return
		}
		if c == '\n' {
			// unterminated string: stop at the newline and emit what we have
			// as an error token so the parser can resynchronize.
			break
		}
		l.pos++
	}
	l.emit(ast.KindError, start, l.pos)
}

var punctTable = []struct {
	text string
	kind ast.Kind
}{
	{"<<", ast.KindShl}, {">>", ast.KindShr},
	{"&&", ast.KindAndAnd}, {"||", ast.KindOrOr},
	{"==", ast.KindEq}, {"!=", ast.KindNe},
	{"<=", ast.KindLe}, {">=", ast.KindGe},
	{"=>", ast.KindFatArrow},
	{"=", ast.KindAssign},
	{"{", ast.KindLBrace}, {"}", ast.KindRBrace},
	{"[", ast.KindLBracket}, {"]", ast.KindRBracket},
	{"(", ast.KindLParen}, {")", ast.KindRParen},
	{":", ast.KindColon}, {";", ast.KindSemicolon},
	{",", ast.KindComma}, {".", ast.KindDot},
	{"+", ast.KindPlus}, {"-", ast.KindMinus},
	{"*", ast.KindStar}, {"/", ast.KindSlash},
	{"<", ast.KindLt}, {">", ast.KindGt},
	{"&", ast.KindAmp}, {"|", ast.KindPipe},
	{"^", ast.KindCaret}, {"!", ast.KindBang},
	{"_", ast.KindUnderscore},
}

func (l *lexer) lexPunct(start int) {
	rest := l.src[l.pos:]
	for _, p := range punctTable {
		if len(rest) >= len(p.text) && string(rest[:len(p.text)]) == p.text {
			// '_' alone is only the wildcard token if not followed by an
			// identifier continuation byte (else it's part of an identifier,
			// handled earlier in lexOne via isIdentStart).
			l.pos += len(p.text)
			l.emit(p.kind, start, l.pos)
			return
		}
	}
	_, sz := utf8.DecodeRune(rest)
	if sz == 0 {
		sz = 1
	}
	l.pos += sz
	l.emit(ast.KindError, start, l.pos)
}
