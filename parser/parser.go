package parser

import (
	"github.com/binspec/bfdl/ast"
	"github.com/binspec/bfdl/reporter"
)

// Parse lexes and parses src, returning the AST root together with
// whatever the handler accumulated. Parse never returns a nil *ast.File:
// on catastrophic input it still returns an (empty) file so callers can
// keep going, mirroring the partial-result philosophy of spec.md §4.2 and
// §7 ("Parsing never aborts").
func Parse(filename string, src []byte, handler *reporter.Handler) *ast.File {
	info := ast.NewFileInfo(filename, src)
	toks := newLexer(src, info).lexAll()

	for _, t := range toks {
		if t.Kind == ast.KindError {
			handler.HandleError(reporter.Error(
				info.SourcePosInfo(t.Rng),
				&SyntaxError{Message: "unrecognized character", Pos: info.SourcePosInfo(t.Rng)},
			))
		}
	}

	p := newParser(toks)
	parseFile(p)
	root, diags := buildTree(toks, p.events)

	for _, d := range diags {
		handler.HandleError(reporter.Error(
			info.SourcePosInfo(d.Span),
			&SyntaxError{Message: d.Msg, Pos: info.SourcePosInfo(d.Span)},
		))
	}

	return ast.NewFile(root, info)
}
