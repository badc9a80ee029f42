// Package bfdl ties the frontend (parser/ir/analysis) and the evaluator
// together into the single entry point spec.md §6 describes for an
// embedding caller: compile a description once, then evaluate it against
// as many Views as needed.
package bfdl

import (
	"github.com/binspec/bfdl/analysis"
	"github.com/binspec/bfdl/ast"
	"github.com/binspec/bfdl/eval"
	"github.com/binspec/bfdl/ir"
	"github.com/binspec/bfdl/parser"
	"github.com/binspec/bfdl/reporter"
)

// Description is a BFDL source file taken all the way through lowering and
// analysis: the lexer, CST parser, AST façade, IR lowerer, and analyzer
// have all run, and Errors/Warnings report whatever those non-aborting
// passes found. A Description with a nonempty Errors slice may still be
// usable for evaluation on a best-effort basis, mirroring spec.md §7's
// "no layer here aborts the walk early" philosophy.
type Description struct {
	File     *ir.File
	Info     *ast.FileInfo
	Errors   []reporter.ErrorWithPos
	Warnings []reporter.ErrorWithPos
}

// Compile runs every frontend stage over src: lex, parse, lower, analyze.
// filename is used only for diagnostic positions.
func Compile(filename string, src []byte) *Description {
	d := &Description{}
	handler := reporter.NewHandler(
		func(e reporter.ErrorWithPos) error { d.Errors = append(d.Errors, e); return nil },
		func(e reporter.ErrorWithPos) { d.Warnings = append(d.Warnings, e) },
	)

	astFile := parser.Parse(filename, src, handler)
	d.Info = astFile.Info
	d.File = ir.Lower(astFile, handler)
	analysis.Analyze(d.File, d.Info, handler)
	return d
}

// Eval evaluates the Named item entry against view, starting at the given
// offset, following the loaded description's symbol table (spec.md §6's
// `eval(ir, entry, view, start) -> EvalResult`).
func (d *Description) Eval(entry string, view eval.View, start int) *eval.Result {
	return eval.Eval(d.File, d.Info, ir.Symbol(entry), view, start)
}

// EntryPoints lists the top-level struct/type-alias names a caller may
// pass to Eval, in declaration order.
func (d *Description) EntryPoints() []string {
	names := make([]string, 0, len(d.File.Order()))
	for _, sym := range d.File.Order() {
		names = append(names, string(sym))
	}
	return names
}

// OK reports whether compiling produced no errors (warnings do not count).
func (d *Description) OK() bool { return len(d.Errors) == 0 }
