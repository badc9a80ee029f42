package parser

import "github.com/binspec/bfdl/ast"

// Diagnostic is a syntax error recorded during parsing: an expected-token
// description plus the span where the mismatch was found (spec.md §4.2).
type Diagnostic struct {
	Msg  string
	Span ast.Span
}

// buildTree replays the recorded event stream into the lossless CST,
// inlining forward-parent rewrites in reverse order so the final tree
// reflects correct operator nesting (spec.md §4.2). Every token in toks
// (trivia included) ends up under exactly one node, so leaf-text
// concatenation reproduces the source verbatim.
func buildTree(toks []ast.Token, events []event) (*ast.Node, []Diagnostic) {
	var stack []*ast.Node
	var diags []Diagnostic
	var forwardParents []ast.Kind

	push := func(kind ast.Kind) {
		stack = append(stack, &ast.Node{Kind: kind})
	}
	popInto := func() {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			stack = append(stack, n)
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, n)
	}

	for i := 0; i < len(events); i++ {
		ev := events[i]
		switch ev.kind {
		case evStart:
			if ev.nodeKind == tombstone {
				continue
			}
			forwardParents = forwardParents[:0]
			forwardParents = append(forwardParents, ev.nodeKind)
			idx := i
			fp := ev.forwardParent
			for fp != 0 {
				idx += fp
				k := events[idx].nodeKind
				fp = events[idx].forwardParent
				events[idx].nodeKind = tombstone
				if k != tombstone {
					forwardParents = append(forwardParents, k)
				}
			}
			for j := len(forwardParents) - 1; j >= 0; j-- {
				push(forwardParents[j])
			}
		case evToken:
			tok := toks[ev.tokIdx]
			leaf := &ast.Token{Kind: tok.Kind, Rng: tok.Rng, Text: tok.Text}
			if len(stack) == 0 {
				push(ast.KindFile)
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, leaf)
		case evFinish:
			popInto()
		case evError:
			diags = append(diags, Diagnostic{Msg: ev.errMsg, Span: ev.errSpan})
		}
	}
	for len(stack) > 1 {
		popInto()
	}
	if len(stack) == 0 {
		return &ast.Node{Kind: ast.KindFile}, diags
	}
	return stack[0], diags
}
