package ast

// Element is anything that can live as a child in the concrete syntax
// tree: either a *Node (composite) or a *Token (leaf). Every input byte
// appears in exactly one leaf; the tree is immutable once built.
type Element interface {
	Span() Span
	isElement()
}

// Node is a composite CST node: a Kind tag plus an ordered list of
// children (tokens and/or nested nodes). Concatenating the text of every
// leaf under a Node, in order, reproduces exactly the source text it
// spans — including trivia.
type Node struct {
	Kind     Kind
	Children []Element
}

func (n *Node) isElement() {}

// Span is the union of the first and last child's spans. A Node with no
// children (the root of an empty file, or a node the parser opened and
// closed during error recovery without consuming a token) has a zero Span.
func (n *Node) Span() Span {
	if len(n.Children) == 0 {
		return Span{}
	}
	return n.Children[0].Span().Union(n.Children[len(n.Children)-1].Span())
}

// Tokens returns every leaf token under this node, in source order,
// including trivia. Used by the round-trip property test (spec.md §8).
func (n *Node) Tokens() []*Token {
	var out []*Token
	var walk func(Element)
	walk = func(e Element) {
		switch v := e.(type) {
		case *Token:
			out = append(out, v)
		case *Node:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

// NonTrivia returns the children of n that are not whitespace/comment
// tokens: composite children pass through unconditionally.
func (n *Node) NonTrivia() []Element {
	var out []Element
	for _, c := range n.Children {
		if t, ok := c.(*Token); ok && t.Kind.IsTrivia() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FirstChildKind returns the first non-trivia child of the given kind, or
// nil if none matches.
func (n *Node) FirstChildKind(k Kind) Element {
	for _, c := range n.NonTrivia() {
		switch v := c.(type) {
		case *Node:
			if v.Kind == k {
				return v
			}
		case *Token:
			if v.Kind == k {
				return v
			}
		}
	}
	return nil
}

// AllChildrenKind returns every non-trivia child of the given kind.
func (n *Node) AllChildrenKind(k Kind) []Element {
	var out []Element
	for _, c := range n.NonTrivia() {
		switch v := c.(type) {
		case *Node:
			if v.Kind == k {
				out = append(out, v)
			}
		case *Token:
			if v.Kind == k {
				out = append(out, v)
			}
		}
	}
	return out
}
