package parser

import "github.com/binspec/bfdl/ast"

// tombstone marks a Start event that was abandoned, or a forward-parent
// link that tree-building has already consumed; it is never a real node
// kind so it is safe to special-case against ast.Kind's zero-ish range.
const tombstone = ast.Kind(0xFFFF)

type eventKind uint8

const (
	evStart eventKind = iota
	evToken
	evFinish
	evError
)

// event is one entry in the recorded Start/Token/Finish/Error stream
// (spec.md §4.2). A Start event's Kind is mutated in place by
// Marker.complete once the node's extent is known; ForwardParent, when
// non-zero, is the event-index delta to an outer Start that should wrap
// this one (the precedence-climbing rewrite).
type event struct {
	kind          eventKind
	nodeKind      ast.Kind
	forwardParent int // 0 = none; otherwise i + forwardParent is the outer Start
	tokIdx        int // for evToken
	errMsg        string
	errSpan       ast.Span
}

// Marker references an open (possibly still-tombstoned) Start event.
type Marker struct {
	pos int
}

// CompletedMarker references a Start event whose Kind has been set.
type CompletedMarker struct {
	pos  int
	kind ast.Kind
}

// Parser drives the token stream and records the event stream; it knows
// nothing about tree shape — that is entirely tree.go's job.
type Parser struct {
	toks   []ast.Token // full stream, including trivia
	pos    int         // index into toks of the next unconsumed token
	events []event
}

func newParser(toks []ast.Token) *Parser {
	return &Parser{toks: toks}
}

// nth finds the nth non-trivia, non-EOF-skipping token starting
// from p.pos without consuming anything.
func (p *Parser) nth(n int) ast.Token {
	i := p.pos
	skipped := 0
	for i < len(p.toks) {
		if !p.toks[i].Kind.IsTrivia() {
			if skipped == n {
				return p.toks[i]
			}
			skipped++
		}
		i++
	}
	return ast.Token{Kind: ast.KindEOF}
}

func (p *Parser) current() ast.Token { return p.nth(0) }

func (p *Parser) at(k ast.Kind) bool { return p.current().Kind == k }

func (p *Parser) atEOF() bool { return p.current().Kind == ast.KindEOF }

// bump consumes leading trivia (recording them as plain Token events so
// they attach to whichever node is currently open) and then the next
// significant token, recording it as a Token event too.
func (p *Parser) bump() {
	for p.pos < len(p.toks) && p.toks[p.pos].Kind.IsTrivia() {
		p.events = append(p.events, event{kind: evToken, tokIdx: p.pos})
		p.pos++
	}
	if p.pos < len(p.toks) {
		p.events = append(p.events, event{kind: evToken, tokIdx: p.pos})
		p.pos++
	}
}

// bumpTrailingTrivia flushes any trivia tokens remaining after the last
// significant token has been consumed, so end-of-file whitespace/comments
// still end up as CST leaves (preserving the round-trip invariant) even
// though no further significant token follows them.
func (p *Parser) bumpTrailingTrivia() {
	for p.pos < len(p.toks) && p.toks[p.pos].Kind.IsTrivia() {
		p.events = append(p.events, event{kind: evToken, tokIdx: p.pos})
		p.pos++
	}
}

// start opens a new node at the current position.
func (p *Parser) start() Marker {
	pos := len(p.events)
	p.events = append(p.events, event{kind: evStart, nodeKind: tombstone})
	return Marker{pos: pos}
}

// complete closes the node, giving it its final kind.
func (m Marker) complete(p *Parser, kind ast.Kind) CompletedMarker {
	p.events[m.pos].nodeKind = kind
	p.events = append(p.events, event{kind: evFinish})
	return CompletedMarker{pos: m.pos, kind: kind}
}

// abandon discards the marker: if nothing was opened after it, the Start
// event is popped outright; otherwise it is left as a tombstone so tree
// building skips it without disturbing already-recorded child events.
func (m Marker) abandon(p *Parser) {
	if m.pos == len(p.events)-1 {
		p.events = p.events[:m.pos]
		return
	}
	p.events[m.pos].nodeKind = tombstone
}

// precede opens a new marker that will become the parent of cm once both
// are completed: this is the forward-parent rewrite that lets the parser
// wrap an already-built left operand in a new outer node (for operator
// precedence) without backtracking or cloning the tree built so far.
func (cm CompletedMarker) precede(p *Parser) Marker {
	m := p.start()
	p.events[cm.pos].forwardParent = m.pos - cm.pos
	return m
}

// error records a non-fatal diagnostic at the current position; parsing
// continues (the caller is responsible for resynchronizing).
func (p *Parser) error(msg string) {
	p.events = append(p.events, event{kind: evError, errMsg: msg, errSpan: p.current().Rng})
}
