package parser_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/binspec/bfdl/ast"
	"github.com/binspec/bfdl/parser"
	"github.com/binspec/bfdl/reporter"
)

// TestRoundTrip is spec.md §8's CST losslessness property: concatenating
// every leaf token's raw text, in order, reproduces the source exactly —
// including whitespace and comments.
func TestRoundTrip(t *testing.T) {
	sources := []string{
		`type r = u32;`,
		"struct S {\n  // a comment\n  n: u8;\n  data: bytes[n];\n}\n",
		`struct S { set_endianness(big); n: i16; assert n == 1, "bad n"; }`,
		`type t = switch $offset { 0 => u8, _ => u16 };`,
		``,
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			handler := reporter.NewHandler(nil, nil)
			file := parser.Parse("test.bfdl", []byte(src), handler)

			var b strings.Builder
			for _, tok := range file.CST().Tokens() {
				b.WriteString(tok.Text)
			}
			require.Equal(t, src, b.String())
		})
	}
}

func TestWellFormedSourceProducesNoSyntaxErrors(t *testing.T) {
	var errs []reporter.ErrorWithPos
	handler := reporter.NewHandler(func(e reporter.ErrorWithPos) error { errs = append(errs, e); return nil }, nil)
	parser.Parse("test.bfdl", []byte(`struct S { n: u8; data: bytes[n]; }`), handler)
	require.Empty(t, errs)
}

func TestMalformedSourceRecoversRatherThanAborting(t *testing.T) {
	var errs []reporter.ErrorWithPos
	handler := reporter.NewHandler(func(e reporter.ErrorWithPos) error { errs = append(errs, e); return nil }, nil)
	file := parser.Parse("test.bfdl", []byte(`struct S { n: ; data: bytes[n]; }`), handler)
	require.NotEmpty(t, errs)
	require.NotNil(t, file)
}

// A stray token with no recognizable field/arm shape at all must not stall
// parseFieldList/parseSwitchType's loops forever — each loop iteration is
// guaranteed to consume at least one token even when nothing downstream
// recognizes anything.
func TestUnrecognizedTokenInFieldListDoesNotHang(t *testing.T) {
	done := make(chan *ast.File, 1)
	go func() {
		handler := reporter.NewHandler(func(e reporter.ErrorWithPos) error { return nil }, nil)
		done <- parser.Parse("test.bfdl", []byte(`struct S { @ n: u8; }`), handler)
	}()
	select {
	case file := <-done:
		require.NotNil(t, file)
	case <-time.After(5 * time.Second):
		t.Fatal("parser hung on an unrecognized token inside a field list")
	}
}

func TestUnrecognizedTokenInSwitchArmDoesNotHang(t *testing.T) {
	done := make(chan *ast.File, 1)
	go func() {
		handler := reporter.NewHandler(func(e reporter.ErrorWithPos) error { return nil }, nil)
		done <- parser.Parse("test.bfdl", []byte(`type t = switch $offset { @ 0 => u8, _ => u16 };`), handler)
	}()
	select {
	case file := <-done:
		require.NotNil(t, file)
	case <-time.After(5 * time.Second):
		t.Fatal("parser hung on an unrecognized token inside a switch arm")
	}
}

func TestTopLevelSetEndiannessRoundTrips(t *testing.T) {
	src := `set_endianness(little); type r = u32;`
	handler := reporter.NewHandler(nil, nil)
	file := parser.Parse("test.bfdl", []byte(src), handler)

	var b strings.Builder
	for _, tok := range file.CST().Tokens() {
		b.WriteString(tok.Text)
	}
	require.Equal(t, src, b.String())

	var sawSetEndian bool
	for _, item := range file.Items() {
		if _, ok := item.(*ast.SetEndiannessStmt); ok {
			sawSetEndian = true
		}
	}
	require.True(t, sawSetEndian, "expected a top-level SetEndiannessStmt item")
}
