package bfdl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binspec/bfdl"
	"github.com/binspec/bfdl/eval"
	"github.com/binspec/bfdl/value"
)

// These cases mirror spec.md §8's six worked scenarios end to end, through
// the full Compile -> Eval pipeline rather than any single package's unit
// tests.

func mustCompile(t *testing.T, src string) *bfdl.Description {
	t.Helper()
	d := bfdl.Compile("test.bfdl", []byte(src))
	require.Empty(t, d.Errors, "unexpected compile errors: %v", d.Errors)
	return d
}

func TestLittleEndianU32(t *testing.T) {
	d := mustCompile(t, `type r = u32;`)
	res := d.Eval("r", eval.NewMemInput([]byte{0x01, 0x02, 0x03, 0x04}), 0)
	require.Empty(t, res.Errors)
	require.NotNil(t, res.Value)
	require.Equal(t, value.Integer, res.Value.Kind)
	got, ok := res.Value.Int.Int64()
	require.True(t, ok)
	require.Equal(t, int64(0x04030201), got)
	require.True(t, res.Value.Provenance.Bounded(4))
}

func TestStructWithLengthPrefixedBytes(t *testing.T) {
	d := mustCompile(t, `struct S { n: u8; data: bytes[n]; }`)
	res := d.Eval("S", eval.NewMemInput([]byte{0x03, 0x41, 0x42, 0x43, 0xFF}), 0)
	require.Empty(t, res.Errors)
	require.NotNil(t, res.Value)

	n, ok := res.Value.Field("n")
	require.True(t, ok)
	nVal, _ := n.Int.Int64()
	require.Equal(t, int64(3), nVal)

	data, ok := res.Value.Field("data")
	require.True(t, ok)
	require.Equal(t, []byte{0x41, 0x42, 0x43}, data.Bytes)
}

func TestElsewhereWithAt(t *testing.T) {
	d := mustCompile(t, `struct S { p: u32 at 0; tail: u8 at p; }`)
	input := []byte{0x05, 0x00, 0x00, 0x00, 0, 0x99}
	res := d.Eval("S", eval.NewMemInput(input), 0)
	require.Empty(t, res.Errors)

	p, _ := res.Value.Field("p")
	pVal, _ := p.Int.Int64()
	require.Equal(t, int64(5), pVal)

	tail, _ := res.Value.Field("tail")
	tailVal, _ := tail.Int.Int64()
	require.Equal(t, int64(0x99), tailVal)
}

func TestShortInput(t *testing.T) {
	d := mustCompile(t, `type r = u32;`)
	res := d.Eval("r", eval.NewMemInput([]byte{0x01, 0x02}), 0)
	require.Nil(t, res.Value)
	require.Len(t, res.Errors, 1)
	require.Equal(t, eval.InputTooShort, res.Errors[0].Kind)
}

func TestSwitchFirstMatch(t *testing.T) {
	d := mustCompile(t, `struct S { tag: u8; v: switch tag { 1 => u16, 2 => u32, _ => u8 }; }`)
	input := []byte{0x02, 0x2A, 0x00, 0x00, 0x00}
	res := d.Eval("S", eval.NewMemInput(input), 0)
	require.Empty(t, res.Errors)

	v, ok := res.Value.Field("v")
	require.True(t, ok)
	got, _ := v.Int.Int64()
	require.Equal(t, int64(42), got)
}

// A bare `at` clause (no `elsewhere` keyword) must restore the cursor to
// where it stood before the field was parsed, regardless of the field's
// own ParseType kind, so later siblings read from the right offset.
func TestBareAtRestoresCursorForLaterSiblings(t *testing.T) {
	d := mustCompile(t, `struct S { p: u32 at 0; tail: u8 at p; next: u8; }`)
	input := []byte{0x05, 0x00, 0x00, 0x00, 0xAA, 0x99}
	res := d.Eval("S", eval.NewMemInput(input), 0)
	require.Empty(t, res.Errors)

	tail, _ := res.Value.Field("tail")
	tailVal, _ := tail.Int.Int64()
	require.Equal(t, int64(0x99), tailVal, "tail should read from offset p=5")

	next, _ := res.Value.Field("next")
	require.True(t, next != nil)
	nextVal, _ := next.Int.Int64()
	require.Equal(t, int64(0xAA), nextVal, "next must resume at offset 4, not fall through tail's at-clause")
}

// spec.md: "NaN values compare equal to themselves for testing purposes."
func TestNaNComparesEqualToItself(t *testing.T) {
	d := mustCompile(t, `struct S { a: f32; assert a == a; }`)
	// 0x7fc00000 little-endian is a canonical quiet NaN.
	res := d.Eval("S", eval.NewMemInput([]byte{0x00, 0x00, 0xC0, 0x7F}), 0)
	require.Empty(t, res.Errors, "NaN must compare equal to itself, not fail the assertion")
}

// An Elsewhere/peek target past the end of the input reads through a
// Subview clipped to zero length, which must surface as InputTooShort
// (spec.md §3's "for subviews, reads clip to valid_range"), not
// OffsetTooLarge.
func TestElsewhereOutOfRangeIsInputTooShort(t *testing.T) {
	d := mustCompile(t, `struct S { tail: elsewhere u32 at 100; }`)
	res := d.Eval("S", eval.NewMemInput([]byte{0x01, 0x02, 0x03, 0x04}), 0)
	require.Len(t, res.Errors, 1)
	require.Equal(t, eval.InputTooShort, res.Errors[0].Kind)
}

// Top-level `set_endianness(big);` must seed every entry point's default
// endianness, not just one used inside a struct body.
func TestTopLevelSetEndiannessAffectsDefault(t *testing.T) {
	d := mustCompile(t, `set_endianness(big); type r = u32;`)
	res := d.Eval("r", eval.NewMemInput([]byte{0x01, 0x02, 0x03, 0x04}), 0)
	require.Empty(t, res.Errors)
	got, _ := res.Value.Int.Int64()
	require.Equal(t, int64(0x01020304), got)
}

func TestAssertionFailure(t *testing.T) {
	d := mustCompile(t, `struct S { n: u8; assert n == 1; }`)
	res := d.Eval("S", eval.NewMemInput([]byte{0x02}), 0)
	require.NotNil(t, res.Value)

	n, ok := res.Value.Field("n")
	require.True(t, ok)
	nVal, _ := n.Int.Int64()
	require.Equal(t, int64(2), nVal)

	require.Len(t, res.Errors, 1)
	require.Equal(t, eval.AssertionFailure, res.Errors[0].Kind)
	require.True(t, res.Errors[0].Provenance.Contains(0))
}
