package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binspec/bfdl/analysis"
	"github.com/binspec/bfdl/ast"
	"github.com/binspec/bfdl/ir"
	"github.com/binspec/bfdl/parser"
	"github.com/binspec/bfdl/reporter"
)

func analyzeSrc(t *testing.T, src string) []reporter.ErrorWithPos {
	t.Helper()
	var errs []reporter.ErrorWithPos
	handler := reporter.NewHandler(
		func(e reporter.ErrorWithPos) error { errs = append(errs, e); return nil },
		nil,
	)
	file := parser.Parse("test.bfdl", []byte(src), handler)
	lowered := ir.Lower(file, handler)
	require.NotNil(t, lowered)
	analysis.Analyze(lowered, file.Info, handler)
	return errs
}

func TestUnresolvedNameIsReported(t *testing.T) {
	errs := analyzeSrc(t, `struct S { n: bytes[missing]; }`)
	require.NotEmpty(t, errs)
}

func TestForwardReferenceWithinStructIsUnresolved(t *testing.T) {
	// check 1: a field may only see siblings parsed before it.
	errs := analyzeSrc(t, `struct S { data: bytes[n]; n: u8; }`)
	require.NotEmpty(t, errs)
}

func TestTrailingSiblingSeesEarlierField(t *testing.T) {
	errs := analyzeSrc(t, `struct S { n: u8; data: bytes[n]; }`)
	require.Empty(t, errs)
}

func TestLastOutsideRepeatIsInvalidContext(t *testing.T) {
	errs := analyzeSrc(t, `struct S { n: u8 at $last; }`)
	require.NotEmpty(t, errs)
}

func TestLenInsideRepeatIsValid(t *testing.T) {
	errs := analyzeSrc(t, `struct S { xs: while $len < 4 { u8 }; }`)
	require.Empty(t, errs)
}

func TestMultiByteIntegerBeforeEndiannessIsFlagged(t *testing.T) {
	// the body does set endianness, just too late for n's own read.
	errs := analyzeSrc(t, `struct S { n: u32; set_endianness(little); }`)
	require.NotEmpty(t, errs)
}

func TestMultiByteIntegerWithNoSetEndianIsFine(t *testing.T) {
	// no set_endianness anywhere in the body: the native default applies
	// and there is no "too late" to be flagged against.
	errs := analyzeSrc(t, `struct S { n: u32; }`)
	require.Empty(t, errs)
}

func TestTopLevelAliasNeedsNoEndianness(t *testing.T) {
	errs := analyzeSrc(t, `type r = u32;`)
	require.Empty(t, errs)
}

func TestMultiByteIntegerAfterSetEndiannessIsFine(t *testing.T) {
	errs := analyzeSrc(t, `struct S { set_endianness(little); n: u32; }`)
	require.Empty(t, errs)
}

func TestSingleByteIntegerNeedsNoEndianness(t *testing.T) {
	errs := analyzeSrc(t, `struct S { n: u8; }`)
	require.Empty(t, errs)
}

func TestMismatchedEqualityIsFlagged(t *testing.T) {
	// both operands are literals, so check 6's static inference applies.
	errs := analyzeSrc(t, `struct S { n: u8; assert 1 == "x"; }`)
	require.NotEmpty(t, errs)
}

func TestAssertionMessageMustBeValidUTF8(t *testing.T) {
	// a lone continuation byte is invalid UTF-8 once decoded.
	errs := analyzeSrc(t, "struct S { n: u8; assert n == 1, \"\\x80\"; }")
	require.NotEmpty(t, errs)
}
