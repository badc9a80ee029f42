package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binspec/bfdl/ir"
	"github.com/binspec/bfdl/parser"
	"github.com/binspec/bfdl/reporter"
)

func lowerSrc(t *testing.T, src string) *ir.File {
	t.Helper()
	handler := reporter.NewHandler(nil, nil)
	file := parser.Parse("test.bfdl", []byte(src), handler)
	return ir.Lower(file, handler)
}

func TestBytesLiteralLowersToFixedBytes(t *testing.T) {
	f := lowerSrc(t, `struct S { magic: bytes["BM"]; }`)
	item, ok := f.Get(ir.Intern("S"))
	require.True(t, ok)
	s := item.(*ir.StructItem)
	require.Len(t, s.Members, 1)
	field := s.Members[0].(*ir.Field)
	_, ok = field.Type.(*ir.FixedBytes)
	require.True(t, ok, "expected bytes[\"literal\"] to lower to FixedBytes, got %T", field.Type)
}

func TestBytesExprLowersToFixedLength(t *testing.T) {
	f := lowerSrc(t, `struct S { n: u8; data: bytes[n]; }`)
	item, ok := f.Get(ir.Intern("S"))
	require.True(t, ok)
	s := item.(*ir.StructItem)
	require.Len(t, s.Members, 2)
	field := s.Members[1].(*ir.Field)
	_, ok = field.Type.(*ir.FixedLength)
	require.True(t, ok, "expected bytes[n] to lower to FixedLength, got %T", field.Type)
}

func TestAssertionMessageIsDecoded(t *testing.T) {
	f := lowerSrc(t, `struct S { n: u8; assert n == 1, "bad \x21"; }`)
	item, _ := f.Get(ir.Intern("S"))
	s := item.(*ir.StructItem)
	var assertion *ir.AssertionItem
	for _, m := range s.Members {
		if a, ok := m.(*ir.AssertionItem); ok {
			assertion = a
		}
	}
	require.NotNil(t, assertion)
	require.True(t, assertion.HasMsg)
	require.Equal(t, "bad !", assertion.Message)
}

func TestAssertionWithoutMessageHasNone(t *testing.T) {
	f := lowerSrc(t, `struct S { n: u8; assert n == 1; }`)
	item, _ := f.Get(ir.Intern("S"))
	s := item.(*ir.StructItem)
	assertion := s.Members[1].(*ir.AssertionItem)
	require.False(t, assertion.HasMsg)
}

func TestTopLevelOrderIsPreserved(t *testing.T) {
	f := lowerSrc(t, `type a = u8; type b = u16; type c = u32;`)
	require.Equal(t, []ir.Symbol{ir.Intern("a"), ir.Intern("b"), ir.Intern("c")}, f.Order())
}

func TestTopLevelSetEndiannessIsRecorded(t *testing.T) {
	f := lowerSrc(t, `set_endianness(big); type r = u32;`)
	require.NotNil(t, f.Endian)
	require.False(t, f.Endian.Little)
	require.Equal(t, []ir.Symbol{ir.Intern("r")}, f.Order())
}
