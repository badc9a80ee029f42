package sourceinfo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binspec/bfdl/sourceinfo"
)

func TestSingleEmptyForZeroLength(t *testing.T) {
	require.True(t, sourceinfo.Single(10, 0).Empty())
}

func TestUnionCoalescesAbuttingRanges(t *testing.T) {
	a := sourceinfo.Single(0, 4)
	b := sourceinfo.Single(4, 4)
	u := a.Union(b)
	require.Equal(t, []sourceinfo.Range{{Start: 0, End: 8}}, u.Ranges())
}

func TestUnionKeepsDisjointRangesSeparate(t *testing.T) {
	a := sourceinfo.Single(0, 4)
	b := sourceinfo.Single(10, 4)
	u := a.Union(b)
	require.Equal(t, []sourceinfo.Range{{Start: 0, End: 4}, {Start: 10, End: 14}}, u.Ranges())
}

func TestUnionMergesOverlappingRanges(t *testing.T) {
	a := sourceinfo.Single(0, 10)
	b := sourceinfo.Single(5, 10)
	u := a.Union(b)
	require.Equal(t, []sourceinfo.Range{{Start: 0, End: 15}}, u.Ranges())
}

func TestContains(t *testing.T) {
	s := sourceinfo.UnionAll(sourceinfo.Single(0, 4), sourceinfo.Single(10, 2))
	require.True(t, s.Contains(0))
	require.True(t, s.Contains(3))
	require.False(t, s.Contains(4))
	require.True(t, s.Contains(10))
	require.False(t, s.Contains(12))
}

func TestBounded(t *testing.T) {
	s := sourceinfo.Single(2, 4)
	require.True(t, s.Bounded(6))
	require.False(t, s.Bounded(5))
}
