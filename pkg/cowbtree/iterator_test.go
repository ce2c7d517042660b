package cowbtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T, degree int, values ...int) *Tree[int] {
	t.Helper()
	tr := newIntTree(t, degree)
	for _, v := range values {
		tr.Set(v)
	}
	return tr
}

func drain(it *Iter[int], forward bool) []int {
	var out []int
	for it.Valid() {
		out = append(out, it.Item())
		if forward {
			it.Next()
		} else {
			it.Prev()
		}
	}
	return out
}

func TestIterFirstLast(t *testing.T) {
	tr := buildTree(t, 3, 10, 20, 30, 40, 50)
	it := tr.Iter()

	require.True(t, it.First())
	require.Equal(t, 10, it.Item())

	require.True(t, it.Last())
	require.Equal(t, 50, it.Item())
}

func TestIterForwardFullWalk(t *testing.T) {
	tr := buildTree(t, 3, 10, 20, 30, 40, 50, 60, 70)
	it := tr.Iter()
	it.First()
	require.Equal(t, []int{10, 20, 30, 40, 50, 60, 70}, drain(it, true))
}

func TestIterBackwardFullWalk(t *testing.T) {
	tr := buildTree(t, 3, 10, 20, 30, 40, 50, 60, 70)
	it := tr.Iter()
	it.Last()
	require.Equal(t, []int{70, 60, 50, 40, 30, 20, 10}, drain(it, false))
}

func TestIterSeekExactMatch(t *testing.T) {
	tr := buildTree(t, 3, 10, 20, 30, 40, 50)
	it := tr.Iter()
	require.True(t, it.Seek(30))
	require.Equal(t, 30, it.Item())
}

func TestIterSeekNonExistentPositionsAfter(t *testing.T) {
	tr := buildTree(t, 3, 10, 20, 30, 40, 50)
	it := tr.Iter()
	ok := it.Seek(25)
	require.True(t, ok)
	require.Equal(t, 30, it.Item())

	it2 := tr.Iter()
	it2.Seek(25)
	require.True(t, it2.Prev())
	require.Equal(t, 20, it2.Item())
}

func TestIterSeekPastMaxIsInvalid(t *testing.T) {
	tr := buildTree(t, 3, 10, 20, 30)
	it := tr.Iter()
	require.False(t, it.Seek(999))
	require.False(t, it.Valid())
}

func TestIterLargeTreeRoundTrip(t *testing.T) {
	var values []int
	for v := 1; v <= 500; v++ {
		values = append(values, v)
	}
	tr := buildTree(t, 4, values...)

	it := tr.Iter()
	it.First()
	require.Equal(t, values, drain(it, true))
}
