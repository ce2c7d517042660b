package cowbtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanVisitsInOrder(t *testing.T) {
	tr := buildTree(t, 3, 5, 1, 9, 3, 7)
	require.Equal(t, []int{1, 3, 5, 7, 9}, collect(tr))
}

func TestAscendStopsEarly(t *testing.T) {
	tr := buildTree(t, 3, 1, 2, 3, 4, 5)
	var got []int
	tr.Ascend(nil, func(item int) bool {
		got = append(got, item)
		return item < 3
	})
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestAscendFromPivotStraddlingDeepBranch(t *testing.T) {
	var values []int
	for v := 1; v <= 100; v++ {
		values = append(values, v)
	}
	tr := buildTree(t, 3, values...)

	pivot := 50
	var got []int
	tr.Ascend(&pivot, func(item int) bool {
		got = append(got, item)
		return true
	})

	var want []int
	for v := 50; v <= 100; v++ {
		want = append(want, v)
	}
	require.Equal(t, want, got, "a branch-level straddling child must filter below the pivot, not be skipped")
}

func TestDescendFromPivotStraddlingDeepBranch(t *testing.T) {
	var values []int
	for v := 1; v <= 100; v++ {
		values = append(values, v)
	}
	tr := buildTree(t, 3, values...)

	pivot := 50
	var got []int
	tr.Descend(&pivot, func(item int) bool {
		got = append(got, item)
		return true
	})

	var want []int
	for v := 50; v >= 1; v-- {
		want = append(want, v)
	}
	require.Equal(t, want, got, "a branch-level straddling child must filter above the pivot, not be skipped")
}

func TestDescendPivotGreaterThanMaxVisitsAll(t *testing.T) {
	tr := buildTree(t, 3, 1, 2, 3)
	pivot := 100
	var got []int
	tr.Descend(&pivot, func(item int) bool {
		got = append(got, item)
		return true
	})
	require.Equal(t, []int{3, 2, 1}, got)
}

func TestAscendPivotLessThanMinVisitsAll(t *testing.T) {
	tr := buildTree(t, 3, 1, 2, 3)
	pivot := -100
	var got []int
	tr.Ascend(&pivot, func(item int) bool {
		got = append(got, item)
		return true
	})
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestActionAscendUpdateInPlace(t *testing.T) {
	tr := buildTree(t, 3, 1, 2, 3, 4, 5)
	tr.ActionAscend(nil, func(item *int) Action {
		return ActionNone
	})
	require.Equal(t, []int{1, 2, 3, 4, 5}, collect(tr))

	called := 0
	tr.ActionAscend(nil, func(item *int) Action {
		called++
		if *item == 3 {
			return ActionUpdate // key-preserving no-op edit
		}
		return ActionNone
	})
	require.Equal(t, 5, called)
	require.Equal(t, []int{1, 2, 3, 4, 5}, collect(tr))
}

func TestActionAscendDeleteMidWalk(t *testing.T) {
	var values []int
	for v := 1; v <= 200; v++ {
		values = append(values, v)
	}
	tr := buildTree(t, 8, values...)

	var visited []int
	tr.ActionAscend(nil, func(item *int) Action {
		visited = append(visited, *item)
		if *item%10 == 0 {
			return ActionDelete
		}
		return ActionNone
	})

	require.Equal(t, values, visited, "every original item must be visited exactly once despite deletions")
	require.Equal(t, 180, tr.Count())
	for _, v := range collect(tr) {
		require.NotZero(t, v%10)
	}
}

func TestActionAscendStop(t *testing.T) {
	tr := buildTree(t, 3, 1, 2, 3, 4, 5)
	var got []int
	tr.ActionAscend(nil, func(item *int) Action {
		if *item == 3 {
			return ActionStop
		}
		got = append(got, *item)
		return ActionNone
	})
	require.Equal(t, []int{1, 2}, got)
}

func TestActionDescendDeleteMidWalk(t *testing.T) {
	var values []int
	for v := 1; v <= 200; v++ {
		values = append(values, v)
	}
	tr := buildTree(t, 8, values...)

	var visited []int
	tr.ActionDescend(nil, func(item *int) Action {
		visited = append(visited, *item)
		if *item%7 == 0 {
			return ActionDelete
		}
		return ActionNone
	})

	reversed := make([]int, len(values))
	for i, v := range values {
		reversed[len(values)-1-i] = v
	}
	require.Equal(t, reversed, visited)

	for _, v := range collect(tr) {
		require.NotZero(t, v%7)
	}
}
