package pageview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func nums(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPagesPartitionWithoutOverlapOrGap(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 23} {
		for _, size := range []int{1, 2, 5, 7} {
			items := nums(n)
			count := PageCount(n, size)

			var joined []int
			for p := 1; p <= count; p++ {
				joined = append(joined, Paginate(items, size, p)...)
			}
			require.Equal(t, items, append([]int{}, joined...), "n=%d size=%d", n, size)
		}
	}
}

func TestPaginate_Clamps(t *testing.T) {
	items := nums(10)

	require.Equal(t, Paginate(items, 3, 1), Paginate(items, 3, 0))
	require.Equal(t, Paginate(items, 3, 1), Paginate(items, 3, -5))

	last := PageCount(len(items), 3)
	require.Equal(t, Paginate(items, 3, last), Paginate(items, 3, last+5))
}

func TestPageCount_EmptyCollectionHasOnePage(t *testing.T) {
	require.Equal(t, 1, PageCount(0, 5))
	require.Empty(t, Paginate([]int{}, 5, 1))
	require.Empty(t, Paginate([]int{}, 5, 99))
}

func TestView_ReclampsOnShrink(t *testing.T) {
	v := NewView[int](2)
	v.SetItems(nums(10)) // 5 pages
	v.Next()
	v.Next()
	v.Next()
	v.Next()
	require.Equal(t, 5, v.Page())

	// collection shrinks after a refresh; the stale index clamps down
	v.SetItems(nums(3)) // 2 pages
	require.Equal(t, 2, v.Page())
	require.Equal(t, []int{2}, v.Items())
}

func TestView_Navigation(t *testing.T) {
	v := NewView[int](3)
	v.SetItems(nums(7)) // 3 pages

	require.Equal(t, []int{0, 1, 2}, v.Items())
	v.Prev()
	require.Equal(t, 1, v.Page())
	v.Next()
	v.Next()
	require.Equal(t, 3, v.Page())
	require.Equal(t, []int{6}, v.Items())
	v.Next()
	require.Equal(t, 3, v.Page())
}
