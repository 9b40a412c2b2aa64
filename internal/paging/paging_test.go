package paging_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/shelf-trivia-service/internal/paging"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestSlice_NineRecordsPageSizeEight(t *testing.T) {
	all := seq(9)

	first := paging.Slice(all, 1, 8)
	assert.Len(t, first.Items, 8)
	assert.Equal(t, 9, first.Total)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrev())

	second := paging.Slice(all, 2, 8)
	assert.Equal(t, []int{9}, second.Items)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrev())
}

func TestSlice_OutOfRangeIsEmptyNotNil(t *testing.T) {
	cases := []struct {
		name   string
		number int
	}{
		{"past_last", 3},
		{"far_past_last", 1000},
		{"zero", 0},
		{"negative", -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := paging.Slice(seq(9), tc.number, 8)
			require.NotNil(t, p.Items)
			assert.Empty(t, p.Items)
			assert.Equal(t, 9, p.Total)
		})
	}
}

func TestSlice_HugePageNumbersAreEmpty(t *testing.T) {
	all := seq(9)
	for _, number := range []int{math.MaxInt, 1<<60 + 1, 1 << 61, math.MaxInt/8 + 1} {
		t.Run(strconv.Itoa(number), func(t *testing.T) {
			var p paging.Page[int]
			require.NotPanics(t, func() { p = paging.Slice(all, number, 8) })
			assert.Equal(t, []int{}, p.Items)
			assert.Equal(t, 9, p.Total)
			assert.False(t, p.HasNext())
			assert.True(t, p.HasPrev())

			links := p.Links("/books")
			assert.Empty(t, links.Next)
			assert.Equal(t, "/books?page="+strconv.Itoa(number-1), links.Prev)
		})
	}
}

func TestSlice_EmptyCollection(t *testing.T) {
	p := paging.Slice([]string{}, 1, 10)
	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.TotalPages())
	assert.False(t, p.HasNext())
}

func TestSlice_NonPositiveSize(t *testing.T) {
	p := paging.Slice(seq(5), 1, 0)
	assert.Empty(t, p.Items)
	assert.False(t, p.HasNext())
}

func TestSlice_PagesCoverCollection(t *testing.T) {
	for total := 0; total <= 40; total++ {
		for _, size := range []int{1, 3, 8, 10} {
			all := seq(total)
			pages := paging.TotalPages(total, size)
			sum := 0
			for n := 1; n <= pages; n++ {
				p := paging.Slice(all, n, size)
				assert.LessOrEqual(t, len(p.Items), size)
				assert.NotEmpty(t, p.Items, "page %d of %d (total=%d size=%d)", n, pages, total, size)
				sum += len(p.Items)
			}
			assert.Equal(t, total, sum, "total=%d size=%d", total, size)

			last := paging.Slice(all, pages, size)
			assert.False(t, last.HasNext(), "total=%d size=%d", total, size)
			beyond := paging.Slice(all, pages+1, size)
			assert.Empty(t, beyond.Items)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{16, 8, 2},
		{17, 8, 3},
		{19, 10, 2},
		{5, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, paging.TotalPages(tc.total, tc.size), "total=%d size=%d", tc.total, tc.size)
	}
}

func TestLinks(t *testing.T) {
	all := seq(25)

	l := paging.Slice(all, 1, 10).Links("/books")
	assert.Equal(t, "/books?page=2", l.Next)
	assert.Empty(t, l.Prev)

	l = paging.Slice(all, 2, 10).Links("/books")
	assert.Equal(t, "/books?page=3", l.Next)
	assert.Equal(t, "/books?page=1", l.Prev)

	l = paging.Slice(all, 3, 10).Links("/books")
	assert.Empty(t, l.Next)
	assert.Equal(t, "/books?page=2", l.Prev)
}

func TestFilter_PreservesOrder(t *testing.T) {
	got := paging.Filter(seq(10), func(v int) bool { return v%3 == 0 })
	assert.Equal(t, []int{3, 6, 9}, got)

	none := paging.Filter(seq(4), func(int) bool { return false })
	require.NotNil(t, none)
	assert.Empty(t, none)
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"2", 2},
		{" 3 ", 3},
		{"1.5", 1},
		{"0", 0},
		{"-1", -1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, paging.ParseNumber(tc.raw), "raw=%q", tc.raw)
	}
}
