package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{"no items", 0, 10, 0},
		{"one item", 1, 10, 1},
		{"exact fit", 100, 10, 10},
		{"one over", 101, 10, 11},
		{"page size one", 7, 1, 7},
		{"max page size", 250, 100, 3},
		{"invalid page size", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pages(tt.total, tt.pageSize))
		})
	}
}

func TestPagesIsCeil(t *testing.T) {
	for pageSize := 1; pageSize <= 100; pageSize++ {
		for _, total := range []int{1, 2, 99, 100, 101, 1000} {
			pages := Pages(total, pageSize)
			assert.GreaterOrEqual(t, pages*pageSize, total)
			assert.Less(t, (pages-1)*pageSize, total)
		}
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     int
		wantOK   bool
	}{
		{"first page", 1, 10, 0, true},
		{"third page", 3, 10, 20, true},
		{"page below one", 0, 10, 0, true},
		{"largest fitting page", (math.MaxInt-10)/10 + 1, 10, (math.MaxInt - 10) / 10 * 10, true},
		{"overflowing page", math.MaxInt, 10, 0, false},
		{"overflowing page large size", math.MaxInt, 100, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Offset(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)

			if ok {
				assert.GreaterOrEqual(t, got, 0)
			}
		})
	}
}

func TestPaginateHugePage(t *testing.T) {
	p := Paginate([]int{1, 2, 3}, math.MaxInt, 2)

	assert.Equal(t, 2, p.Page)
	assert.Equal(t, []int{3}, p.Items)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name     string
		page     int
		pageSize int
		wantPage int
		want     []int
	}{
		{"first page", 1, 3, 1, []int{1, 2, 3}},
		{"middle page", 2, 3, 2, []int{4, 5, 6}},
		{"last partial page", 3, 3, 3, []int{7}},
		{"past the end is clamped", 9, 3, 3, []int{7}},
		{"page below one", 0, 3, 1, []int{1, 2, 3}},
		{"single page", 1, 10, 1, items},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, tt.pageSize)
			assert.Equal(t, len(items), p.Total)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.pageSize, p.PageSize)
			assert.Equal(t, Pages(len(items), tt.pageSize), p.Pages)
			assert.Equal(t, tt.want, p.Items)
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]string{}, 3, 10)

	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 0, p.Pages)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}
