// Package pagination contains the page math shared by paginated endpoints.
package pagination

import (
	"math"
)

// Page is one page of a list.
type Page[T any] struct {
	Total    int
	Page     int
	PageSize int
	Pages    int
	Items    []T
}

// Pages returns the number of pages needed for total items, 0 if there are no items.
func Pages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}

	return (total + pageSize - 1) / pageSize
}

// Offset returns the number of items before page. ok is false if offset+pageSize does not
// fit into an int, such a page is past the end of any list.
func Offset(page, pageSize int) (offset int, ok bool) {
	if page < 1 {
		page = 1
	}

	if pageSize > 0 && page-1 > (math.MaxInt-pageSize)/pageSize {
		return 0, false
	}

	return (page - 1) * pageSize, true
}

// Paginate slices items in memory. A page past the end is clamped to the last page.
// It mirrors the page math of the sql backed endpoints for lists that are already loaded.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}

	total := len(items)
	pages := Pages(total, pageSize)

	if page > pages && pages > 0 {
		page = pages
	}

	out := Page[T]{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
		Items:    []T{},
	}

	if pages == 0 {
		return out
	}

	start, _ := Offset(page, pageSize)
	end := min(start+pageSize, total)
	out.Items = items[start:end]

	return out
}
