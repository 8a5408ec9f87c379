// Package pageview derives stable pages from fully fetched collections.
// Every list in the client goes through the same clamped slice math, so
// page-boundary edge cases live in exactly one place.
package pageview

// PageCount returns the number of pages a collection of length n occupies
// at the given page size. An empty collection still has one (empty) page.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 {
		panic("pageview: page size must be positive")
	}
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage clamps a 1-based page index into [1, pageCount].
func ClampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}

// Paginate returns the page-th page (1-based) of items. Out-of-range pages
// clamp to the nearest valid boundary; the result is always an in-range
// subslice of items.
func Paginate[T any](items []T, pageSize, page int) []T {
	page = ClampPage(page, PageCount(len(items), pageSize))

	start := (page - 1) * pageSize
	if start >= len(items) {
		return items[len(items):]
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// View is a pagination cursor over a collection that may be replaced after
// a refresh. Replacing the backing collection re-clamps the current page so
// a stale index never points past the new bound.
type View[T any] struct {
	items    []T
	pageSize int
	page     int
}

// NewView returns a cursor positioned on page 1.
func NewView[T any](pageSize int) *View[T] {
	if pageSize <= 0 {
		panic("pageview: page size must be positive")
	}
	return &View[T]{pageSize: pageSize, page: 1}
}

// SetItems replaces the backing collection and re-clamps the current page.
func (v *View[T]) SetItems(items []T) {
	v.items = items
	v.page = ClampPage(v.page, PageCount(len(items), v.pageSize))
}

// Page returns the current 1-based page index.
func (v *View[T]) Page() int { return v.page }

// PageCount returns the current number of pages.
func (v *View[T]) PageCount() int { return PageCount(len(v.items), v.pageSize) }

// Items returns the current page of items.
func (v *View[T]) Items() []T { return Paginate(v.items, v.pageSize, v.page) }

// Next advances one page, clamped to the last page.
func (v *View[T]) Next() { v.page = ClampPage(v.page+1, v.PageCount()) }

// Prev steps back one page, clamped to the first page.
func (v *View[T]) Prev() { v.page = ClampPage(v.page-1, v.PageCount()) }
