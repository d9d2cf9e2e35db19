package ports

import "github.com/jobboard/jobboard-api/internal/core/search"

// Page is one page of a list result.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}

// Pagination carries the 1-based page requested by the caller.
type Pagination struct {
	Page    int
	PerPage int
}

// Normalize applies defaults and the per-page ceiling.
func (p Pagination) Normalize() Pagination {
	page, perPage := search.Paginate(p.Page, p.PerPage)
	return Pagination{Page: page, PerPage: perPage}
}

// Offset is the number of rows skipped before this page.
func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// NewPage assembles a Page and computes TotalPages.
func NewPage[T any](items []T, total int64, p Pagination) Page[T] {
	n := p.Normalize()
	pages := int((total + int64(n.PerPage) - 1) / int64(n.PerPage))
	return Page[T]{Items: items, Total: total, Page: n.Page, PerPage: n.PerPage, TotalPages: pages}
}
