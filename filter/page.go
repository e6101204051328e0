package filter

// Pagination expresses page-number based pagination on top of LIMIT/OFFSET.
type Pagination struct {
	Page    int64
	PerPage int64
}

// DefaultPagination returns the first page with 20 items per page.
func DefaultPagination() Pagination {
	return Pagination{Page: 1, PerPage: 20}
}

// Offset returns the number of rows to skip for this page.
func (p Pagination) Offset() int64 {
	return (p.Page - 1) * p.PerPage
}

// Limit returns the number of rows on this page.
func (p Pagination) Limit() int64 {
	return p.PerPage
}

// Page is one page of results with pagination metadata.
type Page[T any] struct {
	Items      []T
	Page       int64
	PerPage    int64
	TotalItems int64
	TotalPages int64
}

// NewPage creates a page of items, deriving TotalPages from the item total.
func NewPage[T any](items []T, page, perPage, totalItems int64) Page[T] {
	var totalPages int64
	if perPage > 0 {
		totalPages = (totalItems + perPage - 1) / perPage
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrevious reports whether a page precedes this one.
func (p Page[T]) HasPrevious() bool {
	return p.Page > 1
}

// NextPage returns the next page number, or false when on the last page.
func (p Page[T]) NextPage() (int64, bool) {
	if !p.HasNext() {
		return 0, false
	}
	return p.Page + 1, true
}

// PreviousPage returns the previous page number, or false when on the
// first page.
func (p Page[T]) PreviousPage() (int64, bool) {
	if !p.HasPrevious() {
		return 0, false
	}
	return p.Page - 1, true
}
