// Package pagination slices listings into fixed-size pages.
package pagination

import "strconv"

// PageSize is the number of posts shown per listing page.
const PageSize = 10

// Page describes one page of a listing. Items is filled in by the
// caller after running the offset query.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	TotalItems int
}

func (p Page[T]) HasNext() bool     { return p.Number < p.TotalPages }
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p Page[T]) NextNumber() int   { return p.Number + 1 }
func (p Page[T]) PrevNumber() int   { return p.Number - 1 }

// Offset is the number of items to skip for this page.
func (p Page[T]) Offset() int { return (p.Number - 1) * PageSize }

// New clamps the requested 1-based page number against the item count.
// Out-of-range requests land on the nearest valid page; an empty
// collection still has one (empty) page.
func New[T any](totalItems, requested int) Page[T] {
	totalPages := (totalItems + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if requested < 1 {
		requested = 1
	}
	if requested > totalPages {
		requested = totalPages
	}
	return Page[T]{
		Number:     requested,
		TotalPages: totalPages,
		TotalItems: totalItems,
	}
}

// ParsePage reads a ?page= value; anything unparseable means page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}
