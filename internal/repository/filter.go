package repository

import "strings"

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ProductFilter describes the optional predicates and pagination window for
// a product listing. Zero-valued fields are ignored when building the query.
type ProductFilter struct {
	Search     string
	CategoryID string
	MinPrice   *int64
	MaxPrice   *int64
	Page       int
	Limit      int
}

// Normalized returns a copy with the search term trimmed and pagination
// clamped to valid bounds: page defaults to 1, limit defaults to 10 and is
// capped at 100. A whitespace-only search term is dropped.
func (f ProductFilter) Normalized() ProductFilter {
	f.Search = strings.TrimSpace(f.Search)
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	return f
}

// Offset returns the row offset for the filter's page and limit. Call on a
// normalized filter.
func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
