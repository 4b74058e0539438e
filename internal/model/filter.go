package model

import "github.com/google/uuid"

// SortDirection orders a listing ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PageSizes enumerates the page sizes a listing may request.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is used when a request carries no valid page size.
const DefaultPageSize = 25

// PageRequest selects a 1-based page of an enumerated size.
type PageRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// Normalize returns a copy with Page clamped to >= 1 and PerPage snapped
// to one of the enumerated sizes. The receiver is not modified.
func (p PageRequest) Normalize() PageRequest {
	out := p
	if out.Page < 1 {
		out.Page = 1
	}
	valid := false
	for _, s := range PageSizes {
		if out.PerPage == s {
			valid = true
			break
		}
	}
	if !valid {
		out.PerPage = DefaultPageSize
	}
	return out
}

// Offset returns the record offset of the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// UserFilter selects users. Email and Name are case-insensitive partial
// matches. Tombstoned users are excluded unless IncludeDeleted is
// explicitly true.
type UserFilter struct {
	Email          string
	Name           string
	IncludeDeleted bool
	SortBy         string
	SortDir        SortDirection
	PageRequest
}

// ProductFilter selects products. Name is a case-insensitive partial
// match; price bounds are inclusive; InStock selects stock > 0 when true
// and stock = 0 when false.
type ProductFilter struct {
	Name           string
	CategoryID     *uuid.UUID
	MinPrice       *float64
	MaxPrice       *float64
	InStock        *bool
	IncludeDeleted bool
	SortBy         string
	SortDir        SortDirection
	PageRequest
}

// CategoryFilter selects categories. Name is a case-insensitive partial
// match.
type CategoryFilter struct {
	Name           string
	ParentID       *uuid.UUID
	IncludeDeleted bool
	SortBy         string
	SortDir        SortDirection
	PageRequest
}
