package repository

import (
	"fmt"
	"strings"

	"storefront/internal/model"
)

// filterQuery is a pure description of a WHERE clause with positional
// arguments. Building one performs no I/O and cannot fail; a filter that
// matches nothing simply compiles to a predicate with no matches.
type filterQuery struct {
	conds []string
	args  []any
}

// add appends a condition, rewriting each ? to the next positional
// placeholder.
func (q *filterQuery) add(expr string, args ...any) {
	for _, a := range args {
		q.args = append(q.args, a)
		expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", len(q.args)), 1)
	}
	q.conds = append(q.conds, expr)
}

// where returns the assembled WHERE clause, or an empty string when no
// condition applies.
func (q *filterQuery) where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// next returns the placeholder number following the accumulated args,
// for LIMIT/OFFSET appended by the caller.
func (q *filterQuery) next() int {
	return len(q.args) + 1
}

// addVisibility applies the tombstone-visibility rule: anything other
// than an explicit includeDeleted=true restricts the query to active
// records.
func (q *filterQuery) addVisibility(includeDeleted bool) {
	if !includeDeleted {
		q.conds = append(q.conds, "deleted_at IS NULL")
	}
}

// contains builds a case-insensitive substring pattern.
func contains(fragment string) string {
	return "%" + fragment + "%"
}

// buildUserQuery compiles a user filter into a predicate description.
func buildUserQuery(f model.UserFilter) *filterQuery {
	q := &filterQuery{}
	if f.Email != "" {
		q.add("email ILIKE ?", contains(f.Email))
	}
	if f.Name != "" {
		q.add("(first_name ILIKE ? OR last_name ILIKE ?)", contains(f.Name), contains(f.Name))
	}
	q.addVisibility(f.IncludeDeleted)
	return q
}

// buildProductQuery compiles a product filter into a predicate
// description. Price bounds are inclusive.
func buildProductQuery(f model.ProductFilter) *filterQuery {
	q := &filterQuery{}
	if f.Name != "" {
		q.add("name ILIKE ?", contains(f.Name))
	}
	if f.CategoryID != nil {
		q.add("category_id = ?", *f.CategoryID)
	}
	if f.MinPrice != nil {
		q.add("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q.add("price <= ?", *f.MaxPrice)
	}
	if f.InStock != nil {
		if *f.InStock {
			q.conds = append(q.conds, "stock > 0")
		} else {
			q.conds = append(q.conds, "stock = 0")
		}
	}
	q.addVisibility(f.IncludeDeleted)
	return q
}

// buildCategoryQuery compiles a category filter into a predicate
// description.
func buildCategoryQuery(f model.CategoryFilter) *filterQuery {
	q := &filterQuery{}
	if f.Name != "" {
		q.add("name ILIKE ?", contains(f.Name))
	}
	if f.ParentID != nil {
		q.add("parent_id = ?", *f.ParentID)
	}
	q.addVisibility(f.IncludeDeleted)
	return q
}

// Sortable columns per entity. Sort keys arrive as API field names and
// anything outside the whitelist falls back to the default ordering.
var (
	userSortColumns = map[string]string{
		"email":     "email",
		"firstName": "first_name",
		"lastName":  "last_name",
		"createdAt": "created_at",
	}
	productSortColumns = map[string]string{
		"name":      "name",
		"price":     "price",
		"stock":     "stock",
		"createdAt": "created_at",
	}
	categorySortColumns = map[string]string{
		"name":      "name",
		"createdAt": "created_at",
	}
)

// orderClause builds an ORDER BY clause from a whitelisted sort key.
func orderClause(sortBy string, dir model.SortDirection, allowed map[string]string, fallback string) string {
	col, ok := allowed[sortBy]
	if !ok {
		col = fallback
	}
	direction := "ASC"
	if dir == model.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, direction)
}
