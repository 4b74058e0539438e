package model

// Page is one slice of a listing together with its position in the full
// result set. An empty page is valid and carries ShownEntryCount = 0.
type Page[T any] struct {
	Entries         []T  `json:"entries"`
	TotalCount      int  `json:"totalCount"`
	ShownEntryCount int  `json:"shownEntryCount"`
	HasNext         bool `json:"hasNext"`
	HasPrev         bool `json:"hasPrev"`
	Page            int  `json:"page"`
	PerPage         int  `json:"perPage"`
}

// NewPage assembles a page envelope from a fetched slice and the total
// count of matching records. Both must reflect the same predicate.
func NewPage[T any](entries []T, total int, req PageRequest) Page[T] {
	if entries == nil {
		entries = []T{}
	}
	return Page[T]{
		Entries:         entries,
		TotalCount:      total,
		ShownEntryCount: len(entries),
		HasNext:         req.Offset()+len(entries) < total,
		HasPrev:         req.Page > 1,
		Page:            req.Page,
		PerPage:         req.PerPage,
	}
}
