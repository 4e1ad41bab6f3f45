package catalog

const DefaultPerPage = 20

// Page is one slice of a paginated list plus its navigation metadata
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Paginate cuts items into 1-indexed pages of perPage items.
// There is always at least one page. A page outside [1, TotalPages] is
// returned with no items rather than clamped.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	result := Page[T]{
		Items:      []T{},
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	if page < 1 || page > totalPages {
		return result
	}

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	result.Items = items[start:end]
	return result
}
