package pagination

import "stocktally/pkg/types"

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 15
	// MaxPerPage caps how many rows any list query can request.
	MaxPerPage = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Normalize enforces the configured default and maximum limits. A zero
// defaultPerPage falls back to DefaultPerPage.
func Normalize(p Params, defaultPerPage int) Params {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// LastPage returns the highest page number for the given total.
func LastPage(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		return 1
	}
	return last
}

// Meta builds the response metadata block for a page.
func Meta(p Params, total int64) types.PageMeta {
	return types.PageMeta{
		CurrentPage: p.Page,
		LastPage:    LastPage(total, p.PerPage),
		PerPage:     p.PerPage,
		Total:       total,
	}
}
