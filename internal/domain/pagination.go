package domain

// Page size bounds for club event and participant listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one page of a listing. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Clamp returns p with Page at least 1 and PageSize in [1, MaxPageSize].
// A non-positive PageSize becomes DefaultPageSize.
func (p PaginationParams) Clamp() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Limit is the clamped page size, for LIMIT clauses.
func (p PaginationParams) Limit() int {
	return p.Clamp().PageSize
}

// Offset is the number of rows before the clamped page.
func (p PaginationParams) Offset() int {
	c := p.Clamp()
	return (c.Page - 1) * c.PageSize
}
