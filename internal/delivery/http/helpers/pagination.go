package helpers

import (
	"net/http"
	"strconv"

	"clubevents/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = domain.DefaultPageSize
	MaxPageSize     = domain.MaxPageSize
)

// ParsePagination reads page and page_size from the query string. Unparsable
// values are ignored; the result is clamped by domain.PaginationParams.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	p := domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil {
		p.PageSize = v
	}
	return p.Clamp()
}

// PaginationMeta accompanies paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	p = p.Clamp()
	return PaginationMeta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: (total + p.PageSize - 1) / p.PageSize,
	}
}
