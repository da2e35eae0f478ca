package pagination

import (
	"net/url"
	"strconv"
)

// PageRequest represents a client request for a page of data.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"limit"`
}

// Normalize coerces the request into range. Pages below 1 become 1.
// Page sizes outside (0, MaxPageSize] fall back to DefaultPageSize rather than
// being clamped to the maximum.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 || r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.DefaultPageSize
	}
}

// Offset calculates the number of records to skip based on page and page size.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Clamp moves the request to the last page when it points past total rows
// and returns the total page count. A zero total leaves the page untouched.
func (r *PageRequest) Clamp(total int) int {
	totalPages := TotalPages(total, r.PageSize)
	if totalPages > 0 && r.Page > totalPages {
		r.Page = totalPages
	}
	return totalPages
}

// TotalPages returns ceil(total/pageSize), or 0 when there are no rows.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// PageRequestFromQuery parses the page and limit query parameters.
// Unparseable values are treated as absent and normalized.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	page, _ := strconv.Atoi(values.Get("page"))
	pageSize, _ := strconv.Atoi(values.Get("limit"))

	req := PageRequest{
		Page:     page,
		PageSize: pageSize,
	}

	req.Normalize(cfg)
	return req
}

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"current_page"`
	PageSize   int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult creates a PageResult with calculated total pages.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}
