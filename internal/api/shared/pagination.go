package shared

import (
	"math"
	"net/http"
	"strconv"

	"github.com/phrazzld/bookshelf-api/internal/domain"
)

// Pagination defaults. Page numbers on the wire are 0-based.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a parsed page/size pair.
type PageRequest struct {
	Page int
	Size int
}

// Offset is the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// ParsePageRequest reads the page and size query parameters. Missing values
// take the defaults and sizes above MaxPageSize are clamped. A page whose
// offset would not fit in an int is rejected.
func ParsePageRequest(r *http.Request) (PageRequest, error) {
	req := PageRequest{Page: 0, Size: DefaultPageSize}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return PageRequest{}, domain.NewValidationError("page", "must be a non-negative integer", domain.ErrValidation)
		}
		req.Page = page
	}

	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return PageRequest{}, domain.NewValidationError("size", "must be a positive integer", domain.ErrValidation)
		}
		req.Size = min(size, MaxPageSize)
	}

	if req.Page > (math.MaxInt-1)/req.Size {
		return PageRequest{}, domain.NewValidationError("page", "is too large", domain.ErrValidation)
	}

	return req, nil
}

// Page is the pagination envelope. CurrentPage, PreviousPage and NextPage
// are 1-based.
type Page[T any] struct {
	Items        []T  `json:"page"`
	Count        int  `json:"count"`
	Limit        int  `json:"limit"`
	Offset       int  `json:"offset"`
	TotalPages   int  `json:"total_pages"`
	TotalCount   int  `json:"total_count"`
	PreviousPage *int `json:"previous_page"`
	CurrentPage  int  `json:"current_page"`
	NextPage     *int `json:"next_page"`
}

// NewPage builds the envelope for items taken from a result of total rows.
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = (total + req.Size - 1) / req.Size
	}
	current := req.Page + 1

	p := Page[T]{
		Items:       items,
		Count:       len(items),
		Limit:       req.Size,
		Offset:      req.Offset(),
		TotalPages:  totalPages,
		TotalCount:  total,
		CurrentPage: current,
	}
	if current > 1 {
		prev := current - 1
		p.PreviousPage = &prev
	}
	if current < totalPages {
		next := current + 1
		p.NextPage = &next
	}
	return p
}

// Map converts the items of p with fn, keeping the metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Page[U]{
		Items:        out,
		Count:        p.Count,
		Limit:        p.Limit,
		Offset:       p.Offset,
		TotalPages:   p.TotalPages,
		TotalCount:   p.TotalCount,
		PreviousPage: p.PreviousPage,
		CurrentPage:  p.CurrentPage,
		NextPage:     p.NextPage,
	}
}
