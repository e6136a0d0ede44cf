// Package pagination normalizes page requests and builds paged responses.
package pagination

import "math"

const (
	defaultPageSize = 20
	defaultMaxSize  = 100

	// MaxPage is the largest page number Normalize keeps.
	MaxPage = 1_000_000
)

// Options configures pagination behavior.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

type Option func(*Options)

func WithDefaultPageSize(size int) Option {
	return func(o *Options) {
		o.DefaultPageSize = size
	}
}

func WithMaxPageSize(maxSize int) Option {
	return func(o *Options) {
		o.MaxPageSize = maxSize
	}
}

// Request selects a 1-based page.
type Request struct {
	Page     int
	PageSize int
}

// Normalize applies defaults and constraints.
func (r *Request) Normalize(opts ...Option) {
	o := Options{DefaultPageSize: defaultPageSize, MaxPageSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}

	if r.Page <= 0 {
		r.Page = 1
	}
	r.Page = min(r.Page, MaxPage)
	if r.PageSize <= 0 {
		r.PageSize = o.DefaultPageSize
	}
	if r.PageSize > o.MaxPageSize {
		r.PageSize = o.MaxPageSize
	}
}

// Offset returns the number of items before the page. It saturates instead
// of overflowing.
func (r *Request) Offset() int {
	if r.Page <= 1 || r.PageSize <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.PageSize {
		return math.MaxInt
	}
	return (r.Page - 1) * r.PageSize
}

// Window returns the bounds of the page inside total items. Pages past the
// end yield an empty window at total.
func (r *Request) Window(total int) (start, end int) {
	if r.Page <= 0 || r.PageSize <= 0 || r.Page-1 > total/r.PageSize {
		return total, total
	}
	start = (r.Page - 1) * r.PageSize
	return start, start + min(r.PageSize, total-start)
}

// Limit returns the page size.
func (r *Request) Limit() int {
	return r.PageSize
}

type Response[T any] struct {
	Page        int `json:"page"`
	PageSize    int `json:"page_size"`
	PageCount   int `json:"page_count"`
	TotalCount  int `json:"total_count"`
	PageContent []T `json:"page_content"`
}

// NewResponse creates a paged response from the items of a normalized request.
func NewResponse[T any](items []T, totalCount int, req Request) Response[T] {
	pageCount := 0
	if req.PageSize > 0 {
		pageCount = (totalCount + req.PageSize - 1) / req.PageSize
	}
	if items == nil {
		items = []T{}
	}

	return Response[T]{
		Page:        req.Page,
		PageSize:    req.PageSize,
		PageCount:   pageCount,
		TotalCount:  totalCount,
		PageContent: items,
	}
}
