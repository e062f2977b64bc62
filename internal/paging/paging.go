// Package paging implements offset pagination: request parsing, sort-field whitelists,
// in-memory slicing and the page metadata returned to clients.
package paging

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultLimit    = 10
	DefaultMaxLimit = 100
	DefaultSort     = "created_at"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Request is a validated page request. Sort always holds a canonical field name.
type Request struct {
	Page  int
	Limit int
	Sort  string
	Order Order
}

func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

func (r Request) Descending() bool {
	return r.Order == Desc
}

// Query is the raw, unvalidated form of a Request as it arrives in a query string.
type Query struct {
	Page  string
	Limit string
	Sort  string
	Order string
}

// Fields maps every accepted sort name onto its canonical field name.
type Fields map[string]string

var (
	PostFields = Fields{
		"created_at": "created_at",
		"createdAt":  "created_at",
		"updated_at": "updated_at",
		"updatedAt":  "updated_at",
		"title":      "title",
	}
	CommentFields = Fields{
		"created_at": "created_at",
		"createdAt":  "created_at",
		"updated_at": "updated_at",
		"updatedAt":  "updated_at",
	}
)

func (f Fields) names() string {
	var names []string
	for name, canonical := range f {
		if name == canonical {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// Parse validates q against the whitelist. Every violated parameter is reported in the
// returned map keyed by parameter name; the Request is only meaningful when it is empty.
func (f Fields) Parse(q Query, maxLimit int) (Request, map[string]string) {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}

	req := Request{
		Page:  DefaultPage,
		Limit: DefaultLimit,
		Sort:  DefaultSort,
		Order: Desc,
	}
	violations := make(map[string]string)

	if q.Page != "" {
		page, err := strconv.Atoi(strings.TrimSpace(q.Page))
		if err != nil || page < 1 {
			violations["page"] = "must be a positive integer"
		} else {
			req.Page = page
		}
	}

	if q.Limit != "" {
		limit, err := strconv.Atoi(strings.TrimSpace(q.Limit))
		if err != nil || limit < 1 {
			violations["limit"] = "must be a positive integer"
		} else {
			req.Limit = min(limit, maxLimit)
		}
	}

	if q.Sort != "" {
		canonical, ok := f[strings.TrimSpace(q.Sort)]
		if !ok {
			violations["sort"] = fmt.Sprintf("must be one of: %s", f.names())
		} else {
			req.Sort = canonical
		}
	}

	if q.Order != "" {
		switch Order(strings.ToLower(strings.TrimSpace(q.Order))) {
		case Asc:
			req.Order = Asc
		case Desc:
			req.Order = Desc
		default:
			violations["order"] = "must be one of: asc, desc"
		}
	}

	if len(violations) == 0 {
		return req, nil
	}
	return req, violations
}

type Result[T any] struct {
	Items       []T   `json:"items"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func NewResult[T any](items []T, total int64, req Request) *Result[T] {
	if items == nil {
		items = make([]T, 0)
	}

	totalPages := TotalPages(total, req.Limit)

	return &Result[T]{
		Items:       items,
		Page:        req.Page,
		Limit:       req.Limit,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1,
	}
}

// Map converts the items of a result while keeping its metadata.
func Map[T, U any](r *Result[T], fn func(T) U) *Result[U] {
	items := make([]U, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, fn(item))
	}

	return &Result[U]{
		Items:       items,
		Page:        r.Page,
		Limit:       r.Limit,
		TotalPages:  r.TotalPages,
		TotalItems:  r.TotalItems,
		HasNextPage: r.HasNextPage,
		HasPrevPage: r.HasPrevPage,
	}
}

// Slice sorts items by key then id, both in the request's direction, and cuts out the
// requested page. It returns the page and the total number of items.
func Slice[T any, K cmp.Ordered](items []T, req Request, key func(T) K, id func(T) string) ([]T, int64) {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		c := cmp.Compare(key(a), key(b))
		if c == 0 {
			c = cmp.Compare(id(a), id(b))
		}
		if req.Descending() {
			return -c
		}
		return c
	})

	total := int64(len(sorted))
	offset := req.Offset()
	if offset >= len(sorted) {
		return []T{}, total
	}

	end := min(offset+req.Limit, len(sorted))
	return sorted[offset:end], total
}
