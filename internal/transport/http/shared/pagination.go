package shared

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit/offset query parameters, clamping to sane
// bounds so a caller cannot request an unbounded page.
func ParsePagination(r *http.Request) Pagination {
	p := Pagination{Limit: defaultPageSize}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.Offset = v
		}
	}
	return p
}

// ParseID parses a positive int64 path or query value.
func ParseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
