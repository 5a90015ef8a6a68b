package shared

import (
	"net/http"
	"strconv"
	"strings"
)

type Pagination struct {
	Limit  int
	Offset int
}

func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	limit := defaultLimit
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Limit: limit, Offset: offset}
}

type PageRequest struct {
	Page      int
	Size      int
	SortField string
	SortDesc  bool
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// ParsePageRequest reads zero-based page, size and sort=field[,asc|desc].
func ParsePageRequest(r *http.Request, defaultSize, maxSize int) PageRequest {
	q := r.URL.Query()
	out := PageRequest{Size: defaultSize}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 0 {
		out.Page = v
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 {
		out.Size = v
	}
	if maxSize > 0 && out.Size > maxSize {
		out.Size = maxSize
	}
	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		field, dir, _ := strings.Cut(raw, ",")
		out.SortField = strings.TrimSpace(field)
		out.SortDesc = strings.EqualFold(strings.TrimSpace(dir), "desc")
	}
	return out
}
