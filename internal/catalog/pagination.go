package catalog

import (
	"strconv"
	"strings"
)

// PageLast selects the final page.
const PageLast = "last"

// Pagination describes one page of a listing.
type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	NumPages    int   `json:"num_pages"`
	Count       int64 `json:"count"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// Offset is the index of the first item on the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Paginate resolves a raw page parameter against the item count. The first
// page always exists, even when there are no items. Any other page outside
// the range, or a parameter that is not a number, returns ErrNotFound.
func Paginate(raw string, count int64, pageSize int) (Pagination, error) {
	if pageSize < 1 {
		pageSize = 1
	}
	numPages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if numPages == 0 {
		numPages = 1
	}

	page := 1
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
	case raw == PageLast:
		page = numPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > numPages {
			return Pagination{}, ErrNotFound
		}
		page = n
	}

	return Pagination{
		Page:        page,
		PageSize:    pageSize,
		NumPages:    numPages,
		Count:       count,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
	}, nil
}
