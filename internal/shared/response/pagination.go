package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageParams reads page and page_size from the query string, falling back to
// the defaults for missing or malformed values.
func PageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return page, pageSize
}

// Paginate returns the 1-based page of items and its metadata. A page outside
// the available range yields an empty, non-nil slice.
func Paginate[T any](items []T, page, pageSize int) ([]T, PaginationMeta) {
	meta := NewPaginationMeta(int64(len(items)), page, pageSize)
	if page < 1 || pageSize < 1 {
		return []T{}, meta
	}

	// Compare in pages first so a huge page number cannot overflow.
	if page-1 >= (len(items)+pageSize-1)/pageSize {
		return []T{}, meta
	}

	start := (page - 1) * pageSize

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], meta
}
