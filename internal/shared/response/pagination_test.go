package response_test

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"worksphere/internal/shared/response"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23}

	t.Run("page count is ceil of total over page size", func(t *testing.T) {
		_, meta := response.Paginate(items, 1, 10)
		assert.Equal(t, 3, meta.TotalPages)
		assert.Equal(t, int64(23), meta.Total)
	})

	t.Run("third page holds the remainder", func(t *testing.T) {
		page, _ := response.Paginate(items, 3, 10)
		assert.Equal(t, []int{21, 22, 23}, page)
	})

	t.Run("page beyond range is empty", func(t *testing.T) {
		page, meta := response.Paginate(items, 4, 10)
		assert.NotNil(t, page)
		assert.Empty(t, page)
		assert.Equal(t, 4, meta.Page)
	})

	t.Run("huge page number is empty", func(t *testing.T) {
		page, _ := response.Paginate([]int{1, 2, 3}, math.MaxInt, 10)
		assert.NotNil(t, page)
		assert.Empty(t, page)

		page, _ = response.Paginate(items, math.MaxInt, response.MaxPageSize)
		assert.Empty(t, page)
	})

	t.Run("empty input", func(t *testing.T) {
		page, meta := response.Paginate([]string{}, 1, 10)
		assert.Empty(t, page)
		assert.Equal(t, 0, meta.TotalPages)
	})

	t.Run("pages concatenate back to the input", func(t *testing.T) {
		var all []int
		for p := 1; p <= 5; p++ {
			chunk, _ := response.Paginate(items, p, 5)
			all = append(all, chunk...)
		}
		assert.Equal(t, items, all)
	})
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{name: "defaults", query: "", wantPage: 1, wantPageSize: 10},
		{name: "explicit", query: "?page=3&page_size=25", wantPage: 3, wantPageSize: 25},
		{name: "malformed falls back", query: "?page=abc&page_size=-1", wantPage: 1, wantPageSize: 10},
		{name: "page size is capped", query: "?page_size=500", wantPage: 1, wantPageSize: 100},
		{name: "max int page is kept", query: "?page=9223372036854775807", wantPage: math.MaxInt, wantPageSize: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/payments"+tt.query, nil)

			page, pageSize := response.PageParams(c)

			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, pageSize)
		})
	}
}
