package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{Page: 1, PageSize: 20, Offset: 0}},
		{"?page=3&limit=10", PaginationParams{Page: 3, PageSize: 10, Offset: 20}},
		{"?page=-1&limit=500", PaginationParams{Page: 1, PageSize: 20, Offset: 0}},
		{"?page=abc", PaginationParams{Page: 1, PageSize: 20, Offset: 0}},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/listings"+tt.query, nil)
			c := e.NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tt.want, GetPaginationParams(c))
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Paginate(items, PaginationParams{Page: 1, PageSize: 2, Offset: 0}))
	assert.Equal(t, []int{5}, Paginate(items, PaginationParams{Page: 3, PageSize: 2, Offset: 4}))
	assert.Empty(t, Paginate(items, PaginationParams{Page: 4, PageSize: 2, Offset: 6}))
}
