package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rohit30san/thapar-olx/pkg/errors"
)

func call(t *testing.T, fn func(c echo.Context) error) (int, Response) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, fn(c))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error", apperrors.DuplicateOpenDeal(), http.StatusConflict, apperrors.CodeDuplicateOpenDeal},
		{"wrapped app error", fmt.Errorf("deal: %w", apperrors.NotFound("Listing", nil)), http.StatusNotFound, apperrors.CodeNotFound},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unknown error", fmt.Errorf("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, func(c echo.Context) error { return Error(c, tt.err) })
			assert.Equal(t, tt.status, status)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestPartial(t *testing.T) {
	err := apperrors.PartialFailure("listing_sync", "Deal saved but the listing was not updated", nil)

	status, body := call(t, func(c echo.Context) error {
		return Partial(c, map[string]string{"id": "d1"}, err)
	})
	assert.Equal(t, http.StatusAccepted, status)
	assert.True(t, body.Success)
	assert.Equal(t, map[string]interface{}{"id": "d1"}, body.Data)
	require.NotNil(t, body.Error)
	assert.Equal(t, apperrors.CodePartialFailure, body.Error.Code)
	assert.Equal(t, "listing_sync", body.Error.Step)

	// Without an AppError there is nothing partial to report.
	status, body = call(t, func(c echo.Context) error {
		return Partial(c, map[string]string{"id": "d1"}, fmt.Errorf("boom"))
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, body.Success)
}

func TestPaginated(t *testing.T) {
	status, body := call(t, func(c echo.Context) error {
		return Paginated(c, []int{1, 2}, 5, 1, 2)
	})
	assert.Equal(t, http.StatusOK, status)
	page := body.Data.(map[string]interface{})
	assert.EqualValues(t, 3, page["totalPages"])
}
