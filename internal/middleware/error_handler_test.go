package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/bookings/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(err, c)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body["message"]
}

func TestErrorHandler_HTTPErrorPassesThrough(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusConflict, "table is already occupied"))

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "table is already occupied", msg)
}

func TestErrorHandler_UnmappedErrorHidden(t *testing.T) {
	code, msg := renderError(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", msg)
}

func TestErrorHandler_NonStringMessage(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusNotFound))

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, http.StatusText(http.StatusNotFound), msg)
}
