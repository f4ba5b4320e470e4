package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minhvt/restaurant-reservation/internal/dto"
)

// ErrorHandler renders every error as the {"message": ...} envelope the
// handlers use. Handlers map the service taxonomy onto status codes
// themselves; anything arriving here unmapped (panics recovered by echo,
// routing errors) is treated as internal, logged with the request line, and
// reported without leaking the cause.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s -> %d: %v", c.Request().Method, c.Request().URL.Path, code, err)
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
