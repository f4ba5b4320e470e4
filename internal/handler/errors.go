package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minhvt/restaurant-reservation/internal/service"
)

// toHTTPError maps the service error taxonomy onto status codes:
// contention is 409, illegal lifecycle moves are 422, bad input is 400,
// missing entities are 404.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrTableOccupied):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrDepositNotConfirmed):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrInvalidGuests),
		errors.Is(err, service.ErrDepositTooLow),
		errors.Is(err, service.ErrDepositExceedsTotal),
		errors.Is(err, service.ErrMenuItemUnavailable),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrTableNotOccupied):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTableNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
