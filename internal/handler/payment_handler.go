package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minhvt/restaurant-reservation/internal/dto"
	"github.com/minhvt/restaurant-reservation/internal/middleware"
	"github.com/minhvt/restaurant-reservation/internal/service"
	"github.com/minhvt/restaurant-reservation/pkg/paymentcode"
)

type PaymentHandler struct {
	settlement service.SettlementService
	bookings   service.BookingService
	codes      *paymentcode.Builder
}

func NewPaymentHandler(settlement service.SettlementService, bookings service.BookingService, codes *paymentcode.Builder) *PaymentHandler {
	return &PaymentHandler{settlement: settlement, bookings: bookings, codes: codes}
}

func (h *PaymentHandler) RegisterRoutes(g *echo.Group, staff echo.MiddlewareFunc) {
	g.POST("/payment/confirm-manual/:bookingId", h.ConfirmManual, staff)
	g.GET("/payment/code/:bookingId", h.PaymentCode)
	g.GET("/payment/transactions/:bookingId", h.Transactions, staff)
}

// ConfirmManual is the fallback when the payment gateway webhook is
// unavailable. Repeating the call acks idempotently.
func (h *PaymentHandler) ConfirmManual(c echo.Context) error {
	bookingID, err := parseID(c, "bookingId")
	if err != nil {
		return err
	}

	var req dto.ManualDepositRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	deposit, err := h.settlement.ConfirmDepositManually(
		c.Request().Context(), bookingID, req.Amount, req.Method, middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToTransactionResponse(deposit))
}

// PaymentCode hands the client the collaborator URL rendering a scannable
// deposit payment code for a pending booking.
func (h *PaymentHandler) PaymentCode(c echo.Context) error {
	bookingID, err := parseID(c, "bookingId")
	if err != nil {
		return err
	}

	booking, err := h.bookings.Get(c.Request().Context(), bookingID)
	if err != nil {
		return toHTTPError(err)
	}

	note := fmt.Sprintf("BOOKING %d", booking.ID)
	return c.JSON(http.StatusOK, dto.PaymentCodeResponse{
		BookingID: booking.ID,
		Amount:    booking.DepositAmount,
		Note:      note,
		CodeURL:   h.codes.URL(booking.DepositAmount, note),
	})
}

func (h *PaymentHandler) Transactions(c echo.Context) error {
	bookingID, err := parseID(c, "bookingId")
	if err != nil {
		return err
	}

	ts, err := h.settlement.TransactionsForBooking(c.Request().Context(), bookingID)
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.TransactionResponse, len(ts))
	for i := range ts {
		resp[i] = dto.ToTransactionResponse(&ts[i])
	}
	return c.JSON(http.StatusOK, resp)
}
