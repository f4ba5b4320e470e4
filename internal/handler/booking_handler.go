package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/minhvt/restaurant-reservation/internal/dto"
	"github.com/minhvt/restaurant-reservation/internal/middleware"
	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/service"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group, staff echo.MiddlewareFunc) {
	g.POST("/bookings", h.Create)
	g.GET("/bookings/:id", h.Get)
	g.POST("/bookings/:id/cancel", h.Cancel)

	g.GET("/bookings", h.List, staff)
	g.POST("/bookings/:id/confirm-deposit", h.ConfirmDeposit, staff)
}

func (h *BookingHandler) Create(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actor := middleware.ActorFrom(c)
	items := make([]service.BookingItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.BookingItemInput{MenuItemID: it.MenuItemID, Quantity: it.Quantity}
	}

	booking, err := h.svc.Create(c.Request().Context(), service.CreateBookingInput{
		CustomerID:    actor.ID,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
		TableID:       req.TableID,
		Guests:        req.Guests,
		ReservedDate:  req.Date,
		ReservedTime:  req.Time,
		Items:         items,
		DepositAmount: req.DepositAmount,
		Note:          req.Note,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ConfirmDeposit(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ConfirmDepositRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TransactionRef == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transaction_ref is required")
	}

	booking, err := h.svc.ConfirmDeposit(c.Request().Context(), id, req.TransactionRef, middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	booking, err := h.svc.Cancel(c.Request().Context(), id, req.Reason, middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) List(c echo.Context) error {
	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		status = &bs
	}

	bookings, err := h.svc.List(c.Request().Context(), status)
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}
	return c.JSON(http.StatusOK, resp)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
