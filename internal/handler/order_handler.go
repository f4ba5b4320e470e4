package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minhvt/restaurant-reservation/internal/dto"
	"github.com/minhvt/restaurant-reservation/internal/middleware"
	"github.com/minhvt/restaurant-reservation/internal/service"
)

type OrderHandler struct {
	orders     service.OrderService
	settlement service.SettlementService
}

func NewOrderHandler(orders service.OrderService, settlement service.SettlementService) *OrderHandler {
	return &OrderHandler{orders: orders, settlement: settlement}
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group, staff echo.MiddlewareFunc) {
	g.POST("/orders/by-table/:tableId/items", h.AddItems, staff)
	g.GET("/orders/by-table/:tableId", h.GetByTable, staff)
	g.POST("/orders/by-table/:tableId/pay", h.Pay, staff)
}

func (h *OrderHandler) AddItems(c echo.Context) error {
	tableID, err := parseID(c, "tableId")
	if err != nil {
		return err
	}

	var req dto.AddOrderItemsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.OrderItemInput{MenuItemID: it.MenuItemID, Quantity: it.Quantity}
	}

	order, err := h.orders.AddItems(c.Request().Context(), tableID, items)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetByTable(c echo.Context) error {
	tableID, err := parseID(c, "tableId")
	if err != nil {
		return err
	}

	order, err := h.orders.GetByTable(c.Request().Context(), tableID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// Pay triggers the settlement reconciler for the table's open order.
func (h *OrderHandler) Pay(c echo.Context) error {
	tableID, err := parseID(c, "tableId")
	if err != nil {
		return err
	}

	res, err := h.settlement.Reconcile(c.Request().Context(), tableID, middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.SettlementResponse{
		Settlement:     res.Type,
		Amount:         res.Amount,
		TransactionRef: res.Transaction.Ref,
		OrderID:        res.Order.ID,
		BookingID:      res.Booking.ID,
	})
}
