package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minhvt/restaurant-reservation/internal/middleware"
	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/service"
)

type TableHandler struct {
	svc service.TableService
}

func NewTableHandler(svc service.TableService) *TableHandler {
	return &TableHandler{svc: svc}
}

func (h *TableHandler) RegisterRoutes(g *echo.Group, staff echo.MiddlewareFunc) {
	g.GET("/tables", h.List)
	g.GET("/tables/:id", h.Get)
	g.POST("/tables/:id/return", h.ForceReturn, staff)
}

func (h *TableHandler) List(c echo.Context) error {
	var status *models.TableStatus
	if s := c.QueryParam("status"); s != "" {
		ts := models.TableStatus(s)
		status = &ts
	}

	tables, err := h.svc.List(c.Request().Context(), status)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	table, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, table)
}

func (h *TableHandler) ForceReturn(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.ForceReturn(c.Request().Context(), id, middleware.ActorFrom(c)); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": string(models.TableEmpty)})
}
