package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minhvt/restaurant-reservation/internal/dto"
	"github.com/minhvt/restaurant-reservation/internal/middleware"
	"github.com/minhvt/restaurant-reservation/internal/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/notifications", h.List)
	g.GET("/notifications/unread-count", h.UnreadCount)
	g.POST("/notifications/:id/read", h.MarkRead)
	g.POST("/notifications/read-all", h.MarkAllRead)
	g.DELETE("/notifications/:id", h.Delete)
}

func (h *NotificationHandler) List(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if actor.ID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ns, err := h.svc.List(c.Request().Context(), actor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ns)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if actor.ID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	count, err := h.svc.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: count})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.MarkRead(c.Request().Context(), id, middleware.ActorFrom(c)); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.svc.MarkAllRead(c.Request().Context(), middleware.ActorFrom(c)); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), id, middleware.ActorFrom(c)); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
