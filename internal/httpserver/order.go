package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/logging"
	authmw "github.com/mstepanov/storefront/internal/middleware/auth"
	"github.com/mstepanov/storefront/internal/mykafka"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/transport"
	"github.com/mstepanov/storefront/internal/util"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHTTP) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_mine")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListMine(ctx, authmw.UserID(c), offset, limit)
	if err != nil {
		return httpError(l, "order_list_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *OrderHTTP) GetMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_mine")

	id, err := parseID(c)
	if err != nil {
		l.Warn("order_get_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, items, err := h.Svc.GetForUser(ctx, id, authmw.UserID(c))
	if err != nil {
		return httpError(l, "order_get_error", err)
	}

	return c.JSON(http.StatusOK, transport.OrderResponse{Order: order, Items: items})
}

func (h *OrderHTTP) CancelMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_mine")

	id, err := parseID(c)
	if err != nil {
		l.Warn("order_cancel_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.Svc.CancelForUser(ctx, id, authmw.UserID(c))
	if err != nil {
		return httpError(l, "order_cancel_error", err)
	}

	publishEvent(l, h.Producer, "order_events", order.Number, map[string]any{
		"event":    "order_cancelled",
		"order_id": order.ID,
		"number":   order.Number,
	})

	l.Info("order_cancel_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.List(ctx, c.QueryParam("status"), offset, limit)
	if err != nil {
		return httpError(l, "order_list_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := parseID(c)
	if err != nil {
		l.Warn("order_get_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, items, err := h.Svc.Get(ctx, id)
	if err != nil {
		return httpError(l, "order_get_error", err)
	}

	return c.JSON(http.StatusOK, transport.OrderResponse{Order: order, Items: items})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c)
	if err != nil {
		l.Warn("order_status_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("order_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return httpError(l, "order_status_error", err)
	}

	publishEvent(l, h.Producer, "order_events", order.Number, map[string]any{
		"event":    "order_status_changed",
		"order_id": order.ID,
		"number":   order.Number,
		"status":   order.Status,
	})

	l.Info("order_status_success", "order_id", order.ID, "new_status", order.Status)
	return c.JSON(http.StatusOK, order)
}
