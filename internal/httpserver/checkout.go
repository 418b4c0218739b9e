package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/logging"
	authmw "github.com/mstepanov/storefront/internal/middleware/auth"
	"github.com/mstepanov/storefront/internal/mykafka"
	"github.com/mstepanov/storefront/internal/repo"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/transport"
)

type CheckoutHTTP struct {
	Svc      *service.CheckoutService
	Producer *mykafka.Producer
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	userID := authmw.UserID(c)
	order, items, err := h.Svc.Checkout(ctx, userID, req)
	if err != nil {
		var stockErr *repo.InsufficientStockError
		if errors.As(err, &stockErr) {
			l.Warn("checkout_error", "status", 409, "reason", "insufficient stock", "product_id", stockErr.ProductID)
			return echo.NewHTTPError(http.StatusConflict, stockErr.Error())
		}
		var couponErr *repo.CouponExhaustedError
		if errors.As(err, &couponErr) {
			l.Warn("checkout_error", "status", 409, "reason", "coupon exhausted", "code", couponErr.Code)
			return echo.NewHTTPError(http.StatusConflict, couponErr.Error())
		}
		return httpError(l, "checkout_error", err)
	}

	publishEvent(l, h.Producer, "order_events", order.Number, map[string]any{
		"event":    "order_placed",
		"order_id": order.ID,
		"number":   order.Number,
		"user_id":  order.UserID,
		"total":    order.Total,
	})

	l.Info("checkout_success", "order_id", order.ID, "number", order.Number)
	return c.JSON(http.StatusCreated, transport.OrderResponse{Order: order, Items: items})
}
