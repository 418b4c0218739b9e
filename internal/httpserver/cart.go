package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/logging"
	authmw "github.com/mstepanov/storefront/internal/middleware/auth"
	"github.com/mstepanov/storefront/internal/mykafka"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	cart, err := h.Svc.GetCart(ctx, authmw.Identity(c))
	if err != nil {
		return httpError(l, "cart_get_error", err)
	}

	return c.JSON(http.StatusOK, cart)
}

// CartAction dispatches all cart mutations from one endpoint: add, update,
// remove, clear, apply_coupon and remove_coupon. Every success responds
// with the freshly priced cart.
func (h *CartHTTP) CartAction(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.action")

	var req transport.CartActionRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_action_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id := authmw.Identity(c)
	l = l.With("action", req.Action)

	var (
		cart *transport.CartResponse
		err  error
	)
	switch req.Action {
	case "add":
		cart, err = h.Svc.AddToCart(ctx, id, req.ProductID, req.Quantity)
	case "update":
		cart, err = h.Svc.UpdateQuantity(ctx, id, req.ProductID, req.Quantity)
	case "remove":
		cart, err = h.Svc.RemoveFromCart(ctx, id, req.ProductID)
	case "clear":
		cart, err = h.Svc.ClearCart(ctx, id)
	case "apply_coupon":
		cart, err = h.Svc.ApplyCoupon(ctx, id, req.Code)
	case "remove_coupon":
		cart, err = h.Svc.RemoveCoupon(ctx, id)
	default:
		l.Warn("cart_action_error", "status", 400, "reason", "unknown action")
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
	}
	if err != nil {
		return httpError(l, "cart_action_error", err)
	}

	publishEvent(l, h.Producer, "cart_events", req.Action, map[string]any{
		"event":      "cart_" + req.Action,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	l.Info("cart_action_success")
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"cart":    cart,
	})
}
