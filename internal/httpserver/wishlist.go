package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/logging"
	authmw "github.com/mstepanov/storefront/internal/middleware/auth"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/transport"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get")

	products, err := h.Svc.GetWishlist(ctx, authmw.UserID(c))
	if err != nil {
		return httpError(l, "wishlist_get_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{"items": products})
}

func (h *WishlistHTTP) WishlistAction(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.action")

	var req transport.WishlistActionRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("wishlist_action_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	userID := authmw.UserID(c)
	l = l.With("action", req.Action)

	var (
		inWishlist bool
		err        error
	)
	switch req.Action {
	case "add":
		inWishlist, err = true, h.Svc.Add(ctx, userID, req.ProductID)
	case "remove":
		inWishlist, err = false, h.Svc.Remove(ctx, userID, req.ProductID)
	case "toggle":
		inWishlist, err = h.Svc.Toggle(ctx, userID, req.ProductID)
	default:
		l.Warn("wishlist_action_error", "status", 400, "reason", "unknown action")
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
	}
	if err != nil {
		return httpError(l, "wishlist_action_error", err)
	}

	l.Info("wishlist_action_success")
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"in_wishlist": inWishlist,
	})
}
