package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/logging"
	authmw "github.com/mstepanov/storefront/internal/middleware/auth"
	"github.com/mstepanov/storefront/internal/mykafka"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/tokens"
	"github.com/mstepanov/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Carts    *service.CartService
	Producer *mykafka.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return httpError(l, "register_error", err)
	}

	publishEvent(l, h.Producer, "user_events", user.Email, map[string]any{
		"event":   "user_registered",
		"user_id": user.ID,
	})

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(l, "login_error", err)
	}

	// Fold the anonymous cart into the user's cart and retire the token.
	if cartToken := authmw.CartToken(c); cartToken != "" {
		if err := h.Carts.Merge(ctx, cartToken, result.User.ID); err != nil {
			l.Warn("cart_merge_failed", "user_id", result.User.ID, "error", err)
		}
		c.SetCookie(tokens.DeleteCookie(tokens.CartCookieName, "/"))
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookieName, result.AccessToken, "/", result.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookieName, result.RefreshToken, "/", result.RefreshExp))

	publishEvent(l, h.Producer, "user_events", result.User.Email, map[string]any{
		"event":   "user_logged_in",
		"user_id": result.User.ID,
	})

	l.Info("login_success", "user_id", result.User.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"id":    result.User.ID,
		"name":  result.User.Name,
		"email": result.User.Email,
		"role":  result.User.Role,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie(tokens.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	result, err := h.Svc.Rotate(ctx, cookie.Value)
	if err != nil {
		c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/"))
		c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookieName, "/"))
		l.Warn("refresh_error", "status", 401, "reason", "rotation failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookieName, result.AccessToken, "/", result.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookieName, result.RefreshToken, "/", result.RefreshExp))

	l.Info("refresh_success", "user_id", result.User.ID)
	return c.NoContent(http.StatusOK)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if cookie, err := c.Cookie(tokens.RefreshCookieName); err == nil && cookie.Value != "" {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			l.Warn("logout_revoke_failed", "error", err)
		}
	}

	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookieName, "/"))

	l.Info("logout_success")
	return c.NoContent(http.StatusOK)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	user, err := h.Svc.Repo.GetUser(ctx, authmw.UserID(c))
	if err != nil {
		return httpError(l, "me_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"role":         user.Role,
		"address_line": user.AddressLine,
		"city":         user.City,
		"postal_code":  user.PostalCode,
		"country":      user.Country,
	})
}
