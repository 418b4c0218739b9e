package authmw

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/tokens"
)

const cartTokenTTL = 30 * 24 * time.Hour

// CartIdentity resolves which cart the request is acting on. Logged-in
// users get their user cart; anonymous visitors are keyed by a cart token
// taken from the X-Cart-Token header or the cart_token cookie, minting a
// fresh token when neither is present.
func CartIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if userID := UserID(c); userID != 0 {
			c.Set("cart_identity", models.UserIdentity(userID))
			return next(c)
		}

		token := c.Request().Header.Get("X-Cart-Token")
		if token == "" {
			if cookie, err := c.Cookie(tokens.CartCookieName); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			token = uuid.NewString()
			c.SetCookie(tokens.CreateCookie(tokens.CartCookieName, token, "/", time.Now().Add(cartTokenTTL)))
		}

		c.Set("cart_token", token)
		c.Set("cart_identity", models.SessionIdentity(token))
		return next(c)
	}
}

// Identity returns the cart identity set by CartIdentity.
func Identity(c echo.Context) models.Identity {
	if id, ok := c.Get("cart_identity").(models.Identity); ok {
		return id
	}
	return models.Identity{}
}

// CartToken returns the anonymous cart token for the request, empty for
// logged-in users.
func CartToken(c echo.Context) string {
	if token, ok := c.Get("cart_token").(string); ok {
		return token
	}
	return ""
}
