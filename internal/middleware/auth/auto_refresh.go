package authmw

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/tokens"
)

// AutoRefreshMiddleware authenticates requests from the access cookie and,
// when the access token has expired but a valid refresh token is present,
// rotates the pair transparently and sets fresh cookies on the response.
type AutoRefreshMiddleware struct {
	JWTSecret []byte
	Auth      *service.AuthService
}

func NewAutoRefreshMiddleware(secret []byte, auth *service.AuthService) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{JWTSecret: secret, Auth: auth}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

// OptionalAuth sets the user context when a valid access token is present
// and lets the request through anonymously otherwise. It never refreshes.
func (m *AutoRefreshMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(tokens.AccessCookieName)
		if err == nil && accessCookie.Value != "" {
			if claims, cErr := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret); cErr == nil && claims != nil {
				setUserContext(c, claims)
			}
		}
		return next(c)
	}
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(tokens.AccessCookieName)
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)

		if err == nil && claims != nil {
			if validator != nil {
				if validationErr := validator(claims); validationErr != nil {
					return validationErr
				}
			}

			setUserContext(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie(tokens.RefreshCookieName)
		if rErr != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}

		result, refErr := m.Auth.Rotate(c.Request().Context(), refreshCookie.Value)
		if refErr != nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
		}

		c.SetCookie(tokens.CreateCookie(tokens.AccessCookieName, result.AccessToken, "/", result.AccessExp))
		c.SetCookie(tokens.CreateCookie(tokens.RefreshCookieName, result.RefreshToken, "/", result.RefreshExp))

		newClaims, pErr := tokens.AccessClaimsFromToken(result.AccessToken, m.JWTSecret)
		if pErr != nil || newClaims == nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
		}

		if validator != nil {
			if validationErr := validator(newClaims); validationErr != nil {
				clearAuthCookies(c)
				return validationErr
			}
		}

		setUserContext(c, newClaims)

		return next(c)
	}
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookieName, "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	userID, err := claims.UserID()
	if err != nil {
		return
	}
	c.Set("user_id", userID)
	c.Set("role", claims.Role)
}

// UserID returns the authenticated user's ID, or 0 for anonymous requests.
func UserID(c echo.Context) uint {
	if id, ok := c.Get("user_id").(uint); ok {
		return id
	}
	return 0
}

func Role(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	return ""
}
