package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/logging"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/transport"
	"github.com/mstepanov/storefront/internal/util"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, users, err := h.Svc.ListUsers(ctx, offset, limit)
	if err != nil {
		return httpError(l, "user_list_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": users,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *UserHTTP) PatchUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.patch")

	id, err := parseID(c)
	if err != nil {
		l.Warn("user_patch_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.PatchUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("user_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.PatchUser(ctx, req, id)
	if err != nil {
		return httpError(l, "user_patch_error", err)
	}

	l.Info("user_patch_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("user_delete_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		return httpError(l, "user_delete_error", err)
	}

	l.Info("user_delete_success", "user_id", id)
	return c.NoContent(http.StatusNoContent)
}
