package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/logging"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/transport"
	"github.com/mstepanov/storefront/internal/util"
)

type CouponHTTP struct {
	Svc *service.CouponService
}

func (h *CouponHTTP) ListCoupons(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, coupons, err := h.Svc.ListCoupons(ctx, offset, limit)
	if err != nil {
		return httpError(l, "coupon_list_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": coupons,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *CouponHTTP) CreateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.create")

	var req transport.CreateCouponRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("coupon_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	coupon, err := h.Svc.CreateCoupon(ctx, req)
	if err != nil {
		return httpError(l, "coupon_create_error", err)
	}

	l.Info("coupon_create_success", "coupon_id", coupon.ID, "code", coupon.Code)
	return c.JSON(http.StatusCreated, coupon)
}

func (h *CouponHTTP) UpdateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.update")

	id, err := parseID(c)
	if err != nil {
		l.Warn("coupon_update_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.CreateCouponRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("coupon_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	coupon, err := h.Svc.UpdateCoupon(ctx, id, req)
	if err != nil {
		return httpError(l, "coupon_update_error", err)
	}

	l.Info("coupon_update_success", "coupon_id", coupon.ID)
	return c.JSON(http.StatusOK, coupon)
}

func (h *CouponHTTP) DeleteCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("coupon_delete_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteCoupon(ctx, id); err != nil {
		return httpError(l, "coupon_delete_error", err)
	}

	l.Info("coupon_delete_success", "coupon_id", id)
	return c.NoContent(http.StatusNoContent)
}
