package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/logging"
	"github.com/mstepanov/storefront/internal/service/search"
	"github.com/mstepanov/storefront/internal/util"
)

type SearchHTTP struct {
	Svc *search.Service
}

func (h *SearchHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.products")

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		l.Warn("search_error", "status", 400, "reason", "query param q required")
		return echo.NewHTTPError(http.StatusBadRequest, "query param q required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, products, err := h.Svc.Search(ctx, query, offset, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search unavailable")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": products,
		"meta": pageMeta(page, limit, offset, total),
	})
}
