package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mstepanov/storefront/internal/logging"
	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/mykafka"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/service/search"
	"github.com/mstepanov/storefront/internal/transport"
	"github.com/mstepanov/storefront/internal/util"
)

type CatalogHTTP struct {
	Svc      *service.CatalogService
	Search   *search.Service
	Producer *mykafka.Producer
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	params := service.ListProductsParams{
		CategorySlug: c.QueryParam("category"),
		Status:       models.ProductStatusActive,
		MinPrice:     c.QueryParam("min_price"),
		MaxPrice:     c.QueryParam("max_price"),
		Sort:         c.QueryParam("sort"),
	}

	total, items, err := h.Svc.ListProducts(ctx, params, offset, limit)
	if err != nil {
		return httpError(l, "product_list_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": pageMeta(page, limit, offset, total),
	})
}

// AdminListProducts lists the catalog without the public active-only filter,
// so inactive inventory stays visible and manageable.
func (h *CatalogHTTP) AdminListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.admin_list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	status := c.QueryParam("status")
	if status != "" && status != models.ProductStatusActive && status != models.ProductStatusInactive {
		l.Warn("product_list_error", "status", 400, "reason", "unknown product status")
		return echo.NewHTTPError(http.StatusBadRequest, "status must be active or inactive")
	}

	params := service.ListProductsParams{
		CategorySlug: c.QueryParam("category"),
		Status:       status,
		MinPrice:     c.QueryParam("min_price"),
		MaxPrice:     c.QueryParam("max_price"),
		Sort:         c.QueryParam("sort"),
	}

	total, items, err := h.Svc.ListProducts(ctx, params, offset, limit)
	if err != nil {
		return httpError(l, "product_list_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	product, err := h.Svc.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		return httpError(l, "product_get_error", err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return httpError(l, "product_create_error", err)
	}

	if err := h.Search.IndexProduct(ctx, product); err != nil {
		l.Warn("product_index_failed", "product_id", product.ID, "error", err)
	}
	publishEvent(l, h.Producer, "product_events", product.Slug, map[string]any{
		"event":      "product_created",
		"product_id": product.ID,
		"slug":       product.Slug,
	})

	l.Info("product_create_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.PatchProduct(ctx, req, id)
	if err != nil {
		return httpError(l, "product_patch_error", err)
	}

	if err := h.Search.IndexProduct(ctx, product); err != nil {
		l.Warn("product_index_failed", "product_id", product.ID, "error", err)
	}
	publishEvent(l, h.Producer, "product_events", product.Slug, map[string]any{
		"event":      "product_updated",
		"product_id": product.ID,
		"slug":       product.Slug,
	})

	l.Info("product_patch_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_delete_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return httpError(l, "product_delete_error", err)
	}

	if err := h.Search.DeleteProduct(ctx, id); err != nil {
		l.Warn("product_deindex_failed", "product_id", id, "error", err)
	}
	publishEvent(l, h.Producer, "product_events", c.Param("id"), map[string]any{
		"event":      "product_deleted",
		"product_id": id,
	})

	l.Info("product_delete_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return httpError(l, "category_list_error", err)
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return httpError(l, "category_create_error", err)
	}

	l.Info("category_create_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.patch")

	id, err := parseID(c)
	if err != nil {
		l.Warn("category_patch_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.PatchCategory(ctx, req, id)
	if err != nil {
		return httpError(l, "category_patch_error", err)
	}

	l.Info("category_patch_success", "category_id", cat.ID)
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("category_delete_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return httpError(l, "category_delete_error", err)
	}

	l.Info("category_delete_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}
