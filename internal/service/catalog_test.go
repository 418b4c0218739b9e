package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/transport"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Blue Widget", "blue-widget"},
		{"  Blue   Widget  ", "blue-widget"},
		{"Widget 2.0 (Pro)", "widget-2-0-pro"},
		{"ALLCAPS", "allcaps"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestCatalogService_CreateProduct_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()
	cat := seedCategory(t, r)

	tests := []struct {
		name string
		req  transport.CreateProductRequest
	}{
		{name: "empty name", req: transport.CreateProductRequest{Price: dec("5"), CategoryID: cat.ID}},
		{name: "zero price", req: transport.CreateProductRequest{Name: "X", Price: dec("0"), CategoryID: cat.ID}},
		{name: "sale above price", req: transport.CreateProductRequest{Name: "X", Price: dec("5"), SalePrice: nullDec("6"), CategoryID: cat.ID}},
		{name: "missing category", req: transport.CreateProductRequest{Name: "X", Price: dec("5")}},
		{name: "unknown category", req: transport.CreateProductRequest{Name: "X", Price: dec("5"), CategoryID: 999}},
		{name: "bad status", req: transport.CreateProductRequest{Name: "X", Price: dec("5"), CategoryID: cat.ID, Status: "archived"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.CreateProduct(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCatalogService_CreateProduct_GeneratesSlug(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	cat := seedCategory(t, r)

	product, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
		Name: "Blue Widget", Price: dec("5"), Stock: 3, CategoryID: cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "blue-widget", product.Slug)
	assert.Equal(t, models.ProductStatusActive, product.Status)
}

func TestCatalogService_CreateProduct_DuplicateSlug(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()
	cat := seedCategory(t, r)

	req := transport.CreateProductRequest{Name: "Blue Widget", Price: dec("5"), CategoryID: cat.ID}
	_, err := svc.CreateProduct(ctx, req)
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCatalogService_DeleteProduct_GuardedByOrders(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("10"), Stock: 5})
	user := seedUser(t, r, "buyer@example.com")
	order := seedOrder(t, r, user.ID, models.OrderStatusPending)
	require.NoError(t, r.DB.Create(&models.OrderItem{
		OrderID: order.ID, ProductID: p.ID, ProductName: p.Name,
		UnitPrice: dec("10"), Quantity: 1, LineTotal: dec("10"),
	}).Error)

	err := svc.DeleteProduct(ctx, p.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	require.NoError(t, r.DB.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCatalogService_DeleteCategory_GuardedByProducts(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	cat := seedCategory(t, r)
	seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("10"), CategoryID: cat.ID})

	err := svc.DeleteCategory(ctx, cat.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCatalogService_DeleteCategory_GuardedByChildren(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	parent := seedCategory(t, r)
	require.NoError(t, r.DB.Create(&models.Category{Name: "Child", Slug: "child", ParentID: &parent.ID}).Error)

	err := svc.DeleteCategory(ctx, parent.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCatalogService_DeleteCategory_Empty(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	cat := seedCategory(t, r)

	require.NoError(t, svc.DeleteCategory(context.Background(), cat.ID))
}

func TestCatalogService_ListProducts_UnknownCategoryIsEmpty(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}

	seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("10")})

	total, items, err := svc.ListProducts(context.Background(), ListProductsParams{CategorySlug: "nope"}, 0, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestCatalogService_ListProducts_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()
	cat := seedCategory(t, r)

	seedProduct(t, r, models.Product{Name: "Cheap", Slug: "cheap", Price: dec("5"), CategoryID: cat.ID})
	seedProduct(t, r, models.Product{Name: "Mid", Slug: "mid", Price: dec("15"), CategoryID: cat.ID})
	seedProduct(t, r, models.Product{Name: "Dear", Slug: "dear", Price: dec("50"), CategoryID: cat.ID})

	total, items, err := svc.ListProducts(ctx, ListProductsParams{
		CategorySlug: "gadgets",
		MinPrice:     "10",
		Sort:         "price_desc",
	}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Dear", items[0].Name)
	assert.Equal(t, "Mid", items[1].Name)
}

func TestCatalogService_GetProductBySlug_InactiveHidden(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()
	cat := seedCategory(t, r)

	seedProduct(t, r, models.Product{
		Name: "Retired", Slug: "retired", Price: dec("8"),
		CategoryID: cat.ID, Status: models.ProductStatusInactive,
	})
	seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("20"), CategoryID: cat.ID})

	_, err := svc.GetProductBySlug(ctx, "retired")
	require.ErrorIs(t, err, ErrNotFound)

	product, err := svc.GetProductBySlug(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, "Widget", product.Name)
}

func TestCatalogService_ListProducts_StatusFilter(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()
	cat := seedCategory(t, r)

	seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("20"), CategoryID: cat.ID})
	seedProduct(t, r, models.Product{
		Name: "Retired", Slug: "retired", Price: dec("8"),
		CategoryID: cat.ID, Status: models.ProductStatusInactive,
	})

	// No status filter returns the whole catalog, inactive included.
	total, items, err := svc.ListProducts(ctx, ListProductsParams{}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	total, items, err = svc.ListProducts(ctx, ListProductsParams{Status: models.ProductStatusInactive}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Retired", items[0].Name)
}
