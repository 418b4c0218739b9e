package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/db"
	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/transport"
)

type testEnv struct {
	E       *echo.Echo
	DB      *gorm.DB
	Cart    *CartHTTP
	Catalog *CatalogHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	r := &repo.GormRepo{DB: gdb}
	coupons := &service.CouponService{Repo: r}
	carts := &service.CartService{Repo: r, Coupons: coupons}

	return &testEnv{
		E:       echo.New(),
		DB:      gdb,
		Cart:    &CartHTTP{Svc: carts},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
	}
}

func (env *testEnv) doJSONRequest(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set("cart_identity", models.SessionIdentity("test-cart-token"))
	return rec, c
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCartAction_AddAndApplyCoupon(t *testing.T) {
	env := newTestEnv(t)

	cat := models.Category{Name: "Gadgets", Slug: "gadgets"}
	require.NoError(t, env.DB.Create(&cat).Error)
	onSale := models.Product{
		Name: "Widget", Slug: "widget",
		Price:     mustDec("20"),
		SalePrice: decimal.NullDecimal{Decimal: mustDec("15"), Valid: true},
		Stock:     10, CategoryID: cat.ID, Status: models.ProductStatusActive,
	}
	regular := models.Product{
		Name: "Gizmo", Slug: "gizmo",
		Price: mustDec("10"),
		Stock: 10, CategoryID: cat.ID, Status: models.ProductStatusActive,
	}
	require.NoError(t, env.DB.Create(&onSale).Error)
	require.NoError(t, env.DB.Create(&regular).Error)
	require.NoError(t, env.DB.Create(&models.Coupon{
		Code: "SAVE10", Type: models.CouponTypePercentage, Value: mustDec("10"), Active: true,
	}).Error)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/cart",
		transport.CartActionRequest{Action: "add", ProductID: onSale.ID, Quantity: 2})
	require.NoError(t, env.Cart.CartAction(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/cart",
		transport.CartActionRequest{Action: "add", ProductID: regular.ID, Quantity: 1})
	require.NoError(t, env.Cart.CartAction(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/cart",
		transport.CartActionRequest{Action: "apply_coupon", Code: "SAVE10"})
	require.NoError(t, env.Cart.CartAction(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Cart    transport.CartResponse `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Cart.Items, 2)
	assert.True(t, resp.Cart.Subtotal.Equal(mustDec("40")))
	assert.True(t, resp.Cart.Discount.Equal(mustDec("4")))
	assert.True(t, resp.Cart.Total.Equal(mustDec("36")))
	assert.Equal(t, "SAVE10", resp.Cart.CouponCode)
}

func TestCartAction_UnknownAction(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/cart",
		transport.CartActionRequest{Action: "teleport"})

	err := env.Cart.CartAction(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetCart_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.True(t, resp.Total.IsZero())
}
