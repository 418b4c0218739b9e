package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstepanov/storefront/internal/models"
)

func TestCartService_GetCart_PricesSaleOverRegular(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r, Coupons: &CouponService{Repo: r}}
	ctx := context.Background()

	cat := seedCategory(t, r)
	onSale := seedProduct(t, r, models.Product{
		Name: "Widget", Slug: "widget",
		Price: dec("20"), SalePrice: nullDec("15"),
		Stock: 10, CategoryID: cat.ID,
	})
	regular := seedProduct(t, r, models.Product{
		Name: "Gizmo", Slug: "gizmo",
		Price: dec("10"),
		Stock: 10, CategoryID: cat.ID,
	})

	id := models.SessionIdentity("anon-1")
	_, err := svc.AddToCart(ctx, id, onSale.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, id, regular.ID, 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, id)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	// 2 x 15 (sale price) + 1 x 10 = 40
	assert.True(t, cart.Subtotal.Equal(dec("40")), "want subtotal 40, got %s", cart.Subtotal)
	assert.True(t, cart.Discount.IsZero())
	assert.True(t, cart.Total.Equal(dec("40")))
}

func TestCartService_AddToCart_AccumulatesQuantity(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r, Coupons: &CouponService{Repo: r}}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("5"), Stock: 10})
	id := models.SessionIdentity("anon-1")

	_, err := svc.AddToCart(ctx, id, p.ID, 2)
	require.NoError(t, err)
	cart, err := svc.AddToCart(ctx, id, p.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.EqualValues(t, 5, cart.Items[0].Quantity)
}

func TestCartService_AddToCart_InactiveProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r, Coupons: &CouponService{Repo: r}}

	p := seedProduct(t, r, models.Product{
		Name: "Hidden", Slug: "hidden", Price: dec("5"), Stock: 10,
		Status: models.ProductStatusInactive,
	})

	_, err := svc.AddToCart(context.Background(), models.SessionIdentity("anon-1"), p.ID, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartService_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r, Coupons: &CouponService{Repo: r}}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("5"), Stock: 10})
	id := models.SessionIdentity("anon-1")

	_, err := svc.AddToCart(ctx, id, p.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, id, p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_ApplyCoupon(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r, Coupons: &CouponService{Repo: r}}
	ctx := context.Background()

	cat := seedCategory(t, r)
	a := seedProduct(t, r, models.Product{
		Name: "Widget", Slug: "widget",
		Price: dec("20"), SalePrice: nullDec("15"),
		Stock: 10, CategoryID: cat.ID,
	})
	b := seedProduct(t, r, models.Product{
		Name: "Gizmo", Slug: "gizmo", Price: dec("10"), Stock: 10, CategoryID: cat.ID,
	})
	require.NoError(t, r.DB.Create(&models.Coupon{
		Code: "SAVE10", Type: models.CouponTypePercentage, Value: dec("10"), Active: true,
	}).Error)

	id := models.SessionIdentity("anon-1")
	_, err := svc.AddToCart(ctx, id, a.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, id, b.ID, 1)
	require.NoError(t, err)

	cart, err := svc.ApplyCoupon(ctx, id, "SAVE10")
	require.NoError(t, err)

	assert.True(t, cart.Subtotal.Equal(dec("40")))
	assert.True(t, cart.Discount.Equal(dec("4")), "10 percent of 40")
	assert.True(t, cart.Total.Equal(dec("36")))
	assert.Equal(t, "SAVE10", cart.CouponCode)
}

func TestCartService_ApplyCoupon_EmptyCart(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r, Coupons: &CouponService{Repo: r}}

	require.NoError(t, r.DB.Create(&models.Coupon{
		Code: "SAVE10", Type: models.CouponTypePercentage, Value: dec("10"), Active: true,
	}).Error)

	_, err := svc.ApplyCoupon(context.Background(), models.SessionIdentity("anon-1"), "SAVE10")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartService_ApplyCoupon_RejectionSurfacesReason(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r, Coupons: &CouponService{Repo: r}}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("10"), Stock: 10})
	require.NoError(t, r.DB.Create(&models.Coupon{
		Code: "MIN50", Type: models.CouponTypeFixed, Value: dec("5"), MinOrder: dec("50"), Active: true,
	}).Error)

	id := models.SessionIdentity("anon-1")
	_, err := svc.AddToCart(ctx, id, p.ID, 1)
	require.NoError(t, err)

	_, err = svc.ApplyCoupon(ctx, id, "MIN50")
	require.Error(t, err)

	var rejection *CouponError
	require.ErrorAs(t, err, &rejection)
	assert.Contains(t, rejection.Reason, "50")

	// A rejected coupon is never stored.
	cart, err := svc.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, cart.CouponCode)
}

func TestCartService_GetCart_DropsCouponWhenNoLongerValid(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r, Coupons: &CouponService{Repo: r}}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("60"), Stock: 10})
	require.NoError(t, r.DB.Create(&models.Coupon{
		Code: "MIN50", Type: models.CouponTypeFixed, Value: dec("5"), MinOrder: dec("50"), Active: true,
	}).Error)

	id := models.SessionIdentity("anon-1")
	_, err := svc.AddToCart(ctx, id, p.ID, 1)
	require.NoError(t, err)

	cart, err := svc.ApplyCoupon(ctx, id, "MIN50")
	require.NoError(t, err)
	require.Equal(t, "MIN50", cart.CouponCode)

	// Raise the minimum above the cart subtotal.
	require.NoError(t, r.DB.Model(&models.Coupon{}).Where("code = ?", "MIN50").Update("min_order", dec("100")).Error)

	cart, err = svc.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, cart.CouponCode)
	assert.True(t, cart.Discount.IsZero())
	assert.True(t, cart.Total.Equal(cart.Subtotal))
}

func TestCartService_Merge_FoldsAnonymousCartIntoUser(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r, Coupons: &CouponService{Repo: r}}
	ctx := context.Background()

	cat := seedCategory(t, r)
	a := seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("5"), Stock: 10, CategoryID: cat.ID})
	b := seedProduct(t, r, models.Product{Name: "Gizmo", Slug: "gizmo", Price: dec("7"), Stock: 10, CategoryID: cat.ID})
	user := seedUser(t, r, "buyer@example.com")

	anon := models.SessionIdentity("anon-1")
	userIdent := models.UserIdentity(user.ID)

	// User already has product A; anonymous cart has A and B.
	_, err := svc.AddToCart(ctx, userIdent, a.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, anon, a.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, anon, b.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Merge(ctx, "anon-1", user.ID))

	cart, err := svc.GetCart(ctx, userIdent)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	byProduct := map[uint]uint{}
	for _, line := range cart.Items {
		byProduct[line.ProductID] = line.Quantity
	}
	assert.EqualValues(t, 3, byProduct[a.ID], "quantities sum on merge")
	assert.EqualValues(t, 1, byProduct[b.ID])

	anonCart, err := svc.GetCart(ctx, anon)
	require.NoError(t, err)
	assert.Empty(t, anonCart.Items, "anonymous cart is emptied")
}
