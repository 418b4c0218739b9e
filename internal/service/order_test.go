package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
)

func seedOrder(t *testing.T, r *repo.GormRepo, userID uint, status string) *models.Order {
	t.Helper()

	order := &models.Order{
		Number: "order-" + status, UserID: userID,
		Subtotal: dec("10"), Discount: dec("0"),
		ShippingCost: dec("5"), Tax: dec("0"), Total: dec("15"),
		Status: status, PaymentMethod: "card", PaymentStatus: models.PaymentStatusPending,
		ShipName: "Test Buyer", AddressLine: "1 Main St", City: "Springfield",
	}
	require.NoError(t, r.DB.Create(order).Error)
	return order
}

func TestTransitionAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to string
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusProcessing, models.OrderStatusCancelled, true},
		{models.OrderStatusProcessing, models.OrderStatusDelivered, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, transitionAllowed(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOrderService_UpdateStatus_InvalidTransition(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	user := seedUser(t, r, "buyer@example.com")
	order := seedOrder(t, r, user.ID, models.OrderStatusDelivered)

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusCancelled)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOrderService_UpdateStatus_HappyPath(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()
	user := seedUser(t, r, "buyer@example.com")
	order := seedOrder(t, r, user.ID, models.OrderStatusPending)

	for _, status := range []string{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		got, err := svc.UpdateStatus(ctx, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}
}

func TestOrderService_CancelRestoresStock(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{
		Name: "Widget", Slug: "widget", Price: dec("10"), Stock: 3, SalesCount: 2,
	})
	user := seedUser(t, r, "buyer@example.com")
	order := seedOrder(t, r, user.ID, models.OrderStatusPending)
	require.NoError(t, r.DB.Create(&models.OrderItem{
		OrderID: order.ID, ProductID: p.ID, ProductName: p.Name,
		UnitPrice: dec("10"), Quantity: 2, LineTotal: dec("20"),
	}).Error)

	got, err := svc.CancelForUser(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)

	var gotProduct models.Product
	require.NoError(t, r.DB.First(&gotProduct, p.ID).Error)
	assert.EqualValues(t, 5, gotProduct.Stock, "cancelled quantity returns to stock")
	assert.EqualValues(t, 0, gotProduct.SalesCount)
}

func TestOrderService_CancelForUser_OnlyPending(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	user := seedUser(t, r, "buyer@example.com")
	order := seedOrder(t, r, user.ID, models.OrderStatusShipped)

	_, err := svc.CancelForUser(context.Background(), order.ID, user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOrderService_GetForUser_ForeignOrderLooksMissing(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	owner := seedUser(t, r, "owner@example.com")
	other := seedUser(t, r, "other@example.com")
	order := seedOrder(t, r, owner.ID, models.OrderStatusPending)

	_, _, err := svc.GetForUser(context.Background(), order.ID, other.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
