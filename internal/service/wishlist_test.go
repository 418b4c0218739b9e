package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstepanov/storefront/internal/models"
)

func TestWishlistService_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &WishlistService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("10")})
	user := seedUser(t, r, "buyer@example.com")

	require.NoError(t, svc.Add(ctx, user.ID, p.ID))
	require.NoError(t, svc.Add(ctx, user.ID, p.ID))

	products, err := svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
}

func TestWishlistService_Toggle(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &WishlistService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, models.Product{Name: "Widget", Slug: "widget", Price: dec("10")})
	user := seedUser(t, r, "buyer@example.com")

	in, err := svc.Toggle(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, in)

	in, err = svc.Toggle(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, in)

	products, err := svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestWishlistService_Add_UnknownProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &WishlistService{Repo: r}
	user := seedUser(t, r, "buyer@example.com")

	err := svc.Add(context.Background(), user.ID, 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
