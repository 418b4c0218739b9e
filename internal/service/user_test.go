package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/transport"
)

func TestUserService_DeleteUser_GuardedByOrders(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r, "buyer@example.com")
	seedOrder(t, r, user.ID, models.OrderStatusDelivered)

	err := svc.DeleteUser(ctx, user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	require.NoError(t, r.DB.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserService_DeleteUser_NoOrders(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	user := seedUser(t, r, "buyer@example.com")

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))
}

func TestUserService_PatchUser_RoleAndStatus(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()
	user := seedUser(t, r, "buyer@example.com")

	role := models.RoleAdmin
	status := models.UserStatusBanned
	got, err := svc.PatchUser(ctx, transport.PatchUserRequest{Role: &role, Status: &status}, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, models.UserStatusBanned, got.Status)

	bad := "superuser"
	_, err = svc.PatchUser(ctx, transport.PatchUserRequest{Role: &bad}, user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
