package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/db"
	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	return &repo.GormRepo{DB: gdb}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func seedCategory(t *testing.T, r *repo.GormRepo) *models.Category {
	t.Helper()

	cat := &models.Category{Name: "Gadgets", Slug: "gadgets"}
	require.NoError(t, r.DB.Create(cat).Error)
	return cat
}

func seedProduct(t *testing.T, r *repo.GormRepo, p models.Product) *models.Product {
	t.Helper()

	if p.CategoryID == 0 {
		p.CategoryID = seedCategory(t, r).ID
	}
	if p.Status == "" {
		p.Status = models.ProductStatusActive
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return &p
}

func seedUser(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}
