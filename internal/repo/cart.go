package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mstepanov/storefront/internal/models"
)

func (r *GormRepo) GetCartItems(ctx context.Context, id models.Identity) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Scopes(identityScope(id)).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) AddToCart(ctx context.Context, id models.Identity, productID, quantity uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Scopes(identityScope(id)).
			Where("product_id = ?", productID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Scopes(identityScope(id)).Where("product_id = ?", productID).First(&item).Error
		}

		item = models.CartItem{
			UserID:       id.UserID,
			SessionToken: id.SessionToken,
			ProductID:    productID,
			Quantity:     quantity,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) SetCartQuantity(ctx context.Context, id models.Identity, productID, quantity uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(identityScope(id)).
			Where("product_id = ?", productID).
			First(&item).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, id models.Identity, productID uint) error {
	res := r.DB.WithContext(ctx).
		Scopes(identityScope(id)).
		Where("product_id = ?", productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, id models.Identity) error {
	return r.DB.WithContext(ctx).Scopes(identityScope(id)).Delete(&models.CartItem{}).Error
}

// MergeCart moves the anonymous session cart into the user's cart on login,
// summing quantities where both carts hold the same product.
func (r *GormRepo) MergeCart(ctx context.Context, sessionToken string, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var anon []models.CartItem
		if err := tx.Where("session_token = ?", sessionToken).Find(&anon).Error; err != nil {
			return err
		}

		for _, it := range anon {
			res := tx.Model(&models.CartItem{}).
				Where("user_id = ? AND product_id = ?", userID, it.ProductID).
				Update("quantity", gorm.Expr("quantity + ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				moved := models.CartItem{
					UserID:    &userID,
					ProductID: it.ProductID,
					Quantity:  it.Quantity,
				}
				if err := tx.Create(&moved).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Where("session_token = ?", sessionToken).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("session_token = ?", sessionToken).Delete(&models.AppliedCoupon{}).Error
	})
}

func (r *GormRepo) GetAppliedCoupon(ctx context.Context, id models.Identity) (*models.AppliedCoupon, error) {
	var applied models.AppliedCoupon
	if err := r.DB.WithContext(ctx).Scopes(identityScope(id)).First(&applied).Error; err != nil {
		return nil, err
	}
	return &applied, nil
}

func (r *GormRepo) SetAppliedCoupon(ctx context.Context, id models.Identity, code string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(identityScope(id)).Delete(&models.AppliedCoupon{}).Error; err != nil {
			return err
		}
		applied := models.AppliedCoupon{
			UserID:       id.UserID,
			SessionToken: id.SessionToken,
			Code:         code,
		}
		return tx.Create(&applied).Error
	})
}

func (r *GormRepo) RemoveAppliedCoupon(ctx context.Context, id models.Identity) error {
	return r.DB.WithContext(ctx).Scopes(identityScope(id)).Delete(&models.AppliedCoupon{}).Error
}
