package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/models"
)

// InsufficientStockError is returned when a checkout would take a product's
// stock below zero. The whole order aborts; nothing is partially applied.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q", e.ProductName)
}

// CouponExhaustedError is returned when the applied coupon ran out of uses
// between cart application and checkout.
type CouponExhaustedError struct {
	Code string
}

func (e *CouponExhaustedError) Error() string {
	return fmt.Sprintf("coupon %q is no longer available", e.Code)
}

// PlaceOrder runs the whole checkout write sequence in one transaction:
// insert the order, snapshot the items, decrement stock with a conditional
// update so stock never goes below zero, bump the coupon usage, and clear
// the buyer's cart. Any failing step rolls everything back.
func (r *GormRepo) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, id models.Identity) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", items[i].ProductID, items[i].Quantity).
				Updates(map[string]any{
					"stock":       gorm.Expr("stock - ?", items[i].Quantity),
					"sales_count": gorm.Expr("sales_count + ?", items[i].Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &InsufficientStockError{
					ProductID:   items[i].ProductID,
					ProductName: items[i].ProductName,
				}
			}
		}

		if order.CouponCode != "" {
			res := tx.Model(&models.Coupon{}).
				Where("lower(code) = ?", strings.ToLower(order.CouponCode)).
				Where("usage_limit IS NULL OR used_count < usage_limit").
				Update("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &CouponExhaustedError{Code: order.CouponCode}
			}
			if err := tx.Scopes(identityScope(id)).Delete(&models.AppliedCoupon{}).Error; err != nil {
				return err
			}
		}

		return tx.Scopes(identityScope(id)).Delete(&models.CartItem{}).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CancelOrder flips the order to cancelled and puts the ordered quantities
// back into stock, since the decrement happened at placement time.
func (r *GormRepo) CancelOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}

		for _, it := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ?", it.ProductID).
				Updates(map[string]any{
					"stock":       gorm.Expr("stock + ?", it.Quantity),
					"sales_count": gorm.Expr("sales_count - ?", it.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
		}

		return tx.Model(order).Update("status", models.OrderStatusCancelled).Error
	})
}

func (r *GormRepo) CountOrdersByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
