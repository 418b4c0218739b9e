package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
	"github.com/mstepanov/storefront/internal/transport"
)

var hundred = decimal.NewFromInt(100)

type CouponService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

func (s *CouponService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Evaluate checks a coupon code against the current cart subtotal and
// returns the discount it grants. Every unmet condition comes back as a
// CouponError with a reason the buyer can read; nothing is ever partially
// applied.
func (s *CouponService) Evaluate(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, *models.Coupon, error) {
	coupon, err := s.Repo.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil, &CouponError{Reason: "coupon code not found"}
		}
		return decimal.Zero, nil, err
	}

	if !coupon.Active {
		return decimal.Zero, nil, &CouponError{Reason: "coupon is not active"}
	}

	now := s.now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return decimal.Zero, nil, &CouponError{Reason: "coupon is not valid yet"}
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return decimal.Zero, nil, &CouponError{Reason: "coupon has expired"}
	}

	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return decimal.Zero, nil, &CouponError{Reason: "coupon usage limit reached"}
	}

	if subtotal.LessThan(coupon.MinOrder) {
		return decimal.Zero, nil, &CouponError{
			Reason: fmt.Sprintf("order must be at least %s to use this coupon", coupon.MinOrder.StringFixed(2)),
		}
	}

	discount := s.discountFor(coupon, subtotal)
	return discount, coupon, nil
}

func (s *CouponService) discountFor(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch coupon.Type {
	case models.CouponTypePercentage:
		discount = subtotal.Mul(coupon.Value).Div(hundred)
		if coupon.MaxDiscount.Valid && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
	case models.CouponTypeFixed:
		discount = coupon.Value
	default:
		return decimal.Zero
	}

	// A discount can never exceed what the buyer would pay.
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount
}

func (s *CouponService) ListCoupons(ctx context.Context, offset, limit int) (int64, []models.Coupon, error) {
	return s.Repo.ListCoupons(ctx, offset, limit)
}

func (s *CouponService) CreateCoupon(ctx context.Context, req transport.CreateCouponRequest) (*models.Coupon, error) {
	coupon, err := s.couponFromRequest(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetCouponByCode(ctx, coupon.Code); err == nil {
		return nil, fmt.Errorf("%w: coupon code already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.Repo.CreateCoupon(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) UpdateCoupon(ctx context.Context, id uint, req transport.CreateCouponRequest) (*models.Coupon, error) {
	existing, err := s.Repo.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	parsed, err := s.couponFromRequest(req)
	if err != nil {
		return nil, err
	}

	parsed.ID = existing.ID
	parsed.UsedCount = existing.UsedCount
	if err := s.Repo.SaveCoupon(ctx, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func (s *CouponService) DeleteCoupon(ctx context.Context, id uint) error {
	return s.Repo.DeleteCoupon(ctx, id)
}

func (s *CouponService) couponFromRequest(req transport.CreateCouponRequest) (*models.Coupon, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code required", ErrValidation)
	}
	if req.Type != models.CouponTypePercentage && req.Type != models.CouponTypeFixed {
		return nil, fmt.Errorf("%w: type must be percentage or fixed", ErrValidation)
	}
	if req.Value.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: value must be > 0", ErrValidation)
	}
	if req.Type == models.CouponTypePercentage && req.Value.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: percentage value must be <= 100", ErrValidation)
	}
	if req.MinOrder.IsNegative() {
		return nil, fmt.Errorf("%w: min_order must be >= 0", ErrValidation)
	}

	coupon := &models.Coupon{
		Code:        code,
		Type:        req.Type,
		Value:       req.Value,
		MinOrder:    req.MinOrder,
		MaxDiscount: req.MaxDiscount,
		UsageLimit:  req.UsageLimit,
		Active:      true,
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if req.StartsAt != nil {
		t, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("%w: starts_at must be RFC3339", ErrValidation)
		}
		coupon.StartsAt = &t
	}
	if req.EndsAt != nil {
		t, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			return nil, fmt.Errorf("%w: ends_at must be RFC3339", ErrValidation)
		}
		coupon.EndsAt = &t
	}
	if coupon.StartsAt != nil && coupon.EndsAt != nil && coupon.EndsAt.Before(*coupon.StartsAt) {
		return nil, fmt.Errorf("%w: ends_at must be after starts_at", ErrValidation)
	}

	return coupon, nil
}
