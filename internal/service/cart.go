package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
	"github.com/mstepanov/storefront/internal/transport"
)

type CartService struct {
	Repo    *repo.GormRepo
	Coupons *CouponService
}

// GetCart prices the cart for an identity: unit price is sale_price when set,
// regular price otherwise; rows whose product has disappeared are skipped.
// The applied coupon, if any, is re-validated against the fresh subtotal and
// silently dropped when it no longer holds.
func (s *CartService) GetCart(ctx context.Context, id models.Identity) (*transport.CartResponse, error) {
	items, err := s.Repo.GetCartItems(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &transport.CartResponse{
		Items:    []transport.CartLine{},
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
	}

	if len(items) > 0 {
		ids := make([]uint, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		products, err := s.Repo.GetProductsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		for _, it := range items {
			p, ok := byID[it.ProductID]
			if !ok {
				continue
			}
			unit := p.EffectivePrice()
			line := transport.CartLine{
				ProductID: p.ID,
				Name:      p.Name,
				Slug:      p.Slug,
				Image:     p.Image,
				UnitPrice: unit,
				Quantity:  it.Quantity,
				LineTotal: unit.Mul(decimal.NewFromInt(int64(it.Quantity))),
				Stock:     p.Stock,
			}
			resp.Items = append(resp.Items, line)
			resp.Subtotal = resp.Subtotal.Add(line.LineTotal)
		}
	}

	applied, err := s.Repo.GetAppliedCoupon(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if applied != nil {
		discount, coupon, evalErr := s.Coupons.Evaluate(ctx, applied.Code, resp.Subtotal)
		var rejection *CouponError
		switch {
		case evalErr == nil:
			resp.Discount = discount
			resp.CouponCode = coupon.Code
		case errors.As(evalErr, &rejection):
			if err := s.Repo.RemoveAppliedCoupon(ctx, id); err != nil {
				return nil, err
			}
		default:
			return nil, evalErr
		}
	}

	resp.Total = resp.Subtotal.Sub(resp.Discount)
	return resp, nil
}

func (s *CartService) AddToCart(ctx context.Context, id models.Identity, productID, quantity uint) (*transport.CartResponse, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	if product.Status != models.ProductStatusActive {
		return nil, fmt.Errorf("%w: product is not available", ErrValidation)
	}

	if _, err := s.Repo.AddToCart(ctx, id, productID, quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, id)
}

func (s *CartService) UpdateQuantity(ctx context.Context, id models.Identity, productID, quantity uint) (*transport.CartResponse, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	if quantity == 0 {
		return s.RemoveFromCart(ctx, id, productID)
	}

	if _, err := s.Repo.SetCartQuantity(ctx, id, productID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item", ErrNotFound)
		}
		return nil, err
	}
	return s.GetCart(ctx, id)
}

func (s *CartService) RemoveFromCart(ctx context.Context, id models.Identity, productID uint) (*transport.CartResponse, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	if err := s.Repo.RemoveFromCart(ctx, id, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item", ErrNotFound)
		}
		return nil, err
	}
	return s.GetCart(ctx, id)
}

func (s *CartService) ClearCart(ctx context.Context, id models.Identity) (*transport.CartResponse, error) {
	if err := s.Repo.ClearCart(ctx, id); err != nil {
		return nil, err
	}
	if err := s.Repo.RemoveAppliedCoupon(ctx, id); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, id)
}

func (s *CartService) ApplyCoupon(ctx context.Context, id models.Identity, code string) (*transport.CartResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code required", ErrValidation)
	}

	cart, err := s.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	if _, _, err := s.Coupons.Evaluate(ctx, code, cart.Subtotal); err != nil {
		return nil, err
	}

	if err := s.Repo.SetAppliedCoupon(ctx, id, code); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, id)
}

func (s *CartService) RemoveCoupon(ctx context.Context, id models.Identity) (*transport.CartResponse, error) {
	if err := s.Repo.RemoveAppliedCoupon(ctx, id); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, id)
}

// Merge folds an anonymous cart into the user's cart after login.
func (s *CartService) Merge(ctx context.Context, sessionToken string, userID uint) error {
	if sessionToken == "" {
		return nil
	}
	return s.Repo.MergeCart(ctx, sessionToken, userID)
}
