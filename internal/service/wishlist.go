package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
)

type WishlistService struct {
	Repo *repo.GormRepo
}

func (s *WishlistService) GetWishlist(ctx context.Context, userID uint) ([]models.Product, error) {
	items, err := s.Repo.GetWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []models.Product{}, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return s.Repo.GetProductsByIDs(ctx, ids)
}

func (s *WishlistService) Add(ctx context.Context, userID, productID uint) error {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return err
	}
	return s.Repo.AddToWishlist(ctx, userID, productID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveFromWishlist(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: wishlist item", ErrNotFound)
		}
		return err
	}
	return nil
}

// Toggle adds the product when absent and removes it when present,
// reporting whether the product ended up in the wishlist.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID uint) (bool, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return false, err
	}

	present, err := s.Repo.WishlistContains(ctx, userID, productID)
	if err != nil {
		return false, err
	}

	if present {
		if err := s.Repo.RemoveFromWishlist(ctx, userID, productID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.Repo.AddToWishlist(ctx, userID, productID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *WishlistService) ensureProduct(ctx context.Context, productID uint) error {
	if productID == 0 {
		return fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product", ErrNotFound)
		}
		return err
	}
	return nil
}
