package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
)

// statusTransitions lists the allowed next statuses per current status.
var statusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

func transitionAllowed(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type OrderService struct {
	Repo *repo.GormRepo
}

func (s *OrderService) ListMine(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID, offset, limit)
}

// GetForUser fetches an order only when it belongs to the user; foreign
// orders look like they don't exist.
func (s *OrderService) GetForUser(ctx context.Context, orderID, userID uint) (*models.Order, []models.OrderItem, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, nil, err
	}
	if order.UserID != userID {
		return nil, nil, fmt.Errorf("%w: order", ErrNotFound)
	}

	items, err := s.Repo.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (s *OrderService) Get(ctx context.Context, orderID uint) (*models.Order, []models.OrderItem, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, nil, err
	}

	items, err := s.Repo.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (s *OrderService) List(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, status, offset, limit)
}

// CancelForUser lets a buyer cancel their own order while it is still
// pending. The repo restores the stock taken at placement.
func (s *OrderService) CancelForUser(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order", ErrNotFound)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled", ErrConflict)
	}

	if err := s.Repo.CancelOrder(ctx, order); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancelled
	return order, nil
}

// UpdateStatus moves an order along pending → processing → shipped →
// delivered, or to cancelled from pending/processing. Cancelling restores
// stock.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}

	if !transitionAllowed(order.Status, status) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrConflict, order.Status, status)
	}

	if status == models.OrderStatusCancelled {
		if err := s.Repo.CancelOrder(ctx, order); err != nil {
			return nil, err
		}
	} else {
		if err := s.Repo.UpdateOrderStatus(ctx, order.ID, status); err != nil {
			return nil, err
		}
	}

	order.Status = status
	return order, nil
}
