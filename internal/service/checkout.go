package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mstepanov/storefront/internal/logging"
	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
	"github.com/mstepanov/storefront/internal/transport"
)

type CheckoutService struct {
	Repo  *repo.GormRepo
	Carts *CartService

	ShippingFlatRate decimal.Decimal
	FreeShippingOver decimal.Decimal
	TaxRate          decimal.Decimal
}

// Checkout turns the user's cart into an order. Pricing is computed from the
// live cart, then all writes (order row, item snapshots, stock decrements,
// coupon usage, cart cleanup) happen in one transaction inside the repo, so
// an oversell or exhausted coupon aborts the order as a whole.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, req transport.CheckoutRequest) (*models.Order, []models.OrderItem, error) {
	if err := validateCheckout(req); err != nil {
		return nil, nil, err
	}

	id := models.UserIdentity(userID)
	cart, err := s.Carts.GetCart(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if len(cart.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: no items in cart", ErrValidation)
	}

	shipping := s.ShippingFlatRate
	if cart.Subtotal.GreaterThanOrEqual(s.FreeShippingOver) {
		shipping = decimal.Zero
	}
	taxable := cart.Subtotal.Sub(cart.Discount)
	tax := taxable.Mul(s.TaxRate).Round(2)
	total := taxable.Add(shipping).Add(tax)

	order := &models.Order{
		Number:        uuid.NewString(),
		UserID:        userID,
		Subtotal:      cart.Subtotal,
		Discount:      cart.Discount,
		ShippingCost:  shipping,
		Tax:           tax,
		Total:         total,
		CouponCode:    cart.CouponCode,
		Status:        models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		ShipName:      req.ShipName,
		AddressLine:   req.AddressLine,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			ProductImage: line.Image,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			LineTotal:    line.LineTotal,
		})
	}

	if err := s.Repo.PlaceOrder(ctx, order, items, id); err != nil {
		return nil, nil, err
	}

	if req.SaveAddress {
		if err := s.Repo.SaveUserAddress(ctx, userID, req.AddressLine, req.City, req.PostalCode, req.Country); err != nil {
			// The order is already placed; a failed address save must not
			// surface as a checkout failure.
			logging.FromContext(ctx).Warn("address_save_failed", "user_id", userID, "error", err)
		}
	}

	return order, items, nil
}

func validateCheckout(req transport.CheckoutRequest) error {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(req.ShipName) == "" {
		missing = append(missing, "ship_name")
	}
	if strings.TrimSpace(req.AddressLine) == "" {
		missing = append(missing, "address_line")
	}
	if strings.TrimSpace(req.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		missing = append(missing, "payment_method")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
