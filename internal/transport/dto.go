package transport

import (
	"github.com/shopspring/decimal"

	"github.com/mstepanov/storefront/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateProductRequest struct {
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	SalePrice   decimal.NullDecimal `json:"sale_price"`
	Stock       uint                `json:"stock"`
	Image       string              `json:"image"`
	CategoryID  uint                `json:"category_id"`
	Status      string              `json:"status"`
}

type PatchProductRequest struct {
	Name        *string              `json:"name"`
	Slug        *string              `json:"slug"`
	Description *string              `json:"description"`
	Price       *decimal.Decimal     `json:"price"`
	SalePrice   *decimal.NullDecimal `json:"sale_price"`
	Stock       *uint                `json:"stock"`
	Image       *string              `json:"image"`
	CategoryID  *uint                `json:"category_id"`
	Status      *string              `json:"status"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID *uint  `json:"parent_id"`
}

type PatchCategoryRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	ParentID *uint   `json:"parent_id"`
}

type CreateCouponRequest struct {
	Code        string              `json:"code"`
	Type        string              `json:"type"`
	Value       decimal.Decimal     `json:"value"`
	MinOrder    decimal.Decimal     `json:"min_order"`
	MaxDiscount decimal.NullDecimal `json:"max_discount"`
	UsageLimit  *uint               `json:"usage_limit"`
	StartsAt    *string             `json:"starts_at"`
	EndsAt      *string             `json:"ends_at"`
	Active      *bool               `json:"active"`
}

type PatchUserRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// CartActionRequest is the body of POST /api/v1/cart. Action selects the
// mutation: add, update, remove, clear, apply_coupon, remove_coupon.
type CartActionRequest struct {
	Action    string `json:"action"`
	ProductID uint   `json:"product_id"`
	Quantity  uint   `json:"quantity"`
	Code      string `json:"code"`
}

// WishlistActionRequest is the body of POST /api/v1/wishlist.
// Action is one of add, remove, toggle.
type WishlistActionRequest struct {
	Action    string `json:"action"`
	ProductID uint   `json:"product_id"`
}

type CheckoutRequest struct {
	ShipName      string `json:"ship_name"`
	AddressLine   string `json:"address_line"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	PaymentMethod string `json:"payment_method"`
	SaveAddress   bool   `json:"save_address"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// CartLine is one priced cart row: the unit price already resolves the
// sale-price-or-price choice, and Stock reports current availability so
// clients can warn before checkout.
type CartLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  uint            `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Stock     uint            `json:"stock"`
}

type CartResponse struct {
	Items      []CartLine      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	CouponCode string          `json:"coupon_code,omitempty"`
}

type OrderResponse struct {
	Order *models.Order      `json:"order"`
	Items []models.OrderItem `json:"items"`
}
