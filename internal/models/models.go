package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UserStatusActive = "active"
	UserStatusBanned = "banned"

	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"

	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"

	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	Status       string    `gorm:"not null;default:active"  json:"status"`
	AddressLine  string    `json:"address_line"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) HasAddress() bool {
	return u.AddressLine != "" && u.City != ""
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Category struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Slug     string `gorm:"uniqueIndex;not null"     json:"slug"`
	ParentID *uint  `gorm:"index"                    json:"parent_id"`
}

type Product struct {
	ID          uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string              `gorm:"not null"                 json:"name"`
	Slug        string              `gorm:"uniqueIndex;not null"     json:"slug"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `gorm:"type:numeric;not null"    json:"price"`
	SalePrice   decimal.NullDecimal `gorm:"type:numeric"             json:"sale_price"`
	Stock       uint                `gorm:"not null;default:0"       json:"stock"`
	SalesCount  uint                `gorm:"not null;default:0"       json:"sales_count"`
	Image       string              `json:"image"`
	CategoryID  uint                `gorm:"index;not null"           json:"category_id"`
	Status      string              `gorm:"not null;default:active"  json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// EffectivePrice is the price a buyer pays right now: the sale price when one
// is set, the regular price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// Identity names the owner of a cart: an authenticated user or an anonymous
// session identified by a server-issued cart token. Exactly one side is set.
type Identity struct {
	UserID       *uint
	SessionToken *string
}

func UserIdentity(userID uint) Identity {
	return Identity{UserID: &userID}
}

func SessionIdentity(token string) Identity {
	return Identity{SessionToken: &token}
}

type CartItem struct {
	ID           uint    `gorm:"primaryKey"                 json:"id"`
	UserID       *uint   `gorm:"index"                      json:"user_id,omitempty"`
	SessionToken *string `gorm:"index"                      json:"-"`
	ProductID    uint    `gorm:"not null"                   json:"product_id"`
	Quantity     uint    `gorm:"default:1;check:quantity>0" json:"quantity"`
}

type WishlistItem struct {
	ID        uint `gorm:"primaryKey"                                     json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"user_id"`
	ProductID uint `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"product_id"`
}

type Coupon struct {
	ID          uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string              `gorm:"uniqueIndex;not null"     json:"code"`
	Type        string              `gorm:"not null"                 json:"type"`
	Value       decimal.Decimal     `gorm:"type:numeric;not null"    json:"value"`
	MinOrder    decimal.Decimal     `gorm:"type:numeric;not null"    json:"min_order"`
	MaxDiscount decimal.NullDecimal `gorm:"type:numeric"             json:"max_discount"`
	UsageLimit  *uint               `json:"usage_limit"`
	UsedCount   uint                `gorm:"not null;default:0"       json:"used_count"`
	StartsAt    *time.Time          `json:"starts_at"`
	EndsAt      *time.Time          `json:"ends_at"`
	Active      bool                `gorm:"not null;default:true"    json:"active"`
}

// AppliedCoupon remembers which coupon a cart identity has applied, so the
// discount survives between requests without server-side session state.
type AppliedCoupon struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	UserID       *uint   `gorm:"index"      json:"user_id,omitempty"`
	SessionToken *string `gorm:"index"      json:"-"`
	Code         string  `gorm:"not null"   json:"code"`
}

type Order struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Number        string          `gorm:"uniqueIndex;not null"     json:"number"`
	UserID        uint            `gorm:"index;not null"           json:"user_id"`
	Subtotal      decimal.Decimal `gorm:"type:numeric;not null"    json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:numeric;not null"    json:"discount"`
	ShippingCost  decimal.Decimal `gorm:"type:numeric;not null"    json:"shipping_cost"`
	Tax           decimal.Decimal `gorm:"type:numeric;not null"    json:"tax"`
	Total         decimal.Decimal `gorm:"type:numeric;not null"    json:"total"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	Status        string          `gorm:"not null;default:pending" json:"status"`
	PaymentMethod string          `gorm:"not null"                 json:"payment_method"`
	PaymentStatus string          `gorm:"not null;default:pending" json:"payment_status"`
	ShipName      string          `gorm:"not null"                 json:"ship_name"`
	AddressLine   string          `gorm:"not null"                 json:"address_line"`
	City          string          `gorm:"not null"                 json:"city"`
	PostalCode    string          `json:"postal_code"`
	Country       string          `json:"country"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem is a snapshot of a purchased line taken at checkout time, so
// historical orders stay stable when the product changes later.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey"            json:"id"`
	OrderID      uint            `gorm:"index;not null"        json:"order_id"`
	ProductID    uint            `gorm:"not null"              json:"product_id"`
	ProductName  string          `gorm:"not null"              json:"product_name"`
	ProductImage string          `json:"product_image"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	Quantity     uint            `gorm:"not null"              json:"quantity"`
	LineTotal    decimal.Decimal `gorm:"type:numeric;not null" json:"line_total"`
}
