package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/mstepanov/storefront/internal/middleware/auth"
	"github.com/mstepanov/storefront/internal/mykafka"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/service/search"
)

type Deps struct {
	Auth     *AuthHTTP
	Catalog  *CatalogHTTP
	Cart     *CartHTTP
	Wishlist *WishlistHTTP
	Checkout *CheckoutHTTP
	Orders   *OrderHTTP
	Coupons  *CouponHTTP
	Users    *UserHTTP
	Search   *SearchHTTP

	JWTSecret   []byte
	AuthService *service.AuthService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := authmw.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthService)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login, authmw.CartIdentity)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me, authMW.RequireAuth)

	v1.GET("/products", d.Catalog.ListProducts)
	v1.GET("/products/search", d.Search.SearchProducts)
	v1.GET("/products/:slug", d.Catalog.GetProduct)
	v1.GET("/categories", d.Catalog.ListCategories)

	cart := v1.Group("/cart", authMW.OptionalAuth, authmw.CartIdentity)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.CartAction)

	wishlist := v1.Group("/wishlist", authMW.RequireAuth)
	wishlist.GET("", d.Wishlist.GetWishlist)
	wishlist.POST("", d.Wishlist.WishlistAction)

	v1.POST("/checkout", d.Checkout.Checkout, authMW.RequireAuth)

	orders := v1.Group("/orders", authMW.RequireAuth)
	orders.GET("", d.Orders.ListMine)
	orders.GET("/:id", d.Orders.GetMine)
	orders.POST("/:id/cancel", d.Orders.CancelMine)

	admin := v1.Group("/admin", authMW.RequireAdmin)
	admin.GET("/products", d.Catalog.AdminListProducts)
	admin.POST("/products", d.Catalog.CreateProduct)
	admin.PATCH("/products/:id", d.Catalog.PatchProduct)
	admin.DELETE("/products/:id", d.Catalog.DeleteProduct)

	admin.POST("/categories", d.Catalog.CreateCategory)
	admin.PATCH("/categories/:id", d.Catalog.PatchCategory)
	admin.DELETE("/categories/:id", d.Catalog.DeleteCategory)

	admin.GET("/coupons", d.Coupons.ListCoupons)
	admin.POST("/coupons", d.Coupons.CreateCoupon)
	admin.PUT("/coupons/:id", d.Coupons.UpdateCoupon)
	admin.DELETE("/coupons/:id", d.Coupons.DeleteCoupon)

	admin.GET("/users", d.Users.ListUsers)
	admin.PATCH("/users/:id", d.Users.PatchUser)
	admin.DELETE("/users/:id", d.Users.DeleteUser)

	admin.GET("/orders", d.Orders.List)
	admin.GET("/orders/:id", d.Orders.Get)
	admin.PATCH("/orders/:id/status", d.Orders.UpdateStatus)
}

// NewDeps wires the handler set from the service layer.
func NewDeps(
	auth *service.AuthService,
	catalog *service.CatalogService,
	carts *service.CartService,
	wishlists *service.WishlistService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	coupons *service.CouponService,
	users *service.UserService,
	searchSvc *search.Service,
	producer *mykafka.Producer,
	jwtSecret []byte,
) *Deps {
	return &Deps{
		Auth:        &AuthHTTP{Svc: auth, Carts: carts, Producer: producer},
		Catalog:     &CatalogHTTP{Svc: catalog, Search: searchSvc, Producer: producer},
		Cart:        &CartHTTP{Svc: carts, Producer: producer},
		Wishlist:    &WishlistHTTP{Svc: wishlists},
		Checkout:    &CheckoutHTTP{Svc: checkout, Producer: producer},
		Orders:      &OrderHTTP{Svc: orders, Producer: producer},
		Coupons:     &CouponHTTP{Svc: coupons},
		Users:       &UserHTTP{Svc: users},
		Search:      &SearchHTTP{Svc: searchSvc},
		JWTSecret:   jwtSecret,
		AuthService: auth,
	}
}
