package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	Sessions *session.Manager
	Auth     *AuthHTTP
	Cart     *CartHTTP
	Chat     *ChatHTTP
	Catalog  *CatalogHTTP
	Profile  *ProfileHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.Auth.Register)
	v1.POST("/login", d.Auth.Login)

	v1.GET("/products", d.Catalog.Products)
	v1.GET("/products/:id", d.Catalog.Product)
	v1.GET("/products/:id/reviews", d.Catalog.Reviews)
	v1.GET("/search", d.Catalog.SearchProducts)

	auth := v1.Group("", RequireSession(d.Sessions))

	auth.POST("/logout", d.Auth.Logout)

	auth.GET("/cart", d.Cart.GetCart)
	auth.POST("/cart", d.Cart.AddToCart)
	auth.POST("/cart/decrement", d.Cart.Decrement)
	auth.POST("/cart/coupon", d.Cart.ApplyCoupon)
	auth.DELETE("/cart/coupon", d.Cart.ClearCoupon)
	auth.POST("/cart/order", d.Cart.CreateOrder)
	auth.DELETE("/cart/:productID", d.Cart.Remove)
	auth.DELETE("/cart", d.Cart.Clear)
	auth.POST("/checkout", d.Cart.Checkout)

	auth.GET("/chat", d.Chat.GetChat)
	auth.POST("/chat", d.Chat.PostChat)
	auth.POST("/chat/reload", d.Chat.Reload)
	auth.DELETE("/chat", d.Chat.DeleteChat)
	auth.GET("/chat/transcript", d.Chat.Transcript)

	auth.POST("/products/:id/reviews", d.Catalog.SubmitReview)
	auth.POST("/products/:id/ask", d.Catalog.Ask)

	auth.GET("/profile", d.Profile.GetProfile)
	auth.PATCH("/profile", d.Profile.UpdateProfile)
	auth.POST("/profile/photo", d.Profile.UploadPhoto)
	auth.DELETE("/profile/photo", d.Profile.DeletePhoto)
	auth.GET("/profile/coupon", d.Profile.UserCoupon)

	auth.GET("/notifications", func(c echo.Context) error {
		sess := sessionFrom(c)
		return c.JSON(http.StatusOK, map[string]any{"notifications": sess.Notices.Active()})
	})
}
