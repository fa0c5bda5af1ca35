package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/instamart/backend/internal/handlers"
	authmw "github.com/instamart/backend/internal/middleware/auth"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	CatalogHandler  *handlers.CatalogHandler
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	HealthHandler   *handlers.HealthHandler
	PageHandler     *handlers.PageHandler
	Auth            *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", d.PageHandler.Home)

	api := e.Group("/api")

	api.GET("/health", d.HealthHandler.Check)

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.LogOut)

	api.GET("/items", d.CatalogHandler.ListItems)

	items := api.Group("/items", d.Auth.AdminOnly)
	items.POST("", d.CatalogHandler.CreateItem)
	items.PUT("/:id", d.CatalogHandler.UpdateItem)
	items.DELETE("/:id", d.CatalogHandler.DeleteItem)

	cart := api.Group("/cart", d.Auth.RequireLogin)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.DELETE("/:id", d.CartHandler.RemoveCartLine)

	api.POST("/checkout", d.CheckoutHandler.Checkout, d.Auth.RequireLogin)
}
