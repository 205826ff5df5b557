package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/canteenhq/canteen/internal/handlers"
	"github.com/canteenhq/canteen/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	MenuHandler    *handlers.MenuHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	ProfileHandler *handlers.ProfileHandler
	SearchHandler  *handlers.SearchHandler
	Tokens         *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/admin/login", d.AuthHandler.AdminLogin)
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/logout", d.AuthHandler.LogOut)

	menu := api.Group("/menu")
	menu.GET("", d.MenuHandler.GetMenu)
	menu.GET("/search", d.SearchHandler.Search)
	menu.GET("/category/:category", d.MenuHandler.GetMenuByCategory)
	menu.GET("/:id", d.MenuHandler.GetMenuItem)
	menu.POST("", d.MenuHandler.CreateMenuItem, d.Tokens.RequireAdmin)
	menu.PUT("/:id", d.MenuHandler.UpdateMenuItem, d.Tokens.RequireAdmin)
	menu.DELETE("/:id", d.MenuHandler.DeleteMenuItem, d.Tokens.RequireAdmin)
	menu.PATCH("/:id/availability", d.MenuHandler.UpdateAvailability, d.Tokens.RequireAdmin)

	cart := api.Group("/cart", d.Tokens.RequireUser)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.ClearCart)

	orders := api.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder, d.Tokens.RequireUser)
	orders.GET("/user", d.OrderHandler.ListUserOrders, d.Tokens.RequireUser)
	orders.GET("", d.OrderHandler.ListAllOrders, d.Tokens.RequireAdmin)
	orders.GET("/:id", d.OrderHandler.GetOrder, d.Tokens.RequireUser)
	orders.PATCH("/:id/status", d.OrderHandler.UpdateOrderStatus, d.Tokens.RequireAdmin)

	user := api.Group("/user", d.Tokens.RequireUser)
	user.GET("/profile", d.ProfileHandler.GetProfile)
	user.PUT("/profile", d.ProfileHandler.UpdateProfile)
}
