// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/interfaces/http/handlers"
	"github.com/your-org/productlist-backend/internal/interfaces/http/middleware"
)

// Handlers groups the endpoint handlers of api/v1
type Handlers struct {
	Auth        *handlers.AuthHandler
	Wishlist    *handlers.WishlistHandler
	Registry    *handlers.RegistryHandler
	ProductList *handlers.ProductListHandler
}

// SetupRoutes registers every api/v1 route
func SetupRoutes(rg *gin.RouterGroup, h Handlers, cfg *config.Config) {
	// Every caller owns lists through a guest token until signing in
	rg.Use(middleware.GuestSession(cfg))

	SetupAuthRoutes(rg, h.Auth, cfg)
	SetupWishlistRoutes(rg, h.Wishlist, cfg)
	SetupRegistryRoutes(rg, h.Registry, cfg)
	SetupProductListRoutes(rg, h.ProductList, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", h.GetProfile)
		}
	}
}

// SetupWishlistRoutes sets up personal list routes
func SetupWishlistRoutes(rg *gin.RouterGroup, h *handlers.WishlistHandler, cfg *config.Config) {
	wishlist := rg.Group("/wishlist")
	wishlist.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		wishlist.GET("", h.GetWishlist)
		wishlist.GET("/more", h.GetMore)
		wishlist.DELETE("", h.DeleteWishlist)
		wishlist.GET("/product-ids", h.GetProductIDs)
		wishlist.POST("/items", h.AddItem)
		wishlist.DELETE("/items/:pid", h.RemoveItem)
		wishlist.PUT("/items/:itemId", h.EditItem)
	}

	account := rg.Group("/wishlist")
	account.Use(middleware.AuthMiddleware(cfg))
	{
		account.GET("/preview", h.GetPreview)
		account.POST("/purchased", h.RemovePurchased)
	}

	shared := rg.Group("/wishlists")
	shared.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		shared.GET("/search", h.Search)
		shared.GET("/:id", h.GetShared)
	}
}

// SetupRegistryRoutes sets up event list routes
func SetupRegistryRoutes(rg *gin.RouterGroup, h *handlers.RegistryHandler, cfg *config.Config) {
	rg.GET("/registries/:id", middleware.OptionalAuthMiddleware(cfg), h.GetRegistry)

	registries := rg.Group("/registries")
	registries.Use(middleware.AuthMiddleware(cfg))
	{
		registries.GET("", h.ListRegistries)
		registries.POST("", h.CreateRegistry)
		registries.DELETE("/:id", h.DeleteRegistry)
		registries.GET("/:id/print", h.PrintRegistry)
		registries.POST("/:id/items", h.AddItem)
		registries.DELETE("/:id/items/:pid", h.RemoveItem)
	}
}

// SetupProductListRoutes sets up routes shared by all list kinds
func SetupProductListRoutes(rg *gin.RouterGroup, h *handlers.ProductListHandler, cfg *config.Config) {
	lists := rg.Group("/productlists")
	lists.Use(middleware.AuthMiddleware(cfg))
	{
		lists.POST("/:id/toggle-public", h.ToggleVisibility)
	}
}
