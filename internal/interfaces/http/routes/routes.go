// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"github.com/your-org/pos-backend/internal/domain/pos"
	"github.com/your-org/pos-backend/internal/interfaces/http/handlers"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API v1 routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	SetupAuthRoutes(rg, db, cfg)
	SetupCatalogRoutes(rg, db, cfg)
	SetupPOSRoutes(rg, db, redisClient, cfg, log)
}

// SetupAuthRoutes sets up cashier authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.Profile)
		}
	}
}

// SetupCatalogRoutes sets up product catalog routes
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	catalogHandler := handlers.NewCatalogHandler(db, cfg)

	products := rg.Group("/catalog/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/search", catalogHandler.SearchProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}
}

// SetupPOSRoutes sets up register session, cart and settlement routes
func SetupPOSRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	catalogService := catalog.NewService(db, cfg)
	posService := pos.NewService(db, redisClient, cfg, catalogService, log)
	posHandler := handlers.NewPOSHandler(posService, cfg)

	posGroup := rg.Group("/pos")
	posGroup.Use(middleware.AuthMiddleware(cfg))
	{
		posGroup.POST("/sessions", posHandler.OpenSession)
		posGroup.POST("/sessions/close", posHandler.CloseSession)
		posGroup.GET("/session", posHandler.GetSession)

		posGroup.GET("/cart", posHandler.GetCart)
		posGroup.DELETE("/cart", posHandler.ClearCart)
		posGroup.POST("/cart/items", posHandler.AddItem)
		posGroup.PUT("/cart/items/:id", posHandler.UpdateLine)
		posGroup.DELETE("/cart/items/:id", posHandler.RemoveLine)
		posGroup.PUT("/cart/items/:id/discount", posHandler.ApplyDiscount)
		posGroup.PUT("/cart/customer", posHandler.SetCustomer)

		posGroup.POST("/payments", posHandler.ProcessPayment)

		posGroup.GET("/orders", posHandler.GetOrders)
		posGroup.GET("/orders/:id", posHandler.GetOrder)
		posGroup.GET("/orders/:id/receipt", posHandler.GetReceipt)
		posGroup.POST("/orders/:id/refund", posHandler.RefundOrder)

		// Voiding an order is a manager operation
		manager := posGroup.Group("")
		manager.Use(middleware.ManagerMiddleware())
		{
			manager.POST("/orders/:id/void", posHandler.VoidOrder)
		}
	}
}
