package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ventabot/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/chat", handler.Chat)

		catalog := v1.Group("/catalog")
		{
			catalog.POST("/resolve", handler.ResolveProduct)
			catalog.POST("/extract", handler.ExtractItems)
		}

		carts := v1.Group("/carts")
		{
			carts.GET("/:session", handler.GetCart)
			carts.DELETE("/:session", handler.ClearCart)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", handler.Checkout)
			orders.GET("/:serial", handler.GetOrder)
			orders.PATCH("/:serial/status", handler.UpdateOrderStatus)
		}
		v1.GET("/users/:user/orders", handler.ListOrders)

		reports := v1.Group("/reports")
		{
			reports.GET("/top-products", handler.TopProducts)
			reports.GET("/sales-by-day", handler.SalesByDay)
		}
	}

	return router
}
