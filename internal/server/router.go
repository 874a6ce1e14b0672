package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/http/handlers"
	"github.com/yungbote/storefront-backend/internal/http/middleware"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log                  *logger.Logger
	AuthMiddleware       *middleware.AuthMiddleware
	HealthHandler        *handlers.HealthHandler
	AuthHandler          *handlers.AuthHandler
	UserHandler          *handlers.UserHandler
	ProfileHandler       *handlers.ProfileHandler
	CategoryHandler      *handlers.CategoryHandler
	ProductHandler       *handlers.ProductHandler
	ShippingPriceHandler *handlers.ShippingPriceHandler
	PaymentMethodHandler *handlers.PaymentMethodHandler
	OrderHandler         *handlers.OrderHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthHandler.Check)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)
	router.GET("/categories", cfg.CategoryHandler.List)
	router.GET("/categories/:id", cfg.CategoryHandler.GetByID)
	router.GET("/products", cfg.ProductHandler.List)
	router.GET("/products/:id", cfg.ProductHandler.GetByID)
	router.GET("/payment-methods", cfg.PaymentMethodHandler.List)
	router.POST("/shipping-prices/quote", cfg.ShippingPriceHandler.Quote)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user", cfg.UserHandler.UpdateName)
	// Profile
	protected.GET("/profile", cfg.ProfileHandler.GetMine)
	protected.PUT("/profile", cfg.ProfileHandler.Upsert)
	// Orders
	protected.POST("/orders", cfg.OrderHandler.Initialize)
	protected.GET("/orders", cfg.OrderHandler.ListMine)
	protected.GET("/orders/:id", cfg.OrderHandler.GetByID)
	protected.POST("/orders/:id/confirm", cfg.OrderHandler.Confirm)
	protected.POST("/orders/:id/abort", cfg.OrderHandler.Abort)
	protected.POST("/orders/:id/pay", cfg.OrderHandler.CompletePayment)

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireRole(domain.RoleAdmin))
	// Users
	admin.GET("/users", cfg.UserHandler.List)
	admin.DELETE("/users/:id", cfg.UserHandler.Delete)
	// Catalog
	admin.POST("/categories", cfg.CategoryHandler.Create)
	admin.PUT("/categories/:id", cfg.CategoryHandler.Update)
	admin.DELETE("/categories/:id", cfg.CategoryHandler.Delete)
	admin.POST("/products", cfg.ProductHandler.Create)
	admin.PUT("/products/:id", cfg.ProductHandler.Update)
	admin.DELETE("/products/:id", cfg.ProductHandler.Delete)
	// Checkout configuration
	admin.POST("/shipping-prices", cfg.ShippingPriceHandler.Create)
	admin.GET("/shipping-prices", cfg.ShippingPriceHandler.List)
	admin.PUT("/shipping-prices/:id", cfg.ShippingPriceHandler.Update)
	admin.DELETE("/shipping-prices/:id", cfg.ShippingPriceHandler.Delete)
	admin.POST("/payment-methods", cfg.PaymentMethodHandler.Create)
	admin.PUT("/payment-methods/:id", cfg.PaymentMethodHandler.Update)
	admin.DELETE("/payment-methods/:id", cfg.PaymentMethodHandler.Delete)
	// Orders
	admin.GET("/orders", cfg.OrderHandler.List)

	return router
}
