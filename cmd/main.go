package main

import (
	"fmt"
	"os"
	"time"

	"github.com/yungbote/storefront-backend/internal/db"
	"github.com/yungbote/storefront-backend/internal/http/handlers"
	"github.com/yungbote/storefront-backend/internal/http/middleware"
	"github.com/yungbote/storefront-backend/internal/platform/cache"
	"github.com/yungbote/storefront-backend/internal/platform/envutil"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
	"github.com/yungbote/storefront-backend/internal/server"
	"github.com/yungbote/storefront-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", "defaultsecret")
	accessTokenTTL := envutil.Int("ACCESS_TOKEN_TTL", 3600)
	refreshTokenTTL := envutil.Int("REFRESH_TOKEN_TTL", 86400)
	redisAddr := envutil.String("REDIS_ADDR", "")
	redisPassword := envutil.String("REDIS_PASSWORD", "")
	cacheTTL := envutil.Int("PRODUCT_CACHE_TTL", 300)
	port := envutil.String("PORT", "8080")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()
	if err := db.AutoMigrateAll(thePG); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	profileRepo := repos.NewProfileRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	shippingPriceRepo := repos.NewShippingPriceRepo(thePG, log)
	paymentMethodRepo := repos.NewPaymentMethodRepo(thePG, log)
	orderRepo := repos.NewOrderRepo(thePG, log)

	// Cache
	productCache := cache.NewProductCache(redisAddr, redisPassword, time.Duration(cacheTTL)*time.Second, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, profileRepo)
	profileService := services.NewProfileService(thePG, log, profileRepo, userRepo)
	categoryService := services.NewCategoryService(thePG, log, categoryRepo, productRepo)
	productService := services.NewProductService(thePG, log, productRepo, categoryRepo, productCache)
	shippingPriceService := services.NewShippingPriceService(thePG, log, shippingPriceRepo)
	paymentMethodService := services.NewPaymentMethodService(thePG, log, paymentMethodRepo)
	productLocks := services.NewLockRegistry()
	orderWorkflowService := services.NewOrderWorkflowService(thePG, log, productRepo, orderRepo, shippingPriceService, productCache, productLocks)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(log, authService)
	userHandler := handlers.NewUserHandler(log, userService)
	profileHandler := handlers.NewProfileHandler(log, profileService)
	categoryHandler := handlers.NewCategoryHandler(log, categoryService)
	productHandler := handlers.NewProductHandler(log, productService)
	shippingPriceHandler := handlers.NewShippingPriceHandler(log, shippingPriceService)
	paymentMethodHandler := handlers.NewPaymentMethodHandler(log, paymentMethodService)
	orderHandler := handlers.NewOrderHandler(log, orderWorkflowService, orderRepo)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:                  log,
		AuthMiddleware:       authMiddleware,
		HealthHandler:        healthHandler,
		AuthHandler:          authHandler,
		UserHandler:          userHandler,
		ProfileHandler:       profileHandler,
		CategoryHandler:      categoryHandler,
		ProductHandler:       productHandler,
		ShippingPriceHandler: shippingPriceHandler,
		PaymentMethodHandler: paymentMethodHandler,
		OrderHandler:         orderHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
