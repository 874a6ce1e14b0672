package server

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yungbote/storefront-backend/internal/http/handlers"
	"github.com/yungbote/storefront-backend/internal/http/middleware"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

func TestRouterMountsOrderRoutesUnderAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	router := NewRouter(RouterConfig{
		Log:                  log,
		AuthMiddleware:       middleware.NewAuthMiddleware(log, nil),
		HealthHandler:        handlers.NewHealthHandler(),
		AuthHandler:          handlers.NewAuthHandler(log, nil),
		UserHandler:          handlers.NewUserHandler(log, nil),
		ProfileHandler:       handlers.NewProfileHandler(log, nil),
		CategoryHandler:      handlers.NewCategoryHandler(log, nil),
		ProductHandler:       handlers.NewProductHandler(log, nil),
		ShippingPriceHandler: handlers.NewShippingPriceHandler(log, nil),
		PaymentMethodHandler: handlers.NewPaymentMethodHandler(log, nil),
		OrderHandler:         handlers.NewOrderHandler(log, nil, nil),
	})

	want := map[string]bool{
		"POST /api/orders":             false,
		"GET /api/orders":              false,
		"GET /api/orders/:id":          false,
		"POST /api/orders/:id/confirm": false,
		"POST /api/orders/:id/abort":   false,
		"POST /api/orders/:id/pay":     false,
		"GET /healthcheck":             false,
	}
	for _, r := range router.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, seen := range want {
		assert.Truef(t, seen, "route %s is not registered", route)
	}
}
