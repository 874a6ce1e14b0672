package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
)

func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(

		// =========================
		// Identity + auth
		// =========================
		&domain.User{},
		&domain.UserToken{},
		&domain.Profile{},

		// =========================
		// Catalog
		// =========================
		&domain.Category{},
		&domain.Product{},

		// =========================
		// Checkout configuration
		// =========================
		&domain.ShippingPrice{},
		&domain.PaymentMethod{},

		// =========================
		// Orders
		// =========================
		&domain.Order{},
		&domain.OrderItem{},
	)
}
