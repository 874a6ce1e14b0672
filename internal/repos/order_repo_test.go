package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/storefront-backend/internal/db"
	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One named in-memory database per test so parallel packages never
	// share tables through sqlite's shared cache.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateAll(gdb))
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func storedOrder(userID uuid.UUID) *domain.Order {
	now := time.Now().UTC().Truncate(time.Second)
	orderID := uuid.New()
	return &domain.Order{
		ID: orderID,
		Client: domain.Client{
			UserID:    userID,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
		Items: []domain.OrderItem{
			{
				ID:             uuid.New(),
				OrderID:        orderID,
				ProductID:      uuid.New(),
				Name:           "shirt",
				GrossUnitPrice: 19.99,
				Quantity:       2,
				Amount:         39.98,
			},
		},
		SubTotal:  39.98,
		Total:     39.98,
		Status:    domain.OrderStatusInitialized,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(testDB(t), logger.NewNop())

	order := storedOrder(uuid.New())
	_, err := repo.Create(ctx, nil, order)
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, loaded.ID)
	assert.Equal(t, order.Client.Email, loaded.Client.Email)
	assert.Equal(t, domain.OrderStatusInitialized, loaded.Status)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "shirt", loaded.Items[0].Name)
	assert.Equal(t, 19.99, loaded.Items[0].GrossUnitPrice)
}

func TestOrderRepoGetByIDNotFound(t *testing.T) {
	repo := NewOrderRepo(testDB(t), logger.NewNop())

	_, err := repo.GetByID(context.Background(), nil, uuid.New())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderRepoUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(testDB(t), logger.NewNop())

	order := storedOrder(uuid.New())
	_, err := repo.Create(ctx, nil, order)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, nil, order.ID, domain.OrderStatusConfirmed))

	loaded, err := repo.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, loaded.Status)
}

func TestOrderRepoListByClientUserID(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(testDB(t), logger.NewNop())

	buyer := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := repo.Create(ctx, nil, storedOrder(buyer))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, nil, storedOrder(uuid.New()))
	require.NoError(t, err)

	mine, err := repo.ListByClientUserID(ctx, nil, buyer)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, buyer, o.Client.UserID)
		assert.NotEmpty(t, o.Items, "items must be preloaded")
	}
}
