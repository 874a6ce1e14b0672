package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

func TestProductRepoLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepo(testDB(t), logger.NewNop())

	orderID := uuid.New()
	product := &domain.Product{
		ID:           uuid.New(),
		Name:         "shirt",
		GrossPrice:   19.99,
		Stock:        10,
		Reservations: domain.ReservationMap{},
		Sales:        domain.SaleLog{},
	}
	_, err := repo.Create(ctx, nil, []*domain.Product{product})
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, nil, product.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.Reserve(orderID, 3))
	require.NoError(t, repo.Save(ctx, nil, loaded))

	// The persisted ledger must survive the jsonb round trip intact.
	reloaded, err := repo.GetByID(ctx, nil, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Reservations[orderID])
	assert.Equal(t, 7, reloaded.Available())

	_, err = reloaded.CommitSale(orderID, 19.99)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, nil, reloaded))

	final, err := repo.GetByID(ctx, nil, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, final.Stock)
	assert.Empty(t, final.Reservations)
	require.Len(t, final.Sales, 1)
	assert.Equal(t, orderID, final.Sales[0].OrderID)
}

func TestProductRepoGetByIDNotFound(t *testing.T) {
	repo := NewProductRepo(testDB(t), logger.NewNop())

	_, err := repo.GetByID(context.Background(), nil, uuid.New())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
