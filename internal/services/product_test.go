package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*domain.Category
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[uuid.UUID]*domain.Category)}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) Create(ctx context.Context, tx *gorm.DB, categories []*domain.Category) ([]*domain.Category, error) {
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return categories, nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*domain.Category, error) {
	return r.categories[categoryID], nil
}

func (r *fakeCategoryRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) UpdateFields(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) error {
	delete(r.categories, categoryID)
	return nil
}

func newProductService(products *fakeProductRepo, categories *fakeCategoryRepo) ProductService {
	// nil cache: caching disabled, reads go straight to the repo.
	return NewProductService(nil, logger.NewNop(), products, categories, nil)
}

func TestProductCreateInitializesLedger(t *testing.T) {
	svc := newProductService(newFakeProductRepo(), newFakeCategoryRepo())

	created, err := svc.Create(context.Background(), &domain.Product{
		Name:       "shirt",
		GrossPrice: 19.99,
		Stock:      10,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.NotNil(t, created.Reservations)
	assert.Empty(t, created.Reservations)
	assert.Empty(t, created.Sales)
}

func TestProductCreateRejectsUnknownCategory(t *testing.T) {
	svc := newProductService(newFakeProductRepo(), newFakeCategoryRepo())

	_, err := svc.Create(context.Background(), &domain.Product{
		Name:       "shirt",
		GrossPrice: 19.99,
		CategoryID: uuid.New(),
	})
	assert.Error(t, err)
}

func TestProductUpdateRejectsLedgerFields(t *testing.T) {
	shirt := catalogProduct("shirt", 19.99, 10)
	svc := newProductService(newFakeProductRepo(shirt), newFakeCategoryRepo())

	for _, field := range []string{"stock", "reservations", "sales"} {
		err := svc.Update(context.Background(), shirt.ID, map[string]interface{}{field: 1})
		assert.Errorf(t, err, "field %q must be rejected", field)
	}

	assert.NoError(t, svc.Update(context.Background(), shirt.ID, map[string]interface{}{"name": "tee"}))
}

func TestProductDeleteRefusesWithOutstandingReservations(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 19.99, 10)
	require.NoError(t, shirt.Reserve(uuid.New(), 2))
	products := newFakeProductRepo(shirt)
	svc := newProductService(products, newFakeCategoryRepo())

	assert.Error(t, svc.Delete(ctx, shirt.ID))

	// Once the hold is gone the delete goes through.
	held := products.get(t, shirt.ID)
	held.Reservations = domain.ReservationMap{}
	require.NoError(t, products.Save(ctx, nil, held))
	assert.NoError(t, svc.Delete(ctx, shirt.ID))
}
