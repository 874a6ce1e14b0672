package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

// fakeProductRepo keeps products in memory and hands out deep copies, the
// same way a row read from the store is detached from the row on disk.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
	saveErr  map[uuid.UUID]error
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{
		products: make(map[uuid.UUID]*domain.Product),
		saveErr:  make(map[uuid.UUID]error),
	}
	for _, p := range products {
		r.products[p.ID] = copyProduct(p)
	}
	return r
}

func copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	cp.Reservations = make(domain.ReservationMap, len(p.Reservations))
	for k, v := range p.Reservations {
		cp.Reservations[k] = v
	}
	cp.Sales = append(domain.SaleLog{}, p.Sales...)
	return &cp
}

func (r *fakeProductRepo) Create(ctx context.Context, tx *gorm.DB, products []*domain.Product) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		r.products[p.ID] = copyProduct(p)
	}
	return products, nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	return copyProduct(p), nil
}

func (r *fakeProductRepo) List(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Product
	for _, p := range r.products {
		out = append(out, copyProduct(p))
	}
	return out, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, tx *gorm.DB, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.saveErr[product.ID]; err != nil {
		return err
	}
	r.products[product.ID] = copyProduct(product)
	return nil
}

func (r *fakeProductRepo) UpdateFields(ctx context.Context, tx *gorm.DB, productID uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, productID)
	return nil
}

func (r *fakeProductRepo) failSave(productID uuid.UUID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr[productID] = err
}

func (r *fakeProductRepo) get(t *testing.T, productID uuid.UUID) *domain.Product {
	t.Helper()
	p, err := r.GetByID(context.Background(), nil, productID)
	require.NoError(t, err)
	return p
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*domain.Order
	statusErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.ID] = &cp
	return order, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	cp := *o
	cp.Items = append([]domain.OrderItem{}, o.Items...)
	return &cp, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) ListByClientUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statusErr != nil {
		return r.statusErr
	}
	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	o.Status = status
	return nil
}

type fakePricing struct {
	price float64
	err   error
}

func (f *fakePricing) GetPriceByAddress(ctx context.Context, address domain.Address) (float64, error) {
	return f.price, f.err
}

func newWorkflow(products *fakeProductRepo, orders *fakeOrderRepo, pricing PricingGateway) OrderWorkflowService {
	// nil cache: invalidation is a no-op.
	return NewOrderWorkflowService(nil, logger.NewNop(), products, orders, pricing, nil, NewLockRegistry())
}

func catalogProduct(name string, price float64, stock int) *domain.Product {
	return &domain.Product{
		ID:           uuid.New(),
		Name:         name,
		GrossPrice:   price,
		Stock:        stock,
		Reservations: domain.ReservationMap{},
		Sales:        domain.SaleLog{},
	}
}

func draftFor(products ...*domain.Product) domain.OrderDraft {
	d := domain.OrderDraft{
		Client: domain.Client{
			UserID:    uuid.New(),
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
	}
	for _, p := range products {
		d.Items = append(d.Items, domain.DraftItem{ProductID: p.ID, Quantity: 2})
	}
	return d
}

func TestInitializeComputesTotals(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 19.99, 10)
	mug := catalogProduct("mug", 7.50, 5)
	products := newFakeProductRepo(shirt, mug)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{price: 12.30})

	draft := draftFor(shirt, mug)
	draft.IncludesShipping = true
	draft.ShippingAddress = domain.Address{
		Country: "BR", State: "SP", City: "Sao Paulo", Neighborhood: "Pinheiros",
	}

	order, err := wf.Initialize(ctx, draft)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusInitialized, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "shirt", order.Items[0].Name)
	assert.Equal(t, 19.99, order.Items[0].GrossUnitPrice)
	assert.Equal(t, 39.98, order.Items[0].Amount)
	assert.Equal(t, 54.98, order.SubTotal)
	assert.Equal(t, 12.30, order.ShippingPrice)
	assert.Equal(t, 67.28, order.Total)

	// Initialize is a quote: no holds yet.
	assert.Empty(t, products.get(t, shirt.ID).Reservations)
	assert.Empty(t, products.get(t, mug.ID).Reservations)
}

func TestInitializeWithoutShippingSkipsPricing(t *testing.T) {
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	wf := newWorkflow(products, newFakeOrderRepo(), &fakePricing{err: fmt.Errorf("gateway down")})

	order, err := wf.Initialize(context.Background(), draftFor(shirt))
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.ShippingPrice)
	assert.Equal(t, order.SubTotal, order.Total)
}

func TestInitializeRejectsOverStock(t *testing.T) {
	shirt := catalogProduct("shirt", 10.00, 1)
	products := newFakeProductRepo(shirt)
	wf := newWorkflow(products, newFakeOrderRepo(), &fakePricing{})

	_, err := wf.Initialize(context.Background(), draftFor(shirt))
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}

func TestInitializeRejectsMalformedDraft(t *testing.T) {
	wf := newWorkflow(newFakeProductRepo(), newFakeOrderRepo(), &fakePricing{})

	_, err := wf.Initialize(context.Background(), domain.OrderDraft{})
	assert.ErrorIs(t, err, domain.ErrMalformedOrder)
}

func TestInitializePropagatesPricingFailure(t *testing.T) {
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	pricingErr := fmt.Errorf("%w: BR/XX", domain.ErrNoPricingForAddress)
	wf := newWorkflow(products, newFakeOrderRepo(), &fakePricing{err: pricingErr})

	draft := draftFor(shirt)
	draft.IncludesShipping = true
	draft.ShippingAddress = domain.Address{
		Country: "BR", State: "XX", City: "Nowhere", Neighborhood: "None",
	}
	_, err := wf.Initialize(context.Background(), draft)
	assert.ErrorIs(t, err, domain.ErrNoPricingForAddress)
}

func initializedOrder(t *testing.T, wf OrderWorkflowService, products ...*domain.Product) *domain.Order {
	t.Helper()
	order, err := wf.Initialize(context.Background(), draftFor(products...))
	require.NoError(t, err)
	return order
}

func TestConfirmReservesEveryItem(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	mug := catalogProduct("mug", 5.00, 4)
	products := newFakeProductRepo(shirt, mug)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt, mug)
	require.NoError(t, wf.Confirm(ctx, order.ID))

	stored, err := orders.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, stored.Status)

	p := products.get(t, shirt.ID)
	assert.Equal(t, 2, p.Reservations[order.ID])
	assert.Equal(t, 10, p.Stock, "stock moves only on payment")
	assert.Equal(t, 8, p.Available())
}

func TestConfirmRollsBackOnInsufficientStock(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	mug := catalogProduct("mug", 5.00, 2)
	products := newFakeProductRepo(shirt, mug)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt, mug)

	// A rival hold drains the mug between initialize and confirm.
	rival := products.get(t, mug.ID)
	require.NoError(t, rival.Reserve(uuid.New(), 1))
	require.NoError(t, products.Save(ctx, nil, rival))

	err := wf.Confirm(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// The shirt hold applied before the failure must be gone again.
	assert.Empty(t, products.get(t, shirt.ID).Reservations)

	stored, err := orders.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInitialized, stored.Status)
}

func TestConfirmRollsBackOnStatusSaveFailure(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt)
	orders.statusErr = fmt.Errorf("connection reset")

	err := wf.Confirm(ctx, order.ID)
	require.Error(t, err)
	assert.Empty(t, products.get(t, shirt.ID).Reservations)
}

func TestConfirmRequiresInitialized(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt)
	require.NoError(t, wf.Confirm(ctx, order.ID))

	err := wf.Confirm(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// The hold from the first confirm must be untouched.
	assert.Equal(t, 2, products.get(t, shirt.ID).Reservations[order.ID])
}

func TestAbortReleasesReservations(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt)
	require.NoError(t, wf.Confirm(ctx, order.ID))
	require.NoError(t, wf.Abort(ctx, order.ID))

	p := products.get(t, shirt.ID)
	assert.Empty(t, p.Reservations)
	assert.Equal(t, 10, p.Stock)

	stored, err := orders.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAborted, stored.Status)
}

func TestAbortBeforeConfirmIsLegal(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt)
	require.NoError(t, wf.Abort(ctx, order.ID))

	stored, err := orders.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAborted, stored.Status)
}

func TestAbortIsIdempotent(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt)
	require.NoError(t, wf.Confirm(ctx, order.ID))
	require.NoError(t, wf.Abort(ctx, order.ID))
	require.NoError(t, wf.Abort(ctx, order.ID))

	assert.Equal(t, 10, products.get(t, shirt.ID).Available())
}

func TestAbortPaidOrderIsRejected(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt)
	require.NoError(t, wf.Confirm(ctx, order.ID))
	require.NoError(t, wf.CompletePayment(ctx, order.ID))

	err := wf.Abort(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 8, products.get(t, shirt.ID).Stock, "paid stock must stay consumed")
}

func TestCompletePaymentCommitsSales(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	mug := catalogProduct("mug", 5.00, 4)
	products := newFakeProductRepo(shirt, mug)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt, mug)
	require.NoError(t, wf.Confirm(ctx, order.ID))

	availableBefore := products.get(t, shirt.ID).Available()
	require.NoError(t, wf.CompletePayment(ctx, order.ID))

	p := products.get(t, shirt.ID)
	assert.Equal(t, 8, p.Stock)
	assert.Empty(t, p.Reservations)
	require.Len(t, p.Sales, 1)
	assert.Equal(t, order.ID, p.Sales[0].OrderID)
	assert.Equal(t, 2, p.Sales[0].Quantity)
	assert.Equal(t, 10.00, p.Sales[0].GrossPrice)
	assert.Equal(t, availableBefore, p.Available(), "payment must not change availability")

	stored, err := orders.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, stored.Status)
}

func TestCompletePaymentWithoutConfirmFails(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt)
	err := wf.CompletePayment(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNoReservationToCommit)
	assert.Equal(t, 10, products.get(t, shirt.ID).Stock)
}

func TestCompletePaymentTwiceFails(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt)
	require.NoError(t, wf.Confirm(ctx, order.ID))
	require.NoError(t, wf.CompletePayment(ctx, order.ID))

	err := wf.CompletePayment(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNoReservationToCommit)
	assert.Equal(t, 8, products.get(t, shirt.ID).Stock, "stock must not be consumed twice")
}

// A payment that fails after committing some items must stay retryable:
// the retry skips the items whose sale is already on the log and finishes
// the rest, without consuming any product's stock twice.
func TestCompletePaymentRetriesAfterPartialFailure(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	mug := catalogProduct("mug", 5.00, 4)
	products := newFakeProductRepo(shirt, mug)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt, mug)
	require.NoError(t, wf.Confirm(ctx, order.ID))

	products.failSave(mug.ID, fmt.Errorf("connection reset"))
	require.Error(t, wf.CompletePayment(ctx, order.ID))

	// First item committed, second still held, order still CONFIRMED.
	assert.Equal(t, 8, products.get(t, shirt.ID).Stock)
	assert.Equal(t, 2, products.get(t, mug.ID).Reservations[order.ID])
	stored, err := orders.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, stored.Status)

	products.failSave(mug.ID, nil)
	require.NoError(t, wf.CompletePayment(ctx, order.ID))

	p := products.get(t, shirt.ID)
	assert.Equal(t, 8, p.Stock, "retry must not consume the shirt again")
	require.Len(t, p.Sales, 1)

	m := products.get(t, mug.ID)
	assert.Equal(t, 2, m.Stock)
	assert.Empty(t, m.Reservations)
	require.Len(t, m.Sales, 1)

	stored, err = orders.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, stored.Status)
}

func TestCompletePaymentOnAbortedFails(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	order := initializedOrder(t, wf, shirt)
	require.NoError(t, wf.Abort(ctx, order.ID))

	err := wf.CompletePayment(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Transitions on the same order are serialized, so a confirm and an abort
// racing each other always settle as ABORTED with no reservation left
// behind, whichever runs first.
func TestConcurrentConfirmAndAbortSettleAborted(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		shirt := catalogProduct("shirt", 10.00, 10)
		products := newFakeProductRepo(shirt)
		orders := newFakeOrderRepo()
		wf := newWorkflow(products, orders, &fakePricing{})
		order := initializedOrder(t, wf, shirt)

		var g errgroup.Group
		g.Go(func() error {
			err := wf.Confirm(ctx, order.ID)
			if err != nil && !errors.Is(err, domain.ErrInvalidTransition) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			return wf.Abort(ctx, order.ID)
		})
		require.NoError(t, g.Wait())

		stored, err := orders.GetByID(ctx, nil, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusAborted, stored.Status)
		assert.Empty(t, products.get(t, shirt.ID).Reservations)
	}
}

// Concurrent confirms against the same product must never over-commit the
// ledger: stock 10, six units per order, so exactly one of the confirms can
// win and the rest fail with ErrInsufficientStock.
func TestConcurrentConfirmsNeverOversell(t *testing.T) {
	ctx := context.Background()
	shirt := catalogProduct("shirt", 10.00, 10)
	products := newFakeProductRepo(shirt)
	orders := newFakeOrderRepo()
	wf := newWorkflow(products, orders, &fakePricing{})

	const contenders = 8
	orderIDs := make([]uuid.UUID, contenders)
	for i := range orderIDs {
		draft := draftFor(shirt)
		draft.Items[0].Quantity = 6
		order, err := wf.Initialize(ctx, draft)
		require.NoError(t, err)
		orderIDs[i] = order.ID
	}

	var mu sync.Mutex
	succeeded := 0
	var g errgroup.Group
	for _, id := range orderIDs {
		orderID := id
		g.Go(func() error {
			err := wf.Confirm(ctx, orderID)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return nil
			}
			if !assert.ErrorIs(t, err, domain.ErrInsufficientStock) {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, succeeded)
	p := products.get(t, shirt.ID)
	held := 0
	for _, q := range p.Reservations {
		held += q
	}
	assert.Equal(t, 6, held)
	assert.GreaterOrEqual(t, p.Available(), 0, "reservations must never exceed stock")
}
