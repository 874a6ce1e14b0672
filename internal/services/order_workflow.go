package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/cache"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
)

// PricingGateway resolves a shipping price for a delivery address.
// Implemented by ShippingPriceService; faked in tests.
type PricingGateway interface {
	GetPriceByAddress(ctx context.Context, address domain.Address) (float64, error)
}

// OrderWorkflowService drives the order lifecycle and the per-product stock
// ledgers it touches. There is no cross-aggregate transaction: each ledger
// write is serialized per product, each status transition per order, and a
// failure part-way through Confirm is compensated by releasing the
// reservations already applied in the same call, in reverse item order.
type OrderWorkflowService interface {
	Initialize(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
	Confirm(ctx context.Context, orderID uuid.UUID) error
	Abort(ctx context.Context, orderID uuid.UUID) error
	CompletePayment(ctx context.Context, orderID uuid.UUID) error
}

type orderWorkflowService struct {
	db         *gorm.DB
	log        *logger.Logger
	products   repos.ProductRepo
	orders     repos.OrderRepo
	pricing    PricingGateway
	cache      *cache.ProductCache
	locks      *LockRegistry
	orderLocks *LockRegistry
}

func NewOrderWorkflowService(
	db *gorm.DB,
	baseLog *logger.Logger,
	products repos.ProductRepo,
	orders repos.OrderRepo,
	pricing PricingGateway,
	productCache *cache.ProductCache,
	locks *LockRegistry,
) OrderWorkflowService {
	return &orderWorkflowService{
		db:         db,
		log:        baseLog.With("service", "OrderWorkflowService"),
		products:   products,
		orders:     orders,
		pricing:    pricing,
		cache:      productCache,
		locks:      locks,
		orderLocks: NewLockRegistry(),
	}
}

// Initialize validates the draft, snapshots names and prices, computes
// totals and persists the order as INITIALIZED. No stock is reserved here:
// the result is a provisional quote, not a hold. The availability check is
// against total stock only, since this order holds nothing yet.
func (s *orderWorkflowService) Initialize(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(draft.Items))
	subTotal := 0.0
	for _, di := range draft.Items {
		p, err := s.products.GetByID(ctx, nil, di.ProductID)
		if err != nil {
			return nil, err
		}
		if di.Quantity > p.Stock {
			return nil, fmt.Errorf("%w: product %s has stock %d, requested %d", domain.ErrOutOfStock, p.ID, p.Stock, di.Quantity)
		}
		amount := domain.Round2(p.GrossPrice * float64(di.Quantity))
		items = append(items, domain.OrderItem{
			ID:             uuid.New(),
			ProductID:      p.ID,
			ImageURL:       p.ImageURL,
			Name:           p.Name,
			GrossUnitPrice: p.GrossPrice,
			Quantity:       di.Quantity,
			Amount:         amount,
		})
		subTotal += amount
	}
	subTotal = domain.Round2(subTotal)

	shippingPrice := 0.0
	if draft.IncludesShipping {
		price, err := s.pricing.GetPriceByAddress(ctx, draft.ShippingAddress)
		if err != nil {
			return nil, err
		}
		shippingPrice = price
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:               uuid.New(),
		Client:           draft.Client,
		Items:            items,
		IncludesShipping: draft.IncludesShipping,
		ShippingAddress:  draft.ShippingAddress,
		SubTotal:         subTotal,
		ShippingPrice:    shippingPrice,
		Total:            domain.Round2(subTotal + shippingPrice),
		Status:           domain.OrderStatusInitialized,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	created, err := s.orders.Create(ctx, nil, order)
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	s.log.Info("order initialized",
		"order_id", created.ID.String(),
		"client_user_id", created.Client.UserID.String(),
		"items", len(created.Items),
		"total", created.Total,
	)
	return created, nil
}

// Confirm re-validates availability and places one reservation per line item,
// in item order. If any item cannot be reserved, or the status write fails,
// every reservation applied in this call is released again (reverse order)
// before the error is returned, so a failed Confirm leaves the ledgers
// exactly as it found them.
func (s *orderWorkflowService) Confirm(ctx context.Context, orderID uuid.UUID) error {
	unlock := s.orderLocks.Lock(orderID)
	defer unlock()

	order, err := s.orders.GetByID(ctx, nil, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusInitialized {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, domain.OrderStatusConfirmed)
	}

	reserved := make([]uuid.UUID, 0, len(order.Items))
	for _, it := range order.Items {
		if err := s.reserveOne(ctx, it.ProductID, order.ID, it.Quantity); err != nil {
			s.releaseAll(ctx, order.ID, reserved)
			return err
		}
		reserved = append(reserved, it.ProductID)
	}

	if err := s.orders.UpdateStatus(ctx, nil, order.ID, domain.OrderStatusConfirmed); err != nil {
		s.releaseAll(ctx, order.ID, reserved)
		return fmt.Errorf("persist order status: %w", err)
	}
	s.log.Info("order confirmed", "order_id", order.ID.String(), "items", len(order.Items))
	return nil
}

// Abort releases any outstanding reservations for the order and marks it
// ABORTED. Idempotent with respect to stock: a reservation that is already
// gone is treated as released. Aborting a PAID order is rejected.
func (s *orderWorkflowService) Abort(ctx context.Context, orderID uuid.UUID) error {
	unlock := s.orderLocks.Lock(orderID)
	defer unlock()

	order, err := s.orders.GetByID(ctx, nil, orderID)
	if err != nil {
		return err
	}
	if order.Status == domain.OrderStatusPaid {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, domain.OrderStatusAborted)
	}

	for _, it := range order.Items {
		if err := s.releaseOne(ctx, it.ProductID, order.ID); err != nil {
			return err
		}
	}

	if order.Status != domain.OrderStatusAborted {
		if err := s.orders.UpdateStatus(ctx, nil, order.ID, domain.OrderStatusAborted); err != nil {
			return fmt.Errorf("persist order status: %w", err)
		}
	}
	s.log.Info("order aborted", "order_id", order.ID.String())
	return nil
}

// CompletePayment converts each outstanding reservation into a permanent
// sale: stock drops by the held quantity, the hold disappears and a sale
// record is appended. Available stock was already reduced at Confirm time,
// so this step must not double-decrement. A missing reservation with no
// committed sale fails ErrNoReservationToCommit, which signals payment on an
// order that was never confirmed. An item whose sale is already on the log
// is skipped, so a payment that failed part-way through can be retried until
// every item is committed.
func (s *orderWorkflowService) CompletePayment(ctx context.Context, orderID uuid.UUID) error {
	unlock := s.orderLocks.Lock(orderID)
	defer unlock()

	order, err := s.orders.GetByID(ctx, nil, orderID)
	if err != nil {
		return err
	}
	if order.Status == domain.OrderStatusAborted {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, domain.OrderStatusPaid)
	}
	if order.Status == domain.OrderStatusPaid {
		return fmt.Errorf("%w: order %s is already paid", domain.ErrNoReservationToCommit, order.ID)
	}

	for _, it := range order.Items {
		if err := s.commitOne(ctx, it.ProductID, order.ID, it.GrossUnitPrice); err != nil {
			return err
		}
	}

	if err := s.orders.UpdateStatus(ctx, nil, order.ID, domain.OrderStatusPaid); err != nil {
		return fmt.Errorf("persist order status: %w", err)
	}
	s.log.Info("order paid", "order_id", order.ID.String(), "total", order.Total)
	return nil
}

// reserveOne runs one ledger read-check-write under the product's lock.
// Re-reading inside the critical section is what closes the lost-update race
// between concurrent confirms on the same product.
func (s *orderWorkflowService) reserveOne(ctx context.Context, productID, orderID uuid.UUID, qty int) error {
	unlock := s.locks.Lock(productID)
	defer unlock()

	p, err := s.products.GetByID(ctx, nil, productID)
	if err != nil {
		return err
	}
	if err := p.Reserve(orderID, qty); err != nil {
		return err
	}
	if err := s.products.Save(ctx, nil, p); err != nil {
		return fmt.Errorf("persist ledger for product %s: %w", productID, err)
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}

func (s *orderWorkflowService) releaseOne(ctx context.Context, productID, orderID uuid.UUID) error {
	unlock := s.locks.Lock(productID)
	defer unlock()

	p, err := s.products.GetByID(ctx, nil, productID)
	if err != nil {
		return err
	}
	if _, held := p.Reservations[orderID]; !held {
		return nil
	}
	p.Release(orderID)
	if err := s.products.Save(ctx, nil, p); err != nil {
		return fmt.Errorf("persist ledger for product %s: %w", productID, err)
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}

func (s *orderWorkflowService) commitOne(ctx context.Context, productID, orderID uuid.UUID, grossPrice float64) error {
	unlock := s.locks.Lock(productID)
	defer unlock()

	p, err := s.products.GetByID(ctx, nil, productID)
	if err != nil {
		return err
	}
	if _, held := p.Reservations[orderID]; !held && p.HasSale(orderID) {
		// Committed by an earlier payment attempt that failed on a later
		// item. Nothing left to do for this product.
		return nil
	}
	if _, err := p.CommitSale(orderID, grossPrice); err != nil {
		return err
	}
	if err := s.products.Save(ctx, nil, p); err != nil {
		return fmt.Errorf("persist ledger for product %s: %w", productID, err)
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}

// releaseAll is the compensating action for a failed Confirm: it unwinds the
// reservations applied so far, last one first. Failures here are logged and
// swallowed; the original error is what the caller needs to see.
func (s *orderWorkflowService) releaseAll(ctx context.Context, orderID uuid.UUID, productIDs []uuid.UUID) {
	for i := len(productIDs) - 1; i >= 0; i-- {
		if err := s.releaseOne(ctx, productIDs[i], orderID); err != nil {
			s.log.Warn("compensating release failed",
				"order_id", orderID.String(),
				"product_id", productIDs[i].String(),
				"error", err,
			)
		}
	}
}
