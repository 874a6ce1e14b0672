package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

// OrderRepo is the order repository gateway: create, load and status update.
// Orders are never deleted through the workflow.
type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.Order, error)
	ListByClientUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, status domain.OrderStatus) error
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (or *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *domain.Order) (*domain.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if err := transaction.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (or *orderRepo) GetByID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*domain.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var result domain.Order
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	return &result, nil
}

func (or *orderRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*domain.Order
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *orderRepo) ListByClientUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*domain.Order
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Where("client_user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *orderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, status domain.OrderStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()}).Error
}
