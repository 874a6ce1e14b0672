package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type PaymentMethodRepo interface {
	Create(ctx context.Context, tx *gorm.DB, methods []*domain.PaymentMethod) ([]*domain.PaymentMethod, error)
	GetByID(ctx context.Context, tx *gorm.DB, methodID uuid.UUID) (*domain.PaymentMethod, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*domain.PaymentMethod, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, methodID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, methodID uuid.UUID) error
}

type paymentMethodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentMethodRepo(db *gorm.DB, baseLog *logger.Logger) PaymentMethodRepo {
	return &paymentMethodRepo{db: db, log: baseLog.With("repo", "PaymentMethodRepo")}
}

func (mr *paymentMethodRepo) Create(ctx context.Context, tx *gorm.DB, methods []*domain.PaymentMethod) ([]*domain.PaymentMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(methods) == 0 {
		return []*domain.PaymentMethod{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (mr *paymentMethodRepo) GetByID(ctx context.Context, tx *gorm.DB, methodID uuid.UUID) (*domain.PaymentMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result domain.PaymentMethod
	if err := transaction.WithContext(ctx).
		Where("id = ?", methodID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (mr *paymentMethodRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*domain.PaymentMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*domain.PaymentMethod
	query := transaction.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *paymentMethodRepo) UpdateFields(ctx context.Context, tx *gorm.DB, methodID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.PaymentMethod{}).
		Where("id = ?", methodID).
		Updates(fields).Error
}

func (mr *paymentMethodRepo) Delete(ctx context.Context, tx *gorm.DB, methodID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", methodID).
		Delete(&domain.PaymentMethod{}).Error
}
