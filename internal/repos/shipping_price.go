package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type ShippingPriceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, prices []*domain.ShippingPrice) ([]*domain.ShippingPrice, error)
	GetByID(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) (*domain.ShippingPrice, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.ShippingPrice, error)
	ListByCountry(ctx context.Context, tx *gorm.DB, country string) ([]*domain.ShippingPrice, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, priceID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) error
}

type shippingPriceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShippingPriceRepo(db *gorm.DB, baseLog *logger.Logger) ShippingPriceRepo {
	return &shippingPriceRepo{db: db, log: baseLog.With("repo", "ShippingPriceRepo")}
}

func (sr *shippingPriceRepo) Create(ctx context.Context, tx *gorm.DB, prices []*domain.ShippingPrice) ([]*domain.ShippingPrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(prices) == 0 {
		return []*domain.ShippingPrice{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

func (sr *shippingPriceRepo) GetByID(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) (*domain.ShippingPrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result domain.ShippingPrice
	if err := transaction.WithContext(ctx).
		Where("id = ?", priceID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *shippingPriceRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.ShippingPrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*domain.ShippingPrice
	if err := transaction.WithContext(ctx).
		Order("country, state, city, neighborhood").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *shippingPriceRepo) ListByCountry(ctx context.Context, tx *gorm.DB, country string) ([]*domain.ShippingPrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*domain.ShippingPrice
	if err := transaction.WithContext(ctx).
		Where("country = ?", country).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *shippingPriceRepo) UpdateFields(ctx context.Context, tx *gorm.DB, priceID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.ShippingPrice{}).
		Where("id = ?", priceID).
		Updates(fields).Error
}

func (sr *shippingPriceRepo) Delete(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", priceID).
		Delete(&domain.ShippingPrice{}).Error
}
