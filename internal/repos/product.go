package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

// ProductRepo is the catalog gateway. GetByID always reflects the latest
// persisted ledger state; the order workflow re-reads through it before every
// ledger mutation because no cross-aggregate lock is held at the store level.
type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, products []*domain.Product) ([]*domain.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*domain.Product, error)
	Save(ctx context.Context, tx *gorm.DB, product *domain.Product) error
	UpdateFields(ctx context.Context, tx *gorm.DB, productID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (pr *productRepo) Create(ctx context.Context, tx *gorm.DB, products []*domain.Product) ([]*domain.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(products) == 0 {
		return []*domain.Product{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (pr *productRepo) GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*domain.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result domain.Product
	if err := transaction.WithContext(ctx).
		Where("id = ?", productID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		return nil, err
	}
	return &result, nil
}

func (pr *productRepo) List(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*domain.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*domain.Product
	query := transaction.WithContext(ctx)
	if categoryID != uuid.Nil {
		query = query.Where("category_id = ?", categoryID)
	}
	if err := query.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Save writes the whole product row, ledger included. Callers serialize
// writes per product; this is a plain load-and-save, not a compare-and-swap.
func (pr *productRepo) Save(ctx context.Context, tx *gorm.DB, product *domain.Product) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(product).Error
}

func (pr *productRepo) UpdateFields(ctx context.Context, tx *gorm.DB, productID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", productID).
		Updates(fields).Error
}

func (pr *productRepo) Delete(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&domain.Product{}).Error
}
