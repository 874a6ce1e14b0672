package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/cache"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
)

// ProductService is the catalog CRUD surface. Catalog reads may be served
// from the cache; every write invalidates. Ledger mutations never go through
// here; those belong to the order workflow.
type ProductService interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, productID uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error)
	Update(ctx context.Context, productID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, productID uuid.UUID) error
}

type productService struct {
	db         *gorm.DB
	log        *logger.Logger
	products   repos.ProductRepo
	categories repos.CategoryRepo
	cache      *cache.ProductCache
}

func NewProductService(
	db *gorm.DB,
	baseLog *logger.Logger,
	products repos.ProductRepo,
	categories repos.CategoryRepo,
	productCache *cache.ProductCache,
) ProductService {
	return &productService{
		db:         db,
		log:        baseLog.With("service", "ProductService"),
		products:   products,
		categories: categories,
		cache:      productCache,
	}
}

func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if product.GrossPrice < 0 {
		return nil, fmt.Errorf("gross price must be non-negative")
	}
	if product.Stock < 0 {
		return nil, fmt.Errorf("stock must be non-negative")
	}
	if product.CategoryID != uuid.Nil {
		cat, err := s.categories.GetByID(ctx, nil, product.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("category not found: %s", product.CategoryID)
		}
	}

	now := time.Now().UTC()
	product.ID = uuid.New()
	product.Reservations = domain.ReservationMap{}
	product.Sales = domain.SaleLog{}
	product.CreatedAt = now
	product.UpdatedAt = now

	created, err := s.products.Create(ctx, nil, []*domain.Product{product})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *productService) GetByID(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	if p, ok := s.cache.Get(ctx, productID); ok {
		return p, nil
	}
	p, err := s.products.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, p)
	return p, nil
}

func (s *productService) List(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	return s.products.List(ctx, nil, categoryID)
}

// Update touches catalog fields only. Ledger columns are rejected so a
// catalog edit can never clobber concurrent reservation state.
func (s *productService) Update(ctx context.Context, productID uuid.UUID, fields map[string]interface{}) error {
	for _, forbidden := range []string{"stock", "reservations", "sales"} {
		if _, ok := fields[forbidden]; ok {
			return fmt.Errorf("field %q is managed by the order workflow", forbidden)
		}
	}
	fields["updated_at"] = time.Now().UTC()
	if err := s.products.UpdateFields(ctx, nil, productID, fields); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}

func (s *productService) Delete(ctx context.Context, productID uuid.UUID) error {
	p, err := s.products.GetByID(ctx, nil, productID)
	if err != nil {
		return err
	}
	if len(p.Reservations) > 0 {
		return fmt.Errorf("product %s has outstanding reservations", productID)
	}
	if err := s.products.Delete(ctx, nil, productID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}
