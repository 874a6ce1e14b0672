package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
)

type CategoryService interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, categoryID uuid.UUID) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, categoryID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, categoryID uuid.UUID) error
}

type categoryService struct {
	db         *gorm.DB
	log        *logger.Logger
	categories repos.CategoryRepo
	products   repos.ProductRepo
}

func NewCategoryService(db *gorm.DB, baseLog *logger.Logger, categories repos.CategoryRepo, products repos.ProductRepo) CategoryService {
	return &categoryService{
		db:         db,
		log:        baseLog.With("service", "CategoryService"),
		categories: categories,
		products:   products,
	}
}

func (s *categoryService) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return nil, fmt.Errorf("category name is required")
	}
	now := time.Now().UTC()
	category.ID = uuid.New()
	category.CreatedAt = now
	category.UpdatedAt = now
	created, err := s.categories.Create(ctx, nil, []*domain.Category{category})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *categoryService) GetByID(ctx context.Context, categoryID uuid.UUID) (*domain.Category, error) {
	cat, err := s.categories.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("category not found: %s", categoryID)
	}
	return cat, nil
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx, nil)
}

func (s *categoryService) Update(ctx context.Context, categoryID uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	return s.categories.UpdateFields(ctx, nil, categoryID, fields)
}

func (s *categoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	inUse, err := s.products.List(ctx, nil, categoryID)
	if err != nil {
		return err
	}
	if len(inUse) > 0 {
		return fmt.Errorf("category %s still has %d products", categoryID, len(inUse))
	}
	return s.categories.Delete(ctx, nil, categoryID)
}
