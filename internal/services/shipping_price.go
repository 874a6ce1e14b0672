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

// ShippingPriceService manages shipping price rows and implements the
// PricingGateway lookup used by the order workflow.
type ShippingPriceService interface {
	PricingGateway
	Create(ctx context.Context, price *domain.ShippingPrice) (*domain.ShippingPrice, error)
	GetByID(ctx context.Context, priceID uuid.UUID) (*domain.ShippingPrice, error)
	List(ctx context.Context) ([]*domain.ShippingPrice, error)
	Update(ctx context.Context, priceID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, priceID uuid.UUID) error
}

type shippingPriceService struct {
	db     *gorm.DB
	log    *logger.Logger
	prices repos.ShippingPriceRepo
}

func NewShippingPriceService(db *gorm.DB, baseLog *logger.Logger, prices repos.ShippingPriceRepo) ShippingPriceService {
	return &shippingPriceService{db: db, log: baseLog.With("service", "ShippingPriceService"), prices: prices}
}

// GetPriceByAddress resolves the most specific price row matching the
// address. A row matches when each of its non-empty fields equals the
// corresponding address field; specificity is the count of non-empty fields,
// so a neighborhood-level row beats a country-level one.
func (s *shippingPriceService) GetPriceByAddress(ctx context.Context, address domain.Address) (float64, error) {
	candidates, err := s.prices.ListByCountry(ctx, nil, normalizeArea(address.Country))
	if err != nil {
		return 0, fmt.Errorf("list shipping prices: %w", err)
	}

	best := -1
	price := 0.0
	for _, c := range candidates {
		score, ok := matchScore(c, address)
		if ok && score > best {
			best = score
			price = c.Price
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: %s/%s/%s/%s", domain.ErrNoPricingForAddress,
			address.Country, address.State, address.City, address.Neighborhood)
	}
	return price, nil
}

func matchScore(row *domain.ShippingPrice, address domain.Address) (int, bool) {
	score := 1 // country already matched by the query
	for _, pair := range [][2]string{
		{row.State, address.State},
		{row.City, address.City},
		{row.Neighborhood, address.Neighborhood},
	} {
		if strings.TrimSpace(pair[0]) == "" {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(pair[0]), strings.TrimSpace(pair[1])) {
			return 0, false
		}
		score++
	}
	return score, true
}

func normalizeArea(v string) string {
	return strings.TrimSpace(v)
}

func (s *shippingPriceService) Create(ctx context.Context, price *domain.ShippingPrice) (*domain.ShippingPrice, error) {
	if strings.TrimSpace(price.Country) == "" {
		return nil, fmt.Errorf("country is required")
	}
	if price.Price < 0 {
		return nil, fmt.Errorf("price must be non-negative")
	}
	now := time.Now().UTC()
	price.ID = uuid.New()
	price.CreatedAt = now
	price.UpdatedAt = now
	created, err := s.prices.Create(ctx, nil, []*domain.ShippingPrice{price})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *shippingPriceService) GetByID(ctx context.Context, priceID uuid.UUID) (*domain.ShippingPrice, error) {
	row, err := s.prices.GetByID(ctx, nil, priceID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("shipping price not found: %s", priceID)
	}
	return row, nil
}

func (s *shippingPriceService) List(ctx context.Context) ([]*domain.ShippingPrice, error) {
	return s.prices.List(ctx, nil)
}

func (s *shippingPriceService) Update(ctx context.Context, priceID uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	return s.prices.UpdateFields(ctx, nil, priceID, fields)
}

func (s *shippingPriceService) Delete(ctx context.Context, priceID uuid.UUID) error {
	return s.prices.Delete(ctx, nil, priceID)
}
