package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type fakeShippingPriceRepo struct {
	rows []*domain.ShippingPrice
}

func (r *fakeShippingPriceRepo) Create(ctx context.Context, tx *gorm.DB, prices []*domain.ShippingPrice) ([]*domain.ShippingPrice, error) {
	r.rows = append(r.rows, prices...)
	return prices, nil
}

func (r *fakeShippingPriceRepo) GetByID(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) (*domain.ShippingPrice, error) {
	for _, row := range r.rows {
		if row.ID == priceID {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeShippingPriceRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.ShippingPrice, error) {
	return r.rows, nil
}

func (r *fakeShippingPriceRepo) ListByCountry(ctx context.Context, tx *gorm.DB, country string) ([]*domain.ShippingPrice, error) {
	var out []*domain.ShippingPrice
	for _, row := range r.rows {
		if strings.EqualFold(row.Country, country) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeShippingPriceRepo) UpdateFields(ctx context.Context, tx *gorm.DB, priceID uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func (r *fakeShippingPriceRepo) Delete(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) error {
	return nil
}

func priceRow(country, state, city, neighborhood string, price float64) *domain.ShippingPrice {
	return &domain.ShippingPrice{
		ID:           uuid.New(),
		Country:      country,
		State:        state,
		City:         city,
		Neighborhood: neighborhood,
		Price:        price,
	}
}

func pinheiros() domain.Address {
	return domain.Address{
		Country:      "BR",
		State:        "SP",
		City:         "Sao Paulo",
		Neighborhood: "Pinheiros",
	}
}

func TestGetPriceByAddressPrefersMostSpecificRow(t *testing.T) {
	repo := &fakeShippingPriceRepo{rows: []*domain.ShippingPrice{
		priceRow("BR", "", "", "", 30.00),
		priceRow("BR", "SP", "", "", 20.00),
		priceRow("BR", "SP", "Sao Paulo", "", 12.00),
		priceRow("BR", "SP", "Sao Paulo", "Pinheiros", 8.00),
	}}
	svc := NewShippingPriceService(nil, logger.NewNop(), repo)

	price, err := svc.GetPriceByAddress(context.Background(), pinheiros())
	require.NoError(t, err)
	assert.Equal(t, 8.00, price)
}

func TestGetPriceByAddressFallsBackToBroaderRow(t *testing.T) {
	repo := &fakeShippingPriceRepo{rows: []*domain.ShippingPrice{
		priceRow("BR", "", "", "", 30.00),
		priceRow("BR", "RJ", "", "", 25.00),
	}}
	svc := NewShippingPriceService(nil, logger.NewNop(), repo)

	price, err := svc.GetPriceByAddress(context.Background(), pinheiros())
	require.NoError(t, err)
	assert.Equal(t, 30.00, price, "the RJ row must not match an SP address")
}

func TestGetPriceByAddressMatchesCaseInsensitively(t *testing.T) {
	repo := &fakeShippingPriceRepo{rows: []*domain.ShippingPrice{
		priceRow("BR", "sp", "SAO PAULO", "", 12.00),
	}}
	svc := NewShippingPriceService(nil, logger.NewNop(), repo)

	price, err := svc.GetPriceByAddress(context.Background(), pinheiros())
	require.NoError(t, err)
	assert.Equal(t, 12.00, price)
}

func TestGetPriceByAddressNoMatch(t *testing.T) {
	repo := &fakeShippingPriceRepo{rows: []*domain.ShippingPrice{
		priceRow("AR", "", "", "", 40.00),
	}}
	svc := NewShippingPriceService(nil, logger.NewNop(), repo)

	_, err := svc.GetPriceByAddress(context.Background(), pinheiros())
	assert.ErrorIs(t, err, domain.ErrNoPricingForAddress)
}

func TestShippingPriceCreateValidation(t *testing.T) {
	svc := NewShippingPriceService(nil, logger.NewNop(), &fakeShippingPriceRepo{})

	_, err := svc.Create(context.Background(), &domain.ShippingPrice{Price: 10})
	assert.Error(t, err, "country is required")

	_, err = svc.Create(context.Background(), &domain.ShippingPrice{Country: "BR", Price: -1})
	assert.Error(t, err, "negative price is rejected")

	created, err := svc.Create(context.Background(), &domain.ShippingPrice{Country: "BR", Price: 10})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
}
