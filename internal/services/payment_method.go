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

type PaymentMethodService interface {
	Create(ctx context.Context, method *domain.PaymentMethod) (*domain.PaymentMethod, error)
	GetByID(ctx context.Context, methodID uuid.UUID) (*domain.PaymentMethod, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.PaymentMethod, error)
	Update(ctx context.Context, methodID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, methodID uuid.UUID) error
}

type paymentMethodService struct {
	db      *gorm.DB
	log     *logger.Logger
	methods repos.PaymentMethodRepo
}

func NewPaymentMethodService(db *gorm.DB, baseLog *logger.Logger, methods repos.PaymentMethodRepo) PaymentMethodService {
	return &paymentMethodService{db: db, log: baseLog.With("service", "PaymentMethodService"), methods: methods}
}

func (s *paymentMethodService) Create(ctx context.Context, method *domain.PaymentMethod) (*domain.PaymentMethod, error) {
	if strings.TrimSpace(method.Name) == "" {
		return nil, fmt.Errorf("payment method name is required")
	}
	now := time.Now().UTC()
	method.ID = uuid.New()
	method.CreatedAt = now
	method.UpdatedAt = now
	created, err := s.methods.Create(ctx, nil, []*domain.PaymentMethod{method})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *paymentMethodService) GetByID(ctx context.Context, methodID uuid.UUID) (*domain.PaymentMethod, error) {
	m, err := s.methods.GetByID(ctx, nil, methodID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("payment method not found: %s", methodID)
	}
	return m, nil
}

func (s *paymentMethodService) List(ctx context.Context, activeOnly bool) ([]*domain.PaymentMethod, error) {
	return s.methods.List(ctx, nil, activeOnly)
}

func (s *paymentMethodService) Update(ctx context.Context, methodID uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	return s.methods.UpdateFields(ctx, nil, methodID, fields)
}

func (s *paymentMethodService) Delete(ctx context.Context, methodID uuid.UUID) error {
	return s.methods.Delete(ctx, nil, methodID)
}
