package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
)

type ProfileService interface {
	CreateOrUpdate(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type profileService struct {
	db       *gorm.DB
	log      *logger.Logger
	profiles repos.ProfileRepo
	users    repos.UserRepo
}

func NewProfileService(db *gorm.DB, baseLog *logger.Logger, profiles repos.ProfileRepo, users repos.UserRepo) ProfileService {
	return &profileService{
		db:       db,
		log:      baseLog.With("service", "ProfileService"),
		profiles: profiles,
		users:    users,
	}
}

func (s *profileService) CreateOrUpdate(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if profile.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	u, err := s.users.GetByID(ctx, nil, profile.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user not found: %s", profile.UserID)
	}

	existing, err := s.profiles.GetByUserID(ctx, nil, profile.UserID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if existing == nil {
		profile.ID = uuid.New()
		profile.CreatedAt = now
		profile.UpdatedAt = now
		created, err := s.profiles.Create(ctx, nil, []*domain.Profile{profile})
		if err != nil {
			return nil, err
		}
		return created[0], nil
	}

	fields := map[string]interface{}{
		"doc_type":   profile.DocType,
		"document":   profile.Document,
		"telephone":  profile.Telephone,
		"addresses":  profile.Addresses,
		"updated_at": now,
	}
	if err := s.profiles.UpdateFields(ctx, nil, existing.ID, fields); err != nil {
		return nil, err
	}
	return s.profiles.GetByUserID(ctx, nil, profile.UserID)
}

func (s *profileService) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("profile not found for user %s", userID)
	}
	return p, nil
}

func (s *profileService) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return s.profiles.DeleteByUserID(ctx, nil, userID)
}
