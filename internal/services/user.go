package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/ctxutil"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
)

type UserService interface {
	GetMe(ctx context.Context) (*domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateName(ctx context.Context, firstName, lastName string) (*domain.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	profiles repos.ProfileRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, users repos.UserRepo, profiles repos.ProfileRepo) UserService {
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		users:    users,
		profiles: profiles,
	}
}

func (s *userService) GetMe(ctx context.Context) (*domain.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	return s.GetByID(ctx, rd.UserID)
}

func (s *userService) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user not found: %s", userID)
	}
	return u, nil
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx, nil)
}

func (s *userService) UpdateName(ctx context.Context, firstName, lastName string) (*domain.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("first and last name are required")
	}
	fields := map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"updated_at": time.Now().UTC(),
	}
	if err := s.users.UpdateFields(ctx, nil, rd.UserID, fields); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, rd.UserID)
}

// Delete removes the user and their profile. Orders are kept: the order's
// client block is a historical snapshot, not a live reference.
func (s *userService) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.profiles.DeleteByUserID(ctx, tx, userID); err != nil {
			return err
		}
		return s.users.Delete(ctx, tx, userID)
	})
}
