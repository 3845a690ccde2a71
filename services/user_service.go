package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// UserService reads and updates the caller's own account
type UserService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(users repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Me returns the caller's profile
func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*models.ProfileView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fromStore(err, ErrUserNotFound, "Failed to load user")
	}
	view := user.ProfileView()
	return &view, nil
}

// UpdateMe applies a profile patch. A blank name is ignored; the avatar is
// replaced, possibly with nil, only when SetAvatar is true.
func (s *UserService) UpdateMe(ctx context.Context, userID uuid.UUID, patch repositories.UserProfilePatch) (*models.SessionView, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		patch.Name = nil
	}
	user, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, fromStore(err, ErrUserNotFound, "Failed to update user")
	}
	view := user.SessionView()
	return &view, nil
}

// FamilyService manages the household a user belongs to
type FamilyService struct {
	families repositories.FamilyRepository
	users    repositories.UserRepository
	txMgr    repositories.TransactionManager
	logger   *zap.Logger
}

// NewFamilyService creates a FamilyService
func NewFamilyService(families repositories.FamilyRepository, users repositories.UserRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *FamilyService {
	return &FamilyService{families: families, users: users, txMgr: txMgr, logger: logger}
}

// Get returns the caller's family with its members, or nil when the caller
// has none
func (s *FamilyService) Get(ctx context.Context, userID uuid.UUID) (*models.Family, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fromStore(err, ErrUserNotFound, "Failed to load family")
	}
	if user.FamilyID == nil {
		return nil, nil
	}
	family, err := s.families.GetByID(ctx, *user.FamilyID)
	if err != nil {
		return nil, WrapInternal("Failed to load family", err)
	}
	return family, nil
}

// Create makes a new family and moves the caller into it
func (s *FamilyService) Create(ctx context.Context, userID uuid.UUID, name string) (*models.Family, error) {
	if strings.TrimSpace(name) == "" {
		name = models.DefaultFamilyName
	}

	family, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) (*models.Family, error) {
		f := models.NewFamily(name)
		if err := s.families.Create(ctx, f); err != nil {
			return nil, err
		}
		if err := s.users.SetFamily(ctx, userID, f.ID); err != nil {
			return nil, err
		}
		return f, nil
	})
	if err != nil {
		return nil, fromStore(err, ErrUserNotFound, "Failed to create family")
	}

	s.logger.Info("family created", zap.String("family_id", family.ID.String()), zap.String("user_id", userID.String()))
	return family, nil
}
