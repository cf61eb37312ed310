package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/dto"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

type userService struct {
	userRepo   portsrepo.UserRepositoryFacade
	ledgerRepo portsrepo.LedgerRepositoryFacade
	notifier   portssvc.NotificationSvcFacade
}

// NewUserService creates the profile service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, notifier portssvc.NotificationSvcFacade) portssvc.UserSvcFacade {
	return &userService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		notifier:   notifier,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// SubmitProfile creates or resubmits the caller's profile. The profile always
// re-enters PENDING; resubmission is how a rejected member tries again.
func (s *userService) SubmitProfile(ctx context.Context, userID string, req dto.SubmitProfileRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	resubmission := false
	existing, err := s.userRepo.FindUserByID(ctx, userID)
	switch {
	case err == nil:
		resubmission = true
	case errors.Is(err, apperrors.ErrNotFound):
		// First submission.
	default:
		return nil, err
	}

	user := domain.User{
		UserID:      userID,
		FullName:    req.FullName,
		Mobile:      req.Mobile,
		Island:      req.Island,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Bio:         req.Bio,
		Role:        domain.RoleUser,
		Moderation: domain.Moderation{
			Status: domain.StatusPending,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if resubmission {
		user.Role = existing.Role
		user.AuditFields.CreatedAt = existing.CreatedAt
		user.AuditFields.CreatedBy = existing.CreatedBy
	}

	if err := s.userRepo.SaveProfile(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Profile submitted",
		slog.String("user_id", userID),
		slog.Bool("resubmission", resubmission))
	s.notifier.Emit(ctx, userID, "profile_submitted", map[string]any{
		"resubmission": resubmission,
	})

	return &user, nil
}

// GetProfile returns the caller's profile with the coin balance attached.
func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance, err := s.ledgerRepo.BalanceOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToProfileResponse(*user, balance)
	return &resp, nil
}

func (s *userService) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}
