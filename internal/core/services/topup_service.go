package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/dto"
)

type topupService struct {
	topupRepo   portsrepo.TopupRepositoryFacade
	subjectRepo portsrepo.SubjectRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	notifier    portssvc.NotificationSvcFacade
}

// NewTopupService creates the top-up request service.
func NewTopupService(topupRepo portsrepo.TopupRepositoryFacade, subjectRepo portsrepo.SubjectRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, notifier portssvc.NotificationSvcFacade) portssvc.TopupSvcFacade {
	return &topupService{
		topupRepo:   topupRepo,
		subjectRepo: subjectRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

var _ portssvc.TopupSvcFacade = (*topupService)(nil)

// RequestTopup records a claimed bank transfer. Creation is free and does not
// go through the coin gate: a member must be able to buy coins before their
// profile is approved. The credit happens only on admin approval.
func (s *topupService) RequestTopup(ctx context.Context, ownerID string, req dto.CreateTopupRequest) (*domain.TopupRequest, error) {
	if _, err := s.userRepo.FindUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotEligible
		}
		return nil, err
	}

	now := time.Now().UTC()
	topup := domain.TopupRequest{
		TopupID:      uuid.NewString(),
		OwnerID:      ownerID,
		Coins:        req.Coins,
		PaidAmount:   req.PaidAmount,
		PaidCurrency: req.PaidCurrency,
		BankSlipRef:  req.BankSlipRef,
		Moderation: domain.Moderation{
			Status: domain.StatusPending,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.subjectRepo.CreateSubjectWithDebit(ctx, topup, nil); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, ownerID, "topup_pending", map[string]any{
		"topupID": topup.TopupID,
		"coins":   topup.Coins,
	})
	return &topup, nil
}

func (s *topupService) ListMyTopups(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.TopupRequest, *string, error) {
	return s.topupRepo.ListTopupsByOwner(ctx, ownerID, limit, nextToken)
}
