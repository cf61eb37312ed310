package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/metrics"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

// gateService is the single entry point for coin-consuming user actions. It
// checks eligibility and balance up front, then hands the pending subject and
// its debit to the repository as one atomic unit: a user is never charged
// without the pending subject existing, and never owns a pending subject
// without having been charged.
type gateService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	subjectRepo portsrepo.SubjectRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

// NewGateService creates the action gate.
func NewGateService(ledgerRepo portsrepo.LedgerRepositoryFacade, subjectRepo portsrepo.SubjectRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.GateSvc {
	return &gateService{
		ledgerRepo:  ledgerRepo,
		subjectRepo: subjectRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.GateSvc = (*gateService)(nil)

func debitReason(kind domain.SubjectKind) (domain.EntryReason, error) {
	switch kind {
	case domain.KindPost:
		return domain.ReasonPost, nil
	case domain.KindConnection:
		return domain.ReasonConnect, nil
	default:
		return "", fmt.Errorf("%w: no debit reason for subject kind %q", apperrors.ErrValidation, kind)
	}
}

// Attempt validates the actor and commits the debit plus the pending subject.
func (s *gateService) Attempt(ctx context.Context, subject domain.ModeratedSubject, cost int64) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	action := string(subject.SubjectKind())

	if cost < 0 {
		return fmt.Errorf("%w: action cost must not be negative", apperrors.ErrValidation)
	}

	// Eligibility: the owner's profile must be approved before any
	// coin-consuming action.
	owner, err := s.userRepo.FindUserByID(ctx, subject.SubjectOwner())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.RecordGateAttempt(action, "not_eligible")
			return apperrors.ErrNotEligible
		}
		return err
	}
	if owner.Status != domain.StatusApproved {
		logger.Warn("Gate rejected: profile not approved",
			slog.String("action", action),
			slog.String("owner_id", owner.UserID),
			slog.String("profile_status", string(owner.Status)))
		metrics.RecordGateAttempt(action, "not_eligible")
		return apperrors.ErrNotEligible
	}

	var debit *domain.LedgerEntry
	if cost > 0 {
		// Fast-fail on an obviously short balance; the repository re-checks
		// under the account row lock, which is what actually decides races.
		balance, err := s.ledgerRepo.BalanceOf(ctx, owner.UserID)
		if err != nil {
			return err
		}
		if balance < cost {
			metrics.RecordGateAttempt(action, "insufficient_balance")
			return apperrors.ErrInsufficientBalance
		}

		reason, err := debitReason(subject.SubjectKind())
		if err != nil {
			return err
		}
		kind := subject.SubjectKind()
		id := subject.SubjectID()
		debit = &domain.LedgerEntry{
			AccountID:     owner.UserID,
			Delta:         -cost,
			Reason:        reason,
			ReferenceKind: &kind,
			ReferenceID:   &id,
			Description:   "charge for " + string(kind) + " " + id,
			CreatedAt:     time.Now().UTC(),
			CreatedBy:     owner.UserID,
		}
	}

	if err := s.subjectRepo.CreateSubjectWithDebit(ctx, subject, debit); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			metrics.RecordGateAttempt(action, "insufficient_balance")
		case errors.Is(err, apperrors.ErrDomainEffect):
			metrics.RecordGateAttempt(action, "domain_effect_failed")
		default:
			metrics.RecordGateAttempt(action, "error")
		}
		return err
	}

	if debit != nil {
		metrics.RecordLedgerEntry(string(debit.Reason))
	}
	metrics.RecordGateAttempt(action, "ok")
	logger.Info("Gated action committed",
		slog.String("action", action),
		slog.String("subject_id", subject.SubjectID()),
		slog.Int64("cost", cost))
	return nil
}
