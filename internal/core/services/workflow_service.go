package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/metrics"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

// workflowService applies admin decisions to moderated subjects. The status
// transition and any coin movement (refund on rejection, credit on top-up
// approval) are handed to the repository as one transaction; audit records and
// notifications are emitted only after that transaction commits.
type workflowService struct {
	subjectRepo         portsrepo.SubjectRepositoryFacade
	refunds             RefundPolicy
	notifier            portssvc.NotificationSvcFacade
	audit               portssvc.AuditSvcFacade
	requireTargetAccept bool
}

// NewWorkflowService creates the approval workflow service.
func NewWorkflowService(subjectRepo portsrepo.SubjectRepositoryFacade, refunds RefundPolicy, notifier portssvc.NotificationSvcFacade, audit portssvc.AuditSvcFacade, requireTargetAccept bool) portssvc.WorkflowSvcFacade {
	return &workflowService{
		subjectRepo:         subjectRepo,
		refunds:             refunds,
		notifier:            notifier,
		audit:               audit,
		requireTargetAccept: requireTargetAccept,
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// Decide applies an APPROVED or REJECTED outcome to one subject.
func (s *workflowService) Decide(ctx context.Context, kind domain.SubjectKind, subjectID string, outcome domain.SubjectStatus, adminID string, note *string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if outcome != domain.StatusApproved && outcome != domain.StatusRejected {
		return fmt.Errorf("%w: outcome must be APPROVED or REJECTED, got %q", apperrors.ErrValidation, outcome)
	}

	subject, err := s.subjectRepo.FindSubject(ctx, kind, subjectID)
	if err != nil {
		return err
	}
	if subject.ModerationState().Status.IsTerminal() && kind != domain.KindUserProfile {
		// Fast path; the repository re-checks under the row lock.
		return apperrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	decision := portsrepo.SubjectDecision{
		Outcome:   outcome,
		DecidedBy: adminID,
		DecidedAt: now,
		Note:      note,
	}

	refunded := false
	if outcome == domain.StatusRejected {
		if entry := s.refunds.Entry(subject, adminID, now); entry != nil {
			decision.Entry = entry
			decision.MarkRefund = true
			refunded = true
		}
	}

	if outcome == domain.StatusApproved && kind == domain.KindTopup {
		topup, ok := subject.(domain.TopupRequest)
		if !ok {
			return fmt.Errorf("%w: subject %s is not a top-up request", apperrors.ErrValidation, subjectID)
		}
		refKind := domain.KindTopup
		refID := topup.TopupID
		decision.Entry = &domain.LedgerEntry{
			AccountID:     topup.OwnerID,
			Delta:         topup.Coins,
			Reason:        domain.ReasonTopup,
			ReferenceKind: &refKind,
			ReferenceID:   &refID,
			Description:   "top-up credit for " + topup.TopupID,
			CreatedAt:     now,
			CreatedBy:     adminID,
		}
	}

	if err := s.subjectRepo.DecideSubject(ctx, kind, subjectID, decision); err != nil {
		if errors.Is(err, apperrors.ErrRefundIntegrity) {
			logger.Error("Refund guard violated while deciding subject",
				slog.Bool("integrity", true),
				slog.String("subject_kind", string(kind)),
				slog.String("subject_id", subjectID))
			metrics.RecordIntegrityFault("refund_guard")
		}
		return err
	}

	metrics.RecordDecision(string(kind), string(outcome))
	if decision.Entry != nil {
		metrics.RecordLedgerEntry(string(decision.Entry.Reason))
	}
	logger.Info("Subject decided",
		slog.String("subject_kind", string(kind)),
		slog.String("subject_id", subjectID),
		slog.String("outcome", string(outcome)),
		slog.String("admin_id", adminID))

	s.audit.Record(ctx, adminID, "DECIDE", string(kind), subjectID, map[string]any{
		"outcome":  string(outcome),
		"note":     note,
		"refunded": refunded,
	})

	payload := map[string]any{
		"subjectKind": string(kind),
		"subjectID":   subjectID,
		"outcome":     string(outcome),
	}
	if note != nil {
		payload["note"] = *note
	}
	if refunded {
		payload["refundedCoins"] = subject.ModerationState().CoinCost
	}
	s.notifier.Emit(ctx, subject.SubjectOwner(), notificationKind(kind, outcome), payload)

	// An approved connection surfaces to the target as well; whether it is an
	// offer to accept or a done deal depends on deployment policy.
	if kind == domain.KindConnection && outcome == domain.StatusApproved {
		if conn, ok := subject.(domain.ConnectionRequest); ok {
			targetKind := "connection_approved"
			if s.requireTargetAccept {
				targetKind = "connection_offer"
			}
			s.notifier.Emit(ctx, conn.TargetID, targetKind, map[string]any{
				"requestID":   conn.RequestID,
				"requesterID": conn.RequesterID,
				"postID":      conn.PostID,
				"message":     conn.Message,
			})
		}
	}

	return nil
}

// ListPending returns the moderation queue for one subject kind, oldest first.
func (s *workflowService) ListPending(ctx context.Context, kind domain.SubjectKind, limit int, nextToken *string) ([]domain.ModeratedSubject, *string, error) {
	return s.subjectRepo.ListPending(ctx, kind, limit, nextToken)
}

func notificationKind(kind domain.SubjectKind, outcome domain.SubjectStatus) string {
	return strings.ToLower(string(kind)) + "_" + strings.ToLower(string(outcome))
}
