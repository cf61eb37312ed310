package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/dto"
	"github.com/mvtechguy/islandvault/internal/metrics"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

type connectionService struct {
	gate           portssvc.GateSvc
	connectionRepo portsrepo.ConnectionRepositoryFacade
	subjectRepo    portsrepo.SubjectRepositoryFacade
	postRepo       portsrepo.PostRepositoryFacade
	userRepo       portsrepo.UserRepositoryFacade
	refunds        RefundPolicy
	notifier       portssvc.NotificationSvcFacade
	audit          portssvc.AuditSvcFacade
	costConnect    int64
}

// NewConnectionService creates the connection request service.
func NewConnectionService(
	gate portssvc.GateSvc,
	connectionRepo portsrepo.ConnectionRepositoryFacade,
	subjectRepo portsrepo.SubjectRepositoryFacade,
	postRepo portsrepo.PostRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	refunds RefundPolicy,
	notifier portssvc.NotificationSvcFacade,
	audit portssvc.AuditSvcFacade,
	costConnect int64,
) portssvc.ConnectionSvcFacade {
	return &connectionService{
		gate:           gate,
		connectionRepo: connectionRepo,
		subjectRepo:    subjectRepo,
		postRepo:       postRepo,
		userRepo:       userRepo,
		refunds:        refunds,
		notifier:       notifier,
		audit:          audit,
		costConnect:    costConnect,
	}
}

var _ portssvc.ConnectionSvcFacade = (*connectionService)(nil)

// resolveTarget turns the request into a concrete target member. When a post
// is referenced, its owner is the target and the post must be publicly
// visible.
func (s *connectionService) resolveTarget(ctx context.Context, req dto.CreateConnectionRequest) (string, error) {
	if req.PostID != nil {
		post, err := s.postRepo.FindPostByID(ctx, *req.PostID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return "", fmt.Errorf("%w: post %s not found", apperrors.ErrInvalidTarget, *req.PostID)
			}
			return "", err
		}
		if post.Status != domain.StatusApproved {
			return "", fmt.Errorf("%w: post %s is not publicly visible", apperrors.ErrInvalidTarget, *req.PostID)
		}
		return post.OwnerID, nil
	}
	return req.TargetID, nil
}

// CreateConnection validates the target, then charges the requester and
// stores the PENDING request atomically.
func (s *connectionService) CreateConnection(ctx context.Context, requesterID string, req dto.CreateConnectionRequest) (*domain.ConnectionRequest, error) {
	targetID, err := s.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}
	if targetID == requesterID {
		return nil, fmt.Errorf("%w: cannot request a connection to yourself", apperrors.ErrInvalidTarget)
	}

	target, err := s.userRepo.FindUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: member %s not found", apperrors.ErrInvalidTarget, targetID)
		}
		return nil, err
	}
	if target.Status != domain.StatusApproved {
		return nil, fmt.Errorf("%w: member %s is not an approved profile", apperrors.ErrInvalidTarget, targetID)
	}

	now := time.Now().UTC()
	conn := domain.ConnectionRequest{
		RequestID:   uuid.NewString(),
		RequesterID: requesterID,
		TargetID:    targetID,
		PostID:      req.PostID,
		Message:     req.Message,
		Moderation: domain.Moderation{
			Status:   domain.StatusPending,
			CoinCost: s.costConnect,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterID,
		},
	}

	if err := s.gate.Attempt(ctx, conn, s.costConnect); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, requesterID, "connection_pending", map[string]any{
		"requestID": conn.RequestID,
		"targetID":  targetID,
		"coinCost":  s.costConnect,
	})
	return &conn, nil
}

// CancelConnection withdraws a PENDING request on behalf of its requester,
// refunding under the same policy as rejection.
func (s *connectionService) CancelConnection(ctx context.Context, requestID, requesterID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	conn, err := s.connectionRepo.FindConnectionByID(ctx, requestID)
	if err != nil {
		return err
	}
	if conn.RequesterID != requesterID {
		return apperrors.ErrNotOwner
	}
	if conn.Status.IsTerminal() {
		return apperrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	decision := portsrepo.SubjectDecision{
		Outcome:   domain.StatusCancelled,
		DecidedBy: requesterID,
		DecidedAt: now,
	}
	refunded := false
	if entry := s.refunds.Entry(*conn, requesterID, now); entry != nil {
		decision.Entry = entry
		decision.MarkRefund = true
		refunded = true
	}

	if err := s.subjectRepo.CancelConnection(ctx, requestID, requesterID, decision); err != nil {
		if errors.Is(err, apperrors.ErrRefundIntegrity) {
			logger.Error("Refund guard violated while cancelling connection",
				slog.Bool("integrity", true),
				slog.String("request_id", requestID))
			metrics.RecordIntegrityFault("refund_guard")
		}
		return err
	}

	metrics.RecordDecision(string(domain.KindConnection), string(domain.StatusCancelled))
	if refunded {
		metrics.RecordLedgerEntry(string(domain.ReasonRefund))
	}
	logger.Info("Connection request cancelled",
		slog.String("request_id", requestID),
		slog.String("requester_id", requesterID),
		slog.Bool("refunded", refunded))

	s.audit.Record(ctx, requesterID, "CANCEL", string(domain.KindConnection), requestID, map[string]any{
		"refunded": refunded,
	})
	s.notifier.Emit(ctx, requesterID, "connection_cancelled", map[string]any{
		"requestID": requestID,
		"refunded":  refunded,
	})
	return nil
}

func (s *connectionService) ListSent(ctx context.Context, requesterID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error) {
	return s.connectionRepo.ListConnectionsByRequester(ctx, requesterID, limit, nextToken)
}

func (s *connectionService) ListIncoming(ctx context.Context, targetID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error) {
	return s.connectionRepo.ListApprovedConnectionsByTarget(ctx, targetID, limit, nextToken)
}
