package services

import (
	"context"
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

type coinService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	notifier   portssvc.NotificationSvcFacade
	audit      portssvc.AuditSvcFacade
}

// NewCoinService creates the coin balance/history/adjustment service.
func NewCoinService(ledgerRepo portsrepo.LedgerRepositoryFacade, notifier portssvc.NotificationSvcFacade, audit portssvc.AuditSvcFacade) portssvc.CoinSvcFacade {
	return &coinService{
		ledgerRepo: ledgerRepo,
		notifier:   notifier,
		audit:      audit,
	}
}

var _ portssvc.CoinSvcFacade = (*coinService)(nil)

func (s *coinService) BalanceOf(ctx context.Context, accountID string) (int64, error) {
	return s.ledgerRepo.BalanceOf(ctx, accountID)
}

func (s *coinService) History(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	return s.ledgerRepo.ListEntries(ctx, accountID, limit, nextToken)
}

// Adjust appends a manual ADJUST entry on behalf of an admin.
func (s *coinService) Adjust(ctx context.Context, adminID, accountID string, delta int64, description string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if delta == 0 {
		return nil, fmt.Errorf("%w: adjustment delta must not be zero", apperrors.ErrInvalidDelta)
	}
	if description == "" {
		description = "manual adjustment"
	}

	stored, err := s.ledgerRepo.AppendEntry(ctx, domain.LedgerEntry{
		AccountID:   accountID,
		Delta:       delta,
		Reason:      domain.ReasonAdjust,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   adminID,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordLedgerEntry(string(domain.ReasonAdjust))
	logger.Info("Manual adjustment applied",
		slog.String("account_id", accountID),
		slog.Int64("delta", delta),
		slog.String("admin_id", adminID))

	s.audit.Record(ctx, adminID, "ADJUST", "COIN_ACCOUNT", accountID, map[string]any{
		"delta":       delta,
		"description": description,
		"entryID":     stored.EntryID,
	})
	s.notifier.Emit(ctx, accountID, "coins_adjusted", map[string]any{
		"delta":       delta,
		"description": description,
	})

	return stored, nil
}
