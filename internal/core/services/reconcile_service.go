package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/metrics"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

// reconcileService sweeps the ledger for invariant violations: cached
// balances that drifted from the entry log, negative balances, and subject
// references carrying more than one refund. Any finding is an integrity
// fault; the sweep never mutates anything.
type reconcileService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewReconcileService creates the reconciliation service.
func NewReconcileService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.ReconcileSvcFacade {
	return &reconcileService{ledgerRepo: ledgerRepo}
}

var _ portssvc.ReconcileSvcFacade = (*reconcileService)(nil)

// Run checks every account and returns a summary report.
func (s *reconcileService) Run(ctx context.Context) (*portssvc.ReconcileReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.ledgerRepo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &portssvc.ReconcileReport{}
	for _, account := range accounts {
		report.AccountsChecked++

		sum, err := s.ledgerRepo.SumDeltas(ctx, account.AccountID)
		if err != nil {
			return nil, err
		}
		if sum != account.Balance {
			report.BalanceMismatches++
			fault := fmt.Sprintf("account %s: cached balance %d != entry sum %d", account.AccountID, account.Balance, sum)
			report.Faults = append(report.Faults, fault)
			logger.Error("Cached balance drifted from entry log",
				slog.Bool("integrity", true),
				slog.String("account_id", account.AccountID),
				slog.Int64("cached_balance", account.Balance),
				slog.Int64("entry_sum", sum))
			metrics.RecordIntegrityFault("balance_mismatch")
		}
		if account.Balance < 0 {
			report.NegativeBalances++
			fault := fmt.Sprintf("account %s: negative balance %d", account.AccountID, account.Balance)
			report.Faults = append(report.Faults, fault)
			logger.Error("Negative account balance",
				slog.Bool("integrity", true),
				slog.String("account_id", account.AccountID),
				slog.Int64("balance", account.Balance))
			metrics.RecordIntegrityFault("negative_balance")
		}
	}

	duplicates, err := s.ledgerRepo.CountDuplicateRefunds(ctx)
	if err != nil {
		return nil, err
	}
	if duplicates > 0 {
		report.DuplicateRefunds = duplicates
		fault := fmt.Sprintf("%d subject references carry more than one refund entry", duplicates)
		report.Faults = append(report.Faults, fault)
		logger.Error("Duplicate refund entries found",
			slog.Bool("integrity", true),
			slog.Int("count", duplicates))
		metrics.RecordIntegrityFault("duplicate_refund")
	}

	logger.Info("Reconciliation sweep finished",
		slog.Int("accounts_checked", report.AccountsChecked),
		slog.Int("balance_mismatches", report.BalanceMismatches),
		slog.Int("negative_balances", report.NegativeBalances),
		slog.Int("duplicate_refunds", report.DuplicateRefunds))
	return report, nil
}
