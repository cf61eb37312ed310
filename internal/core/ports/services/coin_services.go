package services

import (
	"context"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// CoinSvcFacade is the query and admin-adjustment surface of the ledger.
type CoinSvcFacade interface {
	BalanceOf(ctx context.Context, accountID string) (int64, error)
	History(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	// Adjust appends a manual ADJUST entry on behalf of an admin. The balance
	// floor still applies: a negative adjustment below the current balance
	// fails with ErrInsufficientBalance.
	Adjust(ctx context.Context, adminID, accountID string, delta int64, description string) (*domain.LedgerEntry, error)
}

// GateSvc is the single entry point for coin-consuming user actions: it
// checks eligibility and balance, then commits the debit and the pending
// subject as one atomic unit.
type GateSvc interface {
	Attempt(ctx context.Context, subject domain.ModeratedSubject, cost int64) error
}
