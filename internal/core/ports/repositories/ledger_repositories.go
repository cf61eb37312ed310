package repositories

import (
	"context"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// LedgerReader exposes read access to the coin ledger.
type LedgerReader interface {
	// BalanceOf returns the cached balance for the account. The cache is only
	// ever written in the same transaction as an entry insert, so this read
	// is consistent with any append that returned before it.
	BalanceOf(ctx context.Context, accountID string) (int64, error)
	// SumDeltas returns the authoritative SUM of all entry deltas for the
	// account. Used by reconciliation and invariant tests.
	SumDeltas(ctx context.Context, accountID string) (int64, error)
	// ListEntries returns the account's entries newest first using
	// token-based keyset pagination on the monotonic entry ID.
	ListEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	// ListAccounts returns every coin account with its cached balance.
	ListAccounts(ctx context.Context) ([]domain.CoinAccount, error)
	// CountDuplicateRefunds counts subject references carrying more than one
	// REFUND entry. Anything above zero is an integrity fault.
	CountDuplicateRefunds(ctx context.Context) (int, error)
}

// LedgerWriter is the only write path to balance state. Entries are
// append-only; there is no update or delete.
type LedgerWriter interface {
	// AppendEntry validates and inserts one ledger entry and updates the
	// cached balance, all in a single transaction serialized per account.
	// Returns the stored entry with its assigned ID and timestamp.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines ledger read and write access.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
