package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	"github.com/mvtechguy/islandvault/internal/utils/pagination"
)

// PgxLedgerRepository is the sole writer and reader of financial truth.
// Entries are append-only; the cached balance on coin_accounts is updated in
// the same transaction as every entry insert, never independently.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// appendEntryTx validates and inserts one ledger entry inside tx, with the
// balance check and cache update serialized by a row lock on the coin
// account. Shared with the subject repository so debit+subject and
// decision+refund commit as single units.
func appendEntryTx(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	if entry.Delta == 0 {
		return apperrors.ErrInvalidDelta
	}

	var balance int64
	err := tx.QueryRow(ctx,
		`SELECT balance FROM coin_accounts WHERE account_id = $1 FOR UPDATE`,
		entry.AccountID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("coin account " + entry.AccountID + " not found")
		}
		return apperrors.NewAppError(500, "failed to lock coin account "+entry.AccountID, err)
	}

	if balance+entry.Delta < 0 {
		return apperrors.ErrInsufficientBalance
	}

	insertQuery := `
		INSERT INTO ledger_entries (account_id, delta, reason, reference_kind, reference_id, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING entry_id;
	`
	err = tx.QueryRow(ctx, insertQuery,
		entry.AccountID,
		entry.Delta,
		entry.Reason,
		entry.ReferenceKind,
		entry.ReferenceID,
		entry.Description,
		entry.CreatedAt,
		entry.CreatedBy,
	).Scan(&entry.EntryID)
	if err != nil {
		if isUniqueViolation(err) {
			// The partial unique index on (reference_kind, reference_id, reason)
			// makes a second REFUND for the same subject impossible to commit.
			if entry.Reason == domain.ReasonRefund {
				return fmt.Errorf("%w: duplicate refund for %s %s", apperrors.ErrRefundIntegrity, *entry.ReferenceKind, *entry.ReferenceID)
			}
			return fmt.Errorf("%w: duplicate ledger reference", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert ledger entry for account "+entry.AccountID, err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE coin_accounts SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4 WHERE account_id = $1`,
		entry.AccountID, entry.Delta, entry.CreatedAt, entry.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update cached balance for account "+entry.AccountID, err)
	}

	return nil
}

// AppendEntry appends one entry in its own transaction.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := appendEntryTx(ctx, tx, &entry); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// BalanceOf reads the cached balance for the account.
func (r *PgxLedgerRepository) BalanceOf(ctx context.Context, accountID string) (int64, error) {
	var balance int64
	err := r.Pool.QueryRow(ctx,
		`SELECT balance FROM coin_accounts WHERE account_id = $1`,
		accountID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFoundError("coin account " + accountID + " not found")
		}
		return 0, apperrors.NewAppError(500, "failed to read balance for account "+accountID, err)
	}
	return balance, nil
}

// SumDeltas computes the authoritative balance from the entry log.
func (r *PgxLedgerRepository) SumDeltas(ctx context.Context, accountID string) (int64, error) {
	var sum int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM ledger_entries WHERE account_id = $1`,
		accountID,
	).Scan(&sum)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to sum ledger deltas for account "+accountID, err)
	}
	return sum, nil
}

// ListEntries returns the account's entries newest first with keyset
// pagination on the monotonic entry ID.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT entry_id, account_id, delta, reason, reference_kind, reference_id, description, created_at, created_by
		FROM ledger_entries
		WHERE account_id = $1
	`
	orderByClause := `ORDER BY entry_id DESC`

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastID, decodeErr := pagination.DecodeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query := baseQuery + ` AND entry_id < $2 ` + orderByClause + ` LIMIT $3;`
		rows, err = r.Pool.Query(ctx, query, accountID, lastID, fetchLimit)
	} else {
		query := baseQuery + orderByClause + ` LIMIT $2;`
		rows, err = r.Pool.Query(ctx, query, accountID, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for account "+accountID, err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.AccountID,
			&e.Delta,
			&e.Reason,
			&e.ReferenceKind,
			&e.ReferenceID,
			&e.Description,
			&e.CreatedAt,
			&e.CreatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row for account "+accountID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows for account "+accountID, err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeIDToken(entries[limit-1].EntryID)
		nextTokenVal = &token
	}

	return entries, nextTokenVal, nil
}

// ListAccounts returns every coin account with its cached balance.
func (r *PgxLedgerRepository) ListAccounts(ctx context.Context) ([]domain.CoinAccount, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT account_id, balance, created_at, created_by, last_updated_at, last_updated_by
		FROM coin_accounts
		ORDER BY account_id;
	`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query coin accounts", err)
	}
	defer rows.Close()

	accounts := []domain.CoinAccount{}
	for rows.Next() {
		var a domain.CoinAccount
		if err := rows.Scan(&a.AccountID, &a.Balance, &a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan coin account row", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating coin account rows", err)
	}
	return accounts, nil
}

// CountDuplicateRefunds counts subject references carrying more than one
// REFUND entry. The unique index should make this always zero.
func (r *PgxLedgerRepository) CountDuplicateRefunds(ctx context.Context) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM (
			SELECT reference_kind, reference_id
			FROM ledger_entries
			WHERE reason = 'REFUND' AND reference_id IS NOT NULL
			GROUP BY reference_kind, reference_id
			HAVING COUNT(*) > 1
		) dup;
	`).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count duplicate refunds", err)
	}
	return count, nil
}
