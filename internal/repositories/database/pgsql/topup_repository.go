package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	"github.com/mvtechguy/islandvault/internal/utils/pagination"
)

// PgxTopupRepository reads top-up requests. Writes go through the subject
// repository.
type PgxTopupRepository struct {
	BaseRepository
}

func newPgxTopupRepository(pool *pgxpool.Pool) portsrepo.TopupRepositoryFacade {
	return &PgxTopupRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TopupRepositoryFacade = (*PgxTopupRepository)(nil)

// insertTopupTx inserts the PENDING top-up request row inside tx.
func insertTopupTx(ctx context.Context, tx pgx.Tx, topup domain.TopupRequest) error {
	query := `
		INSERT INTO topup_requests (topup_id, owner_id, coins, paid_amount, paid_currency, bank_slip_ref, status, coin_cost, refund_applied, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		topup.TopupID,
		topup.OwnerID,
		topup.Coins,
		topup.PaidAmount,
		topup.PaidCurrency,
		topup.BankSlipRef,
		topup.Status,
		topup.CoinCost,
		topup.RefundApplied,
		topup.CreatedAt,
		topup.CreatedBy,
		topup.LastUpdatedAt,
		topup.LastUpdatedBy,
	)
	return err
}

const topupColumns = `topup_id, owner_id, coins, paid_amount, paid_currency, bank_slip_ref, status, coin_cost, refund_applied, decided_at, decided_by, admin_note, created_at, created_by, last_updated_at, last_updated_by`

func scanTopup(row pgx.Row) (*domain.TopupRequest, error) {
	var t domain.TopupRequest
	err := row.Scan(
		&t.TopupID,
		&t.OwnerID,
		&t.Coins,
		&t.PaidAmount,
		&t.PaidCurrency,
		&t.BankSlipRef,
		&t.Status,
		&t.CoinCost,
		&t.RefundApplied,
		&t.DecidedAt,
		&t.DecidedBy,
		&t.AdminNote,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindTopupByID retrieves a top-up request by its ID.
func (r *PgxTopupRepository) FindTopupByID(ctx context.Context, topupID string) (*domain.TopupRequest, error) {
	topup, err := scanTopup(r.Pool.QueryRow(ctx,
		`SELECT `+topupColumns+` FROM topup_requests WHERE topup_id = $1;`, topupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find top-up request by ID "+topupID, err)
	}
	return topup, nil
}

// ListTopupsByOwner returns the member's top-up requests, newest first.
func (r *PgxTopupRepository) ListTopupsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.TopupRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + topupColumns + ` FROM topup_requests WHERE owner_id = $1`
	orderByClause := `ORDER BY created_at DESC, topup_id DESC`

	args := []any{ownerID}
	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursor := cursorClause("(created_at, topup_id) <", len(args)+1)
		args = append(args, lastCreatedAt, lastID)
		query := baseQuery + ` AND ` + cursor + ` ` + orderByClause + limitClause(len(args)+1)
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + ` ` + orderByClause + limitClause(len(args)+1)
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query top-up requests for owner "+ownerID, err)
	}
	defer rows.Close()

	topups := make([]domain.TopupRequest, 0, fetchLimit)
	for rows.Next() {
		topup, scanErr := scanTopup(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan top-up request row", scanErr)
		}
		topups = append(topups, *topup)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating top-up request rows", err)
	}

	var nextTokenVal *string
	if len(topups) > limit {
		topups = topups[:limit]
		last := topups[limit-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.TopupID)
		nextTokenVal = &token
	}

	return topups, nextTokenVal, nil
}
