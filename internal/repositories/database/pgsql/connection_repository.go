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

// PgxConnectionRepository reads connection requests. Writes go through the
// subject repository.
type PgxConnectionRepository struct {
	BaseRepository
}

func newPgxConnectionRepository(pool *pgxpool.Pool) portsrepo.ConnectionRepositoryFacade {
	return &PgxConnectionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ConnectionRepositoryFacade = (*PgxConnectionRepository)(nil)

// insertConnectionTx inserts the PENDING connection request row inside tx.
// The partial unique index on (requester_id, target_id) WHERE status =
// 'PENDING' surfaces duplicate live requests as a unique violation.
func insertConnectionTx(ctx context.Context, tx pgx.Tx, req domain.ConnectionRequest) error {
	query := `
		INSERT INTO connection_requests (request_id, requester_id, target_id, post_id, message, status, coin_cost, refund_applied, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		req.RequestID,
		req.RequesterID,
		req.TargetID,
		req.PostID,
		req.Message,
		req.Status,
		req.CoinCost,
		req.RefundApplied,
		req.CreatedAt,
		req.CreatedBy,
		req.LastUpdatedAt,
		req.LastUpdatedBy,
	)
	return err
}

const connectionColumns = `request_id, requester_id, target_id, post_id, message, status, coin_cost, refund_applied, decided_at, decided_by, admin_note, created_at, created_by, last_updated_at, last_updated_by`

func scanConnection(row pgx.Row) (*domain.ConnectionRequest, error) {
	var c domain.ConnectionRequest
	err := row.Scan(
		&c.RequestID,
		&c.RequesterID,
		&c.TargetID,
		&c.PostID,
		&c.Message,
		&c.Status,
		&c.CoinCost,
		&c.RefundApplied,
		&c.DecidedAt,
		&c.DecidedBy,
		&c.AdminNote,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindConnectionByID retrieves a connection request by its ID.
func (r *PgxConnectionRepository) FindConnectionByID(ctx context.Context, requestID string) (*domain.ConnectionRequest, error) {
	req, err := scanConnection(r.Pool.QueryRow(ctx,
		`SELECT `+connectionColumns+` FROM connection_requests WHERE request_id = $1;`, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find connection request by ID "+requestID, err)
	}
	return req, nil
}

func (r *PgxConnectionRepository) listConnections(ctx context.Context, filterClause string, filterArgs []any, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + connectionColumns + ` FROM connection_requests ` + filterClause
	orderByClause := `ORDER BY created_at DESC, request_id DESC`

	args := filterArgs
	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursor := cursorClause("(created_at, request_id) <", len(args)+1)
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
		return nil, nil, apperrors.NewAppError(500, "failed to query connection requests", err)
	}
	defer rows.Close()

	requests := make([]domain.ConnectionRequest, 0, fetchLimit)
	for rows.Next() {
		req, scanErr := scanConnection(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan connection request row", scanErr)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating connection request rows", err)
	}

	var nextTokenVal *string
	if len(requests) > limit {
		requests = requests[:limit]
		last := requests[limit-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.RequestID)
		nextTokenVal = &token
	}

	return requests, nextTokenVal, nil
}

// ListConnectionsByRequester returns the member's sent requests, newest first.
func (r *PgxConnectionRepository) ListConnectionsByRequester(ctx context.Context, requesterID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error) {
	return r.listConnections(ctx, `WHERE requester_id = $1`, []any{requesterID}, limit, nextToken)
}

// ListApprovedConnectionsByTarget returns approved incoming requests visible
// to the target member.
func (r *PgxConnectionRepository) ListApprovedConnectionsByTarget(ctx context.Context, targetID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error) {
	return r.listConnections(ctx, `WHERE target_id = $1 AND status = 'APPROVED'`, []any{targetID}, limit, nextToken)
}
