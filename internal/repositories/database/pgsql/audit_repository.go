package pgsql

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	"github.com/mvtechguy/islandvault/internal/utils/pagination"
)

// PgxAuditRepository persists administrative action records.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// CreateAuditRecord inserts one audit row.
func (r *PgxAuditRepository) CreateAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	meta, err := json.Marshal(record.Meta)
	if err != nil {
		return apperrors.NewAppError(500, "failed to marshal audit meta", err)
	}

	query := `
		INSERT INTO audit_records (audit_id, admin_id, action, entity, entity_id, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = r.Pool.Exec(ctx, query,
		record.AuditID,
		record.AdminID,
		record.Action,
		record.Entity,
		record.EntityID,
		meta,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit record for "+record.Entity+" "+record.EntityID, err)
	}
	return nil
}

// ListAuditRecords returns the audit trail, newest first.
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT audit_id, admin_id, action, entity, entity_id, meta, created_at
		FROM audit_records
	`
	orderByClause := `ORDER BY created_at DESC, audit_id DESC`

	var args []any
	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursor := cursorClause("(created_at, audit_id) <", 1)
		args = append(args, lastCreatedAt, lastID)
		query := baseQuery + ` WHERE ` + cursor + ` ` + orderByClause + limitClause(len(args)+1)
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + ` ` + orderByClause + limitClause(1)
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query audit records", err)
	}
	defer rows.Close()

	records := make([]domain.AuditRecord, 0, fetchLimit)
	for rows.Next() {
		var rec domain.AuditRecord
		var meta []byte
		if err := rows.Scan(&rec.AuditID, &rec.AdminID, &rec.Action, &rec.Entity, &rec.EntityID, &meta, &rec.CreatedAt); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan audit record row", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &rec.Meta); err != nil {
				return nil, nil, apperrors.NewAppError(500, "failed to unmarshal audit meta", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating audit record rows", err)
	}

	var nextTokenVal *string
	if len(records) > limit {
		records = records[:limit]
		last := records[limit-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.AuditID)
		nextTokenVal = &token
	}

	return records, nextTokenVal, nil
}
