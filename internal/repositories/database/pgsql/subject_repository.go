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

// subjectTable maps a subject kind to its table and key columns. Every table
// in the map carries the same moderation column set (status, coin_cost,
// refund_applied, decided_at, decided_by, admin_note), which is what lets one
// state machine drive all four variants.
type subjectTable struct {
	name     string
	idCol    string
	ownerCol string
}

var subjectTables = map[domain.SubjectKind]subjectTable{
	domain.KindUserProfile: {name: "users", idCol: "user_id", ownerCol: "user_id"},
	domain.KindPost:        {name: "posts", idCol: "post_id", ownerCol: "owner_id"},
	domain.KindConnection:  {name: "connection_requests", idCol: "request_id", ownerCol: "requester_id"},
	domain.KindTopup:       {name: "topup_requests", idCol: "topup_id", ownerCol: "owner_id"},
}

// PgxSubjectRepository implements creation and moderation transitions for all
// subject variants. Coin-moving operations share a transaction with their
// ledger entry via appendEntryTx.
type PgxSubjectRepository struct {
	BaseRepository
	users       portsrepo.UserRepositoryFacade
	posts       portsrepo.PostRepositoryFacade
	connections portsrepo.ConnectionRepositoryFacade
	topups      portsrepo.TopupRepositoryFacade
}

func newPgxSubjectRepository(
	pool *pgxpool.Pool,
	users portsrepo.UserRepositoryFacade,
	posts portsrepo.PostRepositoryFacade,
	connections portsrepo.ConnectionRepositoryFacade,
	topups portsrepo.TopupRepositoryFacade,
) portsrepo.SubjectRepositoryFacade {
	return &PgxSubjectRepository{
		BaseRepository: BaseRepository{Pool: pool},
		users:          users,
		posts:          posts,
		connections:    connections,
		topups:         topups,
	}
}

var _ portsrepo.SubjectRepositoryFacade = (*PgxSubjectRepository)(nil)

// FindSubject returns the full subject of the given kind.
func (r *PgxSubjectRepository) FindSubject(ctx context.Context, kind domain.SubjectKind, subjectID string) (domain.ModeratedSubject, error) {
	switch kind {
	case domain.KindUserProfile:
		user, err := r.users.FindUserByID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		return *user, nil
	case domain.KindPost:
		post, err := r.posts.FindPostByID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		return *post, nil
	case domain.KindConnection:
		req, err := r.connections.FindConnectionByID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		return *req, nil
	case domain.KindTopup:
		topup, err := r.topups.FindTopupByID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		return *topup, nil
	default:
		return nil, fmt.Errorf("%w: unknown subject kind %q", apperrors.ErrValidation, kind)
	}
}

// CreateSubjectWithDebit inserts the pending subject and, when debit is
// non-nil, appends the debit entry in the same transaction.
func (r *PgxSubjectRepository) CreateSubjectWithDebit(ctx context.Context, subject domain.ModeratedSubject, debit *domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if debit != nil {
		if err := appendEntryTx(ctx, tx, debit); err != nil {
			return err
		}
	}

	switch s := subject.(type) {
	case domain.Post:
		err = insertPostTx(ctx, tx, s)
	case domain.ConnectionRequest:
		err = insertConnectionTx(ctx, tx, s)
	case domain.TopupRequest:
		err = insertTopupTx(ctx, tx, s)
	default:
		return fmt.Errorf("%w: unsupported subject type %T", apperrors.ErrValidation, subject)
	}
	if err != nil {
		if isUniqueViolation(err) {
			// Rolls back the debit with it.
			return fmt.Errorf("%w: duplicate %s", apperrors.ErrDomainEffect, subject.SubjectKind())
		}
		return apperrors.NewAppError(500, "failed to insert "+string(subject.SubjectKind())+" "+subject.SubjectID(), err)
	}

	return r.Commit(ctx, tx)
}

// DecideSubject locks the subject row, validates the transition under the
// lock and applies the status change plus any ledger entry atomically.
func (r *PgxSubjectRepository) DecideSubject(ctx context.Context, kind domain.SubjectKind, subjectID string, decision portsrepo.SubjectDecision) error {
	st, ok := subjectTables[kind]
	if !ok {
		return fmt.Errorf("%w: unknown subject kind %q", apperrors.ErrValidation, kind)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status domain.SubjectStatus
	var refundApplied bool
	err = tx.QueryRow(ctx,
		`SELECT status, refund_applied FROM `+st.name+` WHERE `+st.idCol+` = $1 FOR UPDATE`,
		subjectID,
	).Scan(&status, &refundApplied)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError(string(kind) + " " + subjectID + " not found")
		}
		return apperrors.NewAppError(500, "failed to lock "+string(kind)+" "+subjectID, err)
	}

	// Re-validate under the lock; a concurrent decision loses here.
	switch {
	case kind == domain.KindUserProfile:
		// A profile may additionally go APPROVED -> REJECTED. REJECTED is
		// only left via owner resubmission, never via decide.
		if status != domain.StatusPending && !(status == domain.StatusApproved && decision.Outcome == domain.StatusRejected) {
			return apperrors.ErrAlreadyDecided
		}
	case status != domain.StatusPending:
		return apperrors.ErrAlreadyDecided
	}

	_, err = tx.Exec(ctx,
		`UPDATE `+st.name+` SET status = $2, decided_at = $3, decided_by = $4, admin_note = $5, last_updated_at = $3, last_updated_by = $4 WHERE `+st.idCol+` = $1`,
		subjectID, decision.Outcome, decision.DecidedAt, decision.DecidedBy, decision.Note,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of "+string(kind)+" "+subjectID, err)
	}

	if decision.MarkRefund {
		// One-shot guard: the refund entry only ever commits together with
		// the false->true flip of refund_applied.
		cmdTag, err := tx.Exec(ctx,
			`UPDATE `+st.name+` SET refund_applied = TRUE WHERE `+st.idCol+` = $1 AND refund_applied = FALSE`,
			subjectID,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to set refund guard on "+string(kind)+" "+subjectID, err)
		}
		if cmdTag.RowsAffected() != 1 {
			return fmt.Errorf("%w: refund guard already set for %s %s", apperrors.ErrRefundIntegrity, kind, subjectID)
		}
	}

	if decision.Entry != nil {
		if err := appendEntryTx(ctx, tx, decision.Entry); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// CancelConnection withdraws a PENDING connection request on behalf of its
// requester, refunding atomically when the decision carries an entry.
func (r *PgxSubjectRepository) CancelConnection(ctx context.Context, requestID, requesterID string, decision portsrepo.SubjectDecision) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var ownerID string
	var status domain.SubjectStatus
	err = tx.QueryRow(ctx,
		`SELECT requester_id, status FROM connection_requests WHERE request_id = $1 FOR UPDATE`,
		requestID,
	).Scan(&ownerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("connection request " + requestID + " not found")
		}
		return apperrors.NewAppError(500, "failed to lock connection request "+requestID, err)
	}

	if ownerID != requesterID {
		return apperrors.ErrNotOwner
	}
	if status != domain.StatusPending {
		return apperrors.ErrAlreadyDecided
	}

	_, err = tx.Exec(ctx,
		`UPDATE connection_requests SET status = $2, decided_at = $3, decided_by = $4, admin_note = $5, last_updated_at = $3, last_updated_by = $4 WHERE request_id = $1`,
		requestID, domain.StatusCancelled, decision.DecidedAt, decision.DecidedBy, decision.Note,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to cancel connection request "+requestID, err)
	}

	if decision.MarkRefund {
		cmdTag, err := tx.Exec(ctx,
			`UPDATE connection_requests SET refund_applied = TRUE WHERE request_id = $1 AND refund_applied = FALSE`,
			requestID,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to set refund guard on connection request "+requestID, err)
		}
		if cmdTag.RowsAffected() != 1 {
			return fmt.Errorf("%w: refund guard already set for connection request %s", apperrors.ErrRefundIntegrity, requestID)
		}
	}

	if decision.Entry != nil {
		if err := appendEntryTx(ctx, tx, decision.Entry); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// ListPending returns the moderation queue for one subject kind, oldest
// first, with keyset pagination on (created_at, id).
func (r *PgxSubjectRepository) ListPending(ctx context.Context, kind domain.SubjectKind, limit int, nextToken *string) ([]domain.ModeratedSubject, *string, error) {
	st, ok := subjectTables[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown subject kind %q", apperrors.ErrValidation, kind)
	}

	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + st.idCol + `, ` + st.ownerCol + `, status, coin_cost, refund_applied, created_at
		FROM ` + st.name + `
		WHERE status = 'PENDING'
	`
	orderByClause := `ORDER BY created_at ASC, ` + st.idCol + ` ASC`

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query := baseQuery + ` AND (created_at, ` + st.idCol + `) > ($1, $2) ` + orderByClause + ` LIMIT $3;`
		rows, err = r.Pool.Query(ctx, query, lastCreatedAt, lastID, fetchLimit)
	} else {
		query := baseQuery + orderByClause + ` LIMIT $1;`
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query pending "+string(kind)+" subjects", err)
	}
	defer rows.Close()

	type pendingRow struct {
		id        string
		ownerID   string
		mod       domain.Moderation
		createdAt domain.AuditFields
	}
	pending := make([]pendingRow, 0, fetchLimit)
	for rows.Next() {
		var p pendingRow
		if err := rows.Scan(&p.id, &p.ownerID, &p.mod.Status, &p.mod.CoinCost, &p.mod.RefundApplied, &p.createdAt.CreatedAt); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan pending "+string(kind)+" row", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating pending "+string(kind)+" rows", err)
	}

	var nextTokenVal *string
	if len(pending) > limit {
		pending = pending[:limit]
		last := pending[limit-1]
		token := pagination.EncodeTimeIDToken(last.createdAt.CreatedAt, last.id)
		nextTokenVal = &token
	}

	subjects := make([]domain.ModeratedSubject, len(pending))
	for i, p := range pending {
		switch kind {
		case domain.KindUserProfile:
			subjects[i] = domain.User{UserID: p.id, Moderation: p.mod, AuditFields: p.createdAt}
		case domain.KindPost:
			subjects[i] = domain.Post{PostID: p.id, OwnerID: p.ownerID, Moderation: p.mod, AuditFields: p.createdAt}
		case domain.KindConnection:
			subjects[i] = domain.ConnectionRequest{RequestID: p.id, RequesterID: p.ownerID, Moderation: p.mod, AuditFields: p.createdAt}
		case domain.KindTopup:
			subjects[i] = domain.TopupRequest{TopupID: p.id, OwnerID: p.ownerID, Moderation: p.mod, AuditFields: p.createdAt}
		}
	}

	return subjects, nextTokenVal, nil
}
