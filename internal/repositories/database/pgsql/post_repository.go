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

// PgxPostRepository reads posts. Writes go through the subject repository so
// creation shares a transaction with its debit.
type PgxPostRepository struct {
	BaseRepository
}

func newPgxPostRepository(pool *pgxpool.Pool) portsrepo.PostRepositoryFacade {
	return &PgxPostRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PostRepositoryFacade = (*PgxPostRepository)(nil)

// insertPostTx inserts the PENDING post row inside tx.
func insertPostTx(ctx context.Context, tx pgx.Tx, post domain.Post) error {
	query := `
		INSERT INTO posts (post_id, owner_id, title, body, status, coin_cost, refund_applied, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		post.PostID,
		post.OwnerID,
		post.Title,
		post.Body,
		post.Status,
		post.CoinCost,
		post.RefundApplied,
		post.CreatedAt,
		post.CreatedBy,
		post.LastUpdatedAt,
		post.LastUpdatedBy,
	)
	return err
}

const postColumns = `post_id, owner_id, title, body, status, coin_cost, refund_applied, decided_at, decided_by, admin_note, created_at, created_by, last_updated_at, last_updated_by`

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(
		&p.PostID,
		&p.OwnerID,
		&p.Title,
		&p.Body,
		&p.Status,
		&p.CoinCost,
		&p.RefundApplied,
		&p.DecidedAt,
		&p.DecidedBy,
		&p.AdminNote,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPostByID retrieves a post by its ID.
func (r *PgxPostRepository) FindPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := scanPost(r.Pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE post_id = $1;`, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find post by ID "+postID, err)
	}
	return post, nil
}

func (r *PgxPostRepository) listPosts(ctx context.Context, filterClause string, filterArgs []any, limit int, nextToken *string) ([]domain.Post, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + postColumns + ` FROM posts ` + filterClause
	orderByClause := `ORDER BY created_at DESC, post_id DESC`

	args := filterArgs
	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursor := cursorClause("(created_at, post_id) <", len(args)+1)
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
		return nil, nil, apperrors.NewAppError(500, "failed to query posts", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0, fetchLimit)
	for rows.Next() {
		post, scanErr := scanPost(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan post row", scanErr)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating post rows", err)
	}

	var nextTokenVal *string
	if len(posts) > limit {
		posts = posts[:limit]
		last := posts[limit-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.PostID)
		nextTokenVal = &token
	}

	return posts, nextTokenVal, nil
}

// ListPostsByOwner returns the owner's posts with status, newest first.
func (r *PgxPostRepository) ListPostsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Post, *string, error) {
	return r.listPosts(ctx, `WHERE owner_id = $1`, []any{ownerID}, limit, nextToken)
}

// ListApprovedPosts returns publicly visible posts, newest first.
func (r *PgxPostRepository) ListApprovedPosts(ctx context.Context, limit int, nextToken *string) ([]domain.Post, *string, error) {
	return r.listPosts(ctx, `WHERE status = 'APPROVED'`, nil, limit, nextToken)
}
