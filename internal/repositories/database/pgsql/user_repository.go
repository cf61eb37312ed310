package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
)

// PgxUserRepository persists member profiles and their coin accounts.
type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// FindUserByID retrieves a member profile by its ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, full_name, mobile, island, date_of_birth, gender, bio, role,
		       status, coin_cost, refund_applied, decided_at, decided_by, admin_note,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM users
		WHERE user_id = $1;
	`
	var u domain.User
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&u.UserID,
		&u.FullName,
		&u.Mobile,
		&u.Island,
		&u.DateOfBirth,
		&u.Gender,
		&u.Bio,
		&u.Role,
		&u.Status,
		&u.CoinCost,
		&u.RefundApplied,
		&u.DecidedAt,
		&u.DecidedBy,
		&u.AdminNote,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.LastUpdatedAt,
		&u.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user by ID "+userID, err)
	}
	return &u, nil
}

// SaveProfile upserts the profile row in PENDING and creates the member's
// zero-balance coin account on first submission, in one transaction.
// Resubmission clears any previous decision, which is how a rejected profile
// re-enters the moderation queue.
func (r *PgxUserRepository) SaveProfile(ctx context.Context, user domain.User) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	profileQuery := `
		INSERT INTO users (user_id, full_name, mobile, island, date_of_birth, gender, bio, role, status, coin_cost, refund_applied, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, FALSE, $10, $11, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			mobile = EXCLUDED.mobile,
			island = EXCLUDED.island,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			bio = EXCLUDED.bio,
			status = EXCLUDED.status,
			decided_at = NULL,
			decided_by = NULL,
			admin_note = NULL,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = tx.Exec(ctx, profileQuery,
		user.UserID,
		user.FullName,
		user.Mobile,
		user.Island,
		user.DateOfBirth,
		user.Gender,
		user.Bio,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert profile for user "+user.UserID, err)
	}

	accountQuery := `
		INSERT INTO coin_accounts (account_id, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, 0, $2, $3, $2, $3)
		ON CONFLICT (account_id) DO NOTHING;
	`
	_, err = tx.Exec(ctx, accountQuery, user.UserID, user.CreatedAt, user.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to create coin account for user "+user.UserID, err)
	}

	return r.Commit(ctx, tx)
}
