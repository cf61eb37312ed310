package repositories

import (
	"context"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// UserRepositoryFacade persists member profiles and their coin accounts.
type UserRepositoryFacade interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	// SaveProfile upserts the profile row in PENDING and creates the member's
	// zero-balance coin account on first submission, in one transaction.
	SaveProfile(ctx context.Context, user domain.User) error
}
