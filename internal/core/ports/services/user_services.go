package services

import (
	"context"

	"github.com/mvtechguy/islandvault/internal/core/domain"
	"github.com/mvtechguy/islandvault/internal/dto"
)

// UserSvcFacade manages member profiles.
type UserSvcFacade interface {
	// SubmitProfile creates the caller's profile in PENDING (with a
	// zero-balance coin account) or resubmits an existing one. Resubmission
	// is the only transition out of a terminal moderation state.
	SubmitProfile(ctx context.Context, userID string, req dto.SubmitProfileRequest) (*domain.User, error)
	// GetProfile returns the profile together with the coin balance.
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}
