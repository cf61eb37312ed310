package services

import (
	"context"

	"github.com/mvtechguy/islandvault/internal/core/domain"
	"github.com/mvtechguy/islandvault/internal/dto"
)

// PostSvcFacade manages partner-seeking posts.
type PostSvcFacade interface {
	// CreatePost runs the coin gate: the post debit and the PENDING post row
	// commit together or not at all.
	CreatePost(ctx context.Context, ownerID string, req dto.CreatePostRequest) (*domain.Post, error)
	ListMyPosts(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Post, *string, error)
	// ListApprovedPosts is the public catalog: APPROVED posts only, newest first.
	ListApprovedPosts(ctx context.Context, limit int, nextToken *string) ([]domain.Post, *string, error)
}

// ConnectionSvcFacade manages connection requests.
type ConnectionSvcFacade interface {
	CreateConnection(ctx context.Context, requesterID string, req dto.CreateConnectionRequest) (*domain.ConnectionRequest, error)
	// CancelConnection withdraws a PENDING request; only its requester may do
	// so, and any coins spent are refunded under the same policy as rejection.
	CancelConnection(ctx context.Context, requestID, requesterID string) error
	ListSent(ctx context.Context, requesterID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error)
	ListIncoming(ctx context.Context, targetID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error)
}

// TopupSvcFacade manages coin top-up requests.
type TopupSvcFacade interface {
	RequestTopup(ctx context.Context, ownerID string, req dto.CreateTopupRequest) (*domain.TopupRequest, error)
	ListMyTopups(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.TopupRequest, *string, error)
}
