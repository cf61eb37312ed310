package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/dto"
)

type postService struct {
	gate     portssvc.GateSvc
	postRepo portsrepo.PostRepositoryFacade
	notifier portssvc.NotificationSvcFacade
	costPost int64
}

// NewPostService creates the post service. costPost is the configured coin
// price of publishing one post.
func NewPostService(gate portssvc.GateSvc, postRepo portsrepo.PostRepositoryFacade, notifier portssvc.NotificationSvcFacade, costPost int64) portssvc.PostSvcFacade {
	return &postService{
		gate:     gate,
		postRepo: postRepo,
		notifier: notifier,
		costPost: costPost,
	}
}

var _ portssvc.PostSvcFacade = (*postService)(nil)

// CreatePost charges the owner and stores the post in PENDING, atomically.
func (s *postService) CreatePost(ctx context.Context, ownerID string, req dto.CreatePostRequest) (*domain.Post, error) {
	now := time.Now().UTC()
	post := domain.Post{
		PostID:  uuid.NewString(),
		OwnerID: ownerID,
		Title:   req.Title,
		Body:    req.Body,
		Moderation: domain.Moderation{
			Status:   domain.StatusPending,
			CoinCost: s.costPost,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.gate.Attempt(ctx, post, s.costPost); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, ownerID, "post_pending", map[string]any{
		"postID":   post.PostID,
		"title":    post.Title,
		"coinCost": s.costPost,
	})
	return &post, nil
}

func (s *postService) ListMyPosts(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Post, *string, error) {
	return s.postRepo.ListPostsByOwner(ctx, ownerID, limit, nextToken)
}

func (s *postService) ListApprovedPosts(ctx context.Context, limit int, nextToken *string) ([]domain.Post, *string, error) {
	return s.postRepo.ListApprovedPosts(ctx, limit, nextToken)
}
