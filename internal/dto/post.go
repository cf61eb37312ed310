package dto

import (
	"time"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// CreatePostRequest publishes a partner-seeking post (coin-gated).
type CreatePostRequest struct {
	Title string `json:"title" binding:"required,min=3,max=200"`
	Body  string `json:"body" binding:"required,max=5000"`
}

// PostResponse is a post as seen by its owner (public listings omit
// moderation detail beyond the status filter).
type PostResponse struct {
	PostID    string    `json:"postID"`
	OwnerID   string    `json:"ownerID"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CoinCost  int64     `json:"coinCost"`
	AdminNote *string   `json:"adminNote,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListPostsResponse is a paginated page of posts.
type ListPostsResponse struct {
	Posts     []PostResponse `json:"posts"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToPostResponse maps a domain post to its response shape.
func ToPostResponse(post domain.Post) PostResponse {
	return PostResponse{
		PostID:    post.PostID,
		OwnerID:   post.OwnerID,
		Title:     post.Title,
		Body:      post.Body,
		Status:    string(post.Status),
		CoinCost:  post.CoinCost,
		AdminNote: post.AdminNote,
		CreatedAt: post.CreatedAt,
	}
}

// ToPostResponseSlice maps a slice of domain posts.
func ToPostResponseSlice(posts []domain.Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = ToPostResponse(p)
	}
	return out
}
