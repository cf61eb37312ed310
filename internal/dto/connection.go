package dto

import (
	"time"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// CreateConnectionRequest asks for an introduction to a member, either
// directly or via one of their posts.
type CreateConnectionRequest struct {
	TargetID string  `json:"targetID" binding:"required_without=PostID,omitempty,uuid"`
	PostID   *string `json:"postID" binding:"omitempty,uuid"`
	Message  string  `json:"message" binding:"max=1000"`
}

// ConnectionResponse is a connection request as seen by its requester or,
// once approved, by its target.
type ConnectionResponse struct {
	RequestID   string    `json:"requestID"`
	RequesterID string    `json:"requesterID"`
	TargetID    string    `json:"targetID"`
	PostID      *string   `json:"postID,omitempty"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CoinCost    int64     `json:"coinCost"`
	AdminNote   *string   `json:"adminNote,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListConnectionsResponse is a paginated page of connection requests.
type ListConnectionsResponse struct {
	Connections []ConnectionResponse `json:"connections"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// ToConnectionResponse maps a domain connection request to its response shape.
func ToConnectionResponse(req domain.ConnectionRequest) ConnectionResponse {
	return ConnectionResponse{
		RequestID:   req.RequestID,
		RequesterID: req.RequesterID,
		TargetID:    req.TargetID,
		PostID:      req.PostID,
		Message:     req.Message,
		Status:      string(req.Status),
		CoinCost:    req.CoinCost,
		AdminNote:   req.AdminNote,
		CreatedAt:   req.CreatedAt,
	}
}

// ToConnectionResponseSlice maps a slice of domain connection requests.
func ToConnectionResponseSlice(reqs []domain.ConnectionRequest) []ConnectionResponse {
	out := make([]ConnectionResponse, len(reqs))
	for i, r := range reqs {
		out[i] = ToConnectionResponse(r)
	}
	return out
}
