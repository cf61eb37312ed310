package dto

import (
	"time"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// NotificationResponse is one user-visible event.
type NotificationResponse struct {
	NotificationID string         `json:"notificationID"`
	Kind           string         `json:"kind"`
	Payload        map[string]any `json:"payload"`
	ReadAt         *time.Time     `json:"readAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// ListNotificationsResponse is a paginated page of notifications.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// ToNotificationResponse maps a domain notification to its response shape.
func ToNotificationResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Kind:           n.Kind,
		Payload:        n.Payload,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
	}
}

// ToNotificationResponseSlice maps a slice of domain notifications.
func ToNotificationResponseSlice(notifications []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		out[i] = ToNotificationResponse(n)
	}
	return out
}
