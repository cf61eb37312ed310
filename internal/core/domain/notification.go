package domain

import "time"

// Notification is a user-visible event recorded when a balance or a subject
// status changes. It is written after the financial transaction commits and is
// never a correctness dependency of it.
type Notification struct {
	NotificationID string         `json:"notificationID"`
	AccountID      string         `json:"accountID"`
	Kind           string         `json:"kind"`
	Payload        map[string]any `json:"payload"`
	ReadAt         *time.Time     `json:"readAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Event is the envelope published to the event stream for each notification,
// consumed by the presentation/chat transport.
type Event struct {
	EventID    string         `json:"event_id"`
	AccountID  string         `json:"account_id"`
	Kind       string         `json:"kind"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurred_at"`
}
