package repositories

import (
	"context"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// NotificationRepositoryFacade persists user-visible events.
type NotificationRepositoryFacade interface {
	CreateNotification(ctx context.Context, notification domain.Notification) error
	ListNotifications(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Notification, *string, error)
	MarkNotificationRead(ctx context.Context, accountID, notificationID string) error
}

// AuditRepositoryFacade persists administrative action records.
type AuditRepositoryFacade interface {
	CreateAuditRecord(ctx context.Context, record domain.AuditRecord) error
	ListAuditRecords(ctx context.Context, limit int, nextToken *string) ([]domain.AuditRecord, *string, error)
}
