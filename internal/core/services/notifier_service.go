package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

// notifierService records user-visible events and forwards them to the event
// stream. Both sides are best-effort: they run after the financial transaction
// has committed and their failures are logged, never propagated back into the
// business operation.
type notifierService struct {
	notificationRepo portsrepo.NotificationRepositoryFacade
	publisher        portssvc.EventPublisher // nil when no brokers are configured
}

// NewNotifierService creates the notification service. publisher may be nil.
func NewNotifierService(notificationRepo portsrepo.NotificationRepositoryFacade, publisher portssvc.EventPublisher) portssvc.NotificationSvcFacade {
	return &notifierService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

var _ portssvc.NotificationSvcFacade = (*notifierService)(nil)

// Emit stores the notification and publishes its event envelope.
func (s *notifierService) Emit(ctx context.Context, accountID, kind string, payload map[string]any) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	notification := domain.Notification{
		NotificationID: uuid.NewString(),
		AccountID:      accountID,
		Kind:           kind,
		Payload:        payload,
		CreatedAt:      now,
	}
	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		logger.Error("Failed to record notification",
			slog.String("account_id", accountID),
			slog.String("kind", kind),
			slog.Any("error", err))
	}

	if s.publisher == nil {
		return
	}
	event := domain.Event{
		EventID:    notification.NotificationID,
		AccountID:  accountID,
		Kind:       kind,
		Payload:    payload,
		OccurredAt: now,
	}
	// Publishing is detached from the request: a slow or down broker must not
	// hold the caller's response.
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.Publish(pubCtx, event); err != nil {
			logger.Error("Failed to publish event",
				slog.String("account_id", accountID),
				slog.String("kind", kind),
				slog.Any("error", err))
		}
	}()
}

func (s *notifierService) List(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Notification, *string, error) {
	return s.notificationRepo.ListNotifications(ctx, accountID, limit, nextToken)
}

func (s *notifierService) MarkRead(ctx context.Context, accountID, notificationID string) error {
	return s.notificationRepo.MarkNotificationRead(ctx, accountID, notificationID)
}
