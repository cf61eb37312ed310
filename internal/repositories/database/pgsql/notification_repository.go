package pgsql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	"github.com/mvtechguy/islandvault/internal/utils/pagination"
)

// PgxNotificationRepository persists user-visible events.
type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// CreateNotification inserts one notification row.
func (r *PgxNotificationRepository) CreateNotification(ctx context.Context, notification domain.Notification) error {
	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		return apperrors.NewAppError(500, "failed to marshal notification payload", err)
	}

	query := `
		INSERT INTO notifications (notification_id, account_id, kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err = r.Pool.Exec(ctx, query,
		notification.NotificationID,
		notification.AccountID,
		notification.Kind,
		payload,
		notification.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert notification for account "+notification.AccountID, err)
	}
	return nil
}

// ListNotifications returns the account's notifications, newest first.
func (r *PgxNotificationRepository) ListNotifications(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Notification, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT notification_id, account_id, kind, payload, read_at, created_at
		FROM notifications
		WHERE account_id = $1
	`
	orderByClause := `ORDER BY created_at DESC, notification_id DESC`

	args := []any{accountID}
	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursor := cursorClause("(created_at, notification_id) <", len(args)+1)
		args = append(args, lastCreatedAt, lastID)
		query := baseQuery + ` AND ` + cursor + ` ` + orderByClause + limitClause(len(args)+1)
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + ` ` + orderByClause + limitClause(len(args)+1)
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query notifications for account "+accountID, err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0, fetchLimit)
	for rows.Next() {
		var n domain.Notification
		var payload []byte
		if err := rows.Scan(&n.NotificationID, &n.AccountID, &n.Kind, &payload, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan notification row", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &n.Payload); err != nil {
				return nil, nil, apperrors.NewAppError(500, "failed to unmarshal notification payload", err)
			}
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating notification rows", err)
	}

	var nextTokenVal *string
	if len(notifications) > limit {
		notifications = notifications[:limit]
		last := notifications[limit-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.NotificationID)
		nextTokenVal = &token
	}

	return notifications, nextTokenVal, nil
}

// MarkNotificationRead stamps read_at on the account's own notification.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, accountID, notificationID string) error {
	cmdTag, err := r.Pool.Exec(ctx,
		`UPDATE notifications SET read_at = $3 WHERE notification_id = $1 AND account_id = $2 AND read_at IS NULL`,
		notificationID, accountID, time.Now().UTC(),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark notification "+notificationID+" read", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("notification " + notificationID + " not found or already read")
	}
	return nil
}
