package services

import (
	"context"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// WorkflowSvcFacade is the administrative decision surface over moderated
// subjects.
type WorkflowSvcFacade interface {
	// Decide applies an APPROVED/REJECTED outcome. Rejection of a coin-bearing
	// subject refunds in the same transaction; approval of a top-up credits
	// the coins in the same transaction. One audit record is emitted per call.
	Decide(ctx context.Context, kind domain.SubjectKind, subjectID string, outcome domain.SubjectStatus, adminID string, note *string) error
	// ListPending returns the moderation queue for one subject kind.
	ListPending(ctx context.Context, kind domain.SubjectKind, limit int, nextToken *string) ([]domain.ModeratedSubject, *string, error)
}

// NotificationSvcFacade records and serves user-visible events. Emit is
// fire-and-forget: it is called after the financial transaction commits and
// its failures are logged, never propagated.
type NotificationSvcFacade interface {
	Emit(ctx context.Context, accountID, kind string, payload map[string]any)
	List(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Notification, *string, error)
	MarkRead(ctx context.Context, accountID, notificationID string) error
}

// AuditSvcFacade records and lists administrative actions.
type AuditSvcFacade interface {
	Record(ctx context.Context, adminID, action, entity, entityID string, meta map[string]any)
	List(ctx context.Context, limit int, nextToken *string) ([]domain.AuditRecord, *string, error)
}

// ReconcileReport summarizes one reconciliation run over the ledger.
type ReconcileReport struct {
	AccountsChecked   int      `json:"accountsChecked"`
	BalanceMismatches int      `json:"balanceMismatches"`
	NegativeBalances  int      `json:"negativeBalances"`
	DuplicateRefunds  int      `json:"duplicateRefunds"`
	Faults            []string `json:"faults,omitempty"`
}

// ReconcileSvcFacade verifies the cached balances against the entry log.
type ReconcileSvcFacade interface {
	Run(ctx context.Context) (*ReconcileReport, error)
}

// EventPublisher pushes event envelopes to the external stream consumed by
// the presentation/chat transport.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
