package repositories

import (
	"context"
	"time"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// SubjectDecision carries everything a decide/cancel transaction needs: the
// status transition and, for coin-bearing outcomes, the ledger entry that must
// commit with it.
type SubjectDecision struct {
	Outcome   domain.SubjectStatus
	DecidedBy string
	DecidedAt time.Time
	Note      *string
	// Entry is the refund (REJECTED/CANCELLED) or top-up credit (APPROVED
	// TopupRequest) appended in the same transaction as the status change.
	// Nil means the decision moves no coins.
	Entry *domain.LedgerEntry
	// MarkRefund flips the subject's one-shot refund_applied guard. The
	// repository enforces the false->true transition; a guard miss is an
	// integrity fault.
	MarkRefund bool
}

// SubjectReader exposes read access to moderated subjects across variants.
type SubjectReader interface {
	// FindSubject returns the subject of the given kind, or ErrNotFound.
	FindSubject(ctx context.Context, kind domain.SubjectKind, subjectID string) (domain.ModeratedSubject, error)
	// ListPending returns PENDING subjects of the given kind, oldest first,
	// for the admin moderation queue.
	ListPending(ctx context.Context, kind domain.SubjectKind, limit int, nextToken *string) ([]domain.ModeratedSubject, *string, error)
}

// SubjectWriter mutates subjects. Creation and decisions that move coins are
// single-transaction units with their ledger entries.
type SubjectWriter interface {
	// CreateSubjectWithDebit inserts the subject in PENDING and, when debit is
	// non-nil, appends the debit entry in the same transaction. Either both
	// become visible or neither does. A uniqueness violation on the subject
	// insert maps to ErrDomainEffect and rolls back the debit.
	CreateSubjectWithDebit(ctx context.Context, subject domain.ModeratedSubject, debit *domain.LedgerEntry) error
	// DecideSubject locks the subject row, re-validates its status, applies
	// the transition and any ledger entry atomically. Returns
	// ErrAlreadyDecided when the subject is terminal under the lock.
	DecideSubject(ctx context.Context, kind domain.SubjectKind, subjectID string, decision SubjectDecision) error
	// CancelConnection withdraws a PENDING connection request on behalf of its
	// requester, refunding atomically when refund is non-nil. Returns
	// ErrNotOwner when requesterID does not own the request.
	CancelConnection(ctx context.Context, requestID, requesterID string, decision SubjectDecision) error
}

// SubjectRepositoryFacade combines subject read and write access.
type SubjectRepositoryFacade interface {
	SubjectReader
	SubjectWriter
}

// PostRepositoryFacade adds post-specific listings on top of subject access.
type PostRepositoryFacade interface {
	FindPostByID(ctx context.Context, postID string) (*domain.Post, error)
	ListPostsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Post, *string, error)
	// ListApprovedPosts returns publicly visible posts, newest first.
	ListApprovedPosts(ctx context.Context, limit int, nextToken *string) ([]domain.Post, *string, error)
}

// ConnectionRepositoryFacade adds connection-specific listings.
type ConnectionRepositoryFacade interface {
	FindConnectionByID(ctx context.Context, requestID string) (*domain.ConnectionRequest, error)
	ListConnectionsByRequester(ctx context.Context, requesterID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error)
	// ListApprovedConnectionsByTarget returns approved incoming requests
	// visible to the target member.
	ListApprovedConnectionsByTarget(ctx context.Context, targetID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error)
}

// TopupRepositoryFacade adds top-up-specific listings.
type TopupRepositoryFacade interface {
	FindTopupByID(ctx context.Context, topupID string) (*domain.TopupRequest, error)
	ListTopupsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.TopupRequest, *string, error)
}
