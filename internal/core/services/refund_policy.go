package services

import (
	"time"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// RefundPolicy decides whether a rejected or cancelled subject gets its coins
// back. The returned entry is idempotent by construction: nil is returned for
// free subjects and for subjects whose one-shot refund guard is already set,
// and the repository only commits the entry together with the guard flip.
type RefundPolicy struct {
	// AllowRefunds is a deployment-time switch. When false, rejection and
	// cancellation change status but never move coins.
	AllowRefunds bool
}

// Entry computes the compensating credit for the subject, or nil when no
// refund is due. A nil result is a designed skip, not an error.
func (p RefundPolicy) Entry(subject domain.ModeratedSubject, actorID string, now time.Time) *domain.LedgerEntry {
	mod := subject.ModerationState()
	if !p.AllowRefunds || mod.CoinCost == 0 || mod.RefundApplied {
		return nil
	}

	kind := subject.SubjectKind()
	id := subject.SubjectID()
	return &domain.LedgerEntry{
		AccountID:     subject.SubjectOwner(),
		Delta:         mod.CoinCost,
		Reason:        domain.ReasonRefund,
		ReferenceKind: &kind,
		ReferenceID:   &id,
		Description:   "refund for " + string(kind) + " " + id,
		CreatedAt:     now,
		CreatedBy:     actorID,
	}
}
