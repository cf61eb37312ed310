package domain

import "time"

// SubjectKind tags the variants that go through the approval workflow.
type SubjectKind string

const (
	KindUserProfile SubjectKind = "USER_PROFILE"
	KindPost        SubjectKind = "POST"
	KindConnection  SubjectKind = "CONNECTION"
	KindTopup       SubjectKind = "TOPUP"
)

// SubjectStatus is the moderation state of a subject. Which states are
// reachable depends on the variant: CANCELLED exists only for connection
// requests, and only a user profile may leave a terminal state (by
// resubmission, which moves it back to PENDING).
type SubjectStatus string

const (
	StatusPending   SubjectStatus = "PENDING"
	StatusApproved  SubjectStatus = "APPROVED"
	StatusRejected  SubjectStatus = "REJECTED"
	StatusCancelled SubjectStatus = "CANCELLED"
)

// IsTerminal reports whether no further admin decision is possible.
func (s SubjectStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// Moderation is the column set shared by every moderated subject.
// Subjects are never deleted; they only move through statuses.
type Moderation struct {
	Status        SubjectStatus `json:"status"`
	CoinCost      int64         `json:"coinCost"`
	RefundApplied bool          `json:"refundApplied"`
	DecidedAt     *time.Time    `json:"decidedAt,omitempty"`
	DecidedBy     *string       `json:"decidedBy,omitempty"` // Admin UserID
	AdminNote     *string       `json:"adminNote,omitempty"`
}

// ModeratedSubject is implemented by every entity whose lifecycle requires an
// administrative approve/reject decision.
type ModeratedSubject interface {
	SubjectKind() SubjectKind
	SubjectID() string
	SubjectOwner() string
	ModerationState() Moderation
}
