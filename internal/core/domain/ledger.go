package domain

import "time"

// EntryReason explains why a ledger entry exists.
type EntryReason string

const (
	ReasonTopup   EntryReason = "TOPUP"
	ReasonPost    EntryReason = "POST"
	ReasonConnect EntryReason = "CONNECT"
	ReasonAdjust  EntryReason = "ADJUST"
	ReasonRefund  EntryReason = "REFUND"
)

// LedgerEntry is an immutable signed balance adjustment for one coin account.
// Entries are append-only: once committed they are never updated or deleted,
// and the sum of an account's deltas is the authoritative balance.
type LedgerEntry struct {
	EntryID       int64        `json:"entryID"` // BIGSERIAL, unique and monotonic
	AccountID     string       `json:"accountID"`
	Delta         int64        `json:"delta"` // signed, never zero
	Reason        EntryReason  `json:"reason"`
	ReferenceKind *SubjectKind `json:"referenceKind,omitempty"`
	ReferenceID   *string      `json:"referenceID,omitempty"`
	Description   string       `json:"description"`
	CreatedAt     time.Time    `json:"createdAt"`
	CreatedBy     string       `json:"createdBy"`
}

// CoinAccount holds the cached balance projection for one member. The balance
// column is only ever written in the same transaction as an entry insert, so
// it stays consistent with the entry log it is derived from.
type CoinAccount struct {
	AccountID string `json:"accountID"` // same value as the owning UserID
	Balance   int64  `json:"balance"`
	AuditFields
}
