package dto

import (
	"time"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// BalanceResponse is the caller's current coin balance.
type BalanceResponse struct {
	AccountID string `json:"accountID"`
	Balance   int64  `json:"balance"`
}

// LedgerEntryResponse is one signed balance adjustment in the history.
type LedgerEntryResponse struct {
	EntryID       int64     `json:"entryID"`
	Delta         int64     `json:"delta"`
	Reason        string    `json:"reason"`
	ReferenceKind *string   `json:"referenceKind,omitempty"`
	ReferenceID   *string   `json:"referenceID,omitempty"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LedgerHistoryResponse is a paginated page of ledger entries, newest first.
type LedgerHistoryResponse struct {
	AccountID string                `json:"accountID"`
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponse maps a domain ledger entry to its response shape.
func ToLedgerEntryResponse(entry domain.LedgerEntry) LedgerEntryResponse {
	var refKind *string
	if entry.ReferenceKind != nil {
		kind := string(*entry.ReferenceKind)
		refKind = &kind
	}
	return LedgerEntryResponse{
		EntryID:       entry.EntryID,
		Delta:         entry.Delta,
		Reason:        string(entry.Reason),
		ReferenceKind: refKind,
		ReferenceID:   entry.ReferenceID,
		Description:   entry.Description,
		CreatedAt:     entry.CreatedAt,
	}
}

// ToLedgerEntryResponseSlice maps a slice of domain ledger entries.
func ToLedgerEntryResponseSlice(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToLedgerEntryResponse(e)
	}
	return out
}
