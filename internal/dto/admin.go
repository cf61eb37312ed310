package dto

import (
	"time"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// DecideRequest records an administrative decision on a pending subject.
type DecideRequest struct {
	Outcome string  `json:"outcome" binding:"required,oneof=APPROVED REJECTED"`
	Note    *string `json:"note" binding:"omitempty,max=1000"`
}

// AdjustRequest appends a manual coin adjustment to an account.
type AdjustRequest struct {
	Delta       int64  `json:"delta" binding:"required"`
	Description string `json:"description" binding:"required,max=500"`
}

// AuditRecordResponse is one administrative action in the audit trail.
type AuditRecordResponse struct {
	AuditID   string         `json:"auditID"`
	AdminID   string         `json:"adminID"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityID"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ListAuditResponse is a paginated page of audit records.
type ListAuditResponse struct {
	Records   []AuditRecordResponse `json:"records"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// PendingSubjectResponse is one entry in the admin moderation queue.
type PendingSubjectResponse struct {
	Kind      string `json:"kind"`
	SubjectID string `json:"subjectID"`
	OwnerID   string `json:"ownerID"`
	CoinCost  int64  `json:"coinCost"`
	Status    string `json:"status"`
}

// ListPendingResponse is a paginated page of the moderation queue.
type ListPendingResponse struct {
	Subjects  []PendingSubjectResponse `json:"subjects"`
	NextToken *string                  `json:"nextToken,omitempty"`
}

// ToAuditRecordResponse maps a domain audit record to its response shape.
func ToAuditRecordResponse(record domain.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		AuditID:   record.AuditID,
		AdminID:   record.AdminID,
		Action:    record.Action,
		Entity:    record.Entity,
		EntityID:  record.EntityID,
		Meta:      record.Meta,
		CreatedAt: record.CreatedAt,
	}
}

// ToPendingSubjectResponse maps any moderated subject to its queue entry.
func ToPendingSubjectResponse(subject domain.ModeratedSubject) PendingSubjectResponse {
	mod := subject.ModerationState()
	return PendingSubjectResponse{
		Kind:      string(subject.SubjectKind()),
		SubjectID: subject.SubjectID(),
		OwnerID:   subject.SubjectOwner(),
		CoinCost:  mod.CoinCost,
		Status:    string(mod.Status),
	}
}
