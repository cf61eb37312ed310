package domain

import "time"

// AuditRecord captures one administrative action. Exactly one record is
// written per decide/cancel/adjust call.
type AuditRecord struct {
	AuditID   string         `json:"auditID"`
	AdminID   string         `json:"adminID"`
	Action    string         `json:"action"` // e.g. DECIDE, CANCEL, ADJUST
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityID"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
