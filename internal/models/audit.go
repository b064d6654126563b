package models

import "time"

// Audit entity types.
const (
	AuditEntityBooking = "BOOKING"
	AuditEntityRefund  = "REFUND"
)

// Audit action types.
const (
	AuditActionCreate     = "CREATE"
	AuditActionUpdate     = "UPDATE"
	AuditActionCancel     = "CANCEL"
	AuditActionRefund     = "REFUND"
	AuditActionAdjustment = "ADJUSTMENT"
)

// AuditLogEntry is a write-once record of a mutation. Rows are read for
// audit trails only and never updated or deleted.
type AuditLogEntry struct {
	ID          string    `json:"id" db:"id"`
	EntityType  string    `json:"entity_type" db:"entity_type"`
	EntityID    string    `json:"entity_id" db:"entity_id"`
	ActionType  string    `json:"action_type" db:"action_type"`
	OldData     []byte    `json:"old_data,omitempty" db:"old_data"`
	NewData     []byte    `json:"new_data,omitempty" db:"new_data"`
	PerformedBy *string   `json:"performed_by,omitempty" db:"performed_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
