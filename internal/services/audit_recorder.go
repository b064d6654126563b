package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/trekora/backend/internal/models"
)

// AuditEntry describes one mutation for the audit trail. OldData and
// NewData are arbitrary snapshots serialized to JSON; either may be nil.
type AuditEntry struct {
	EntityType  string
	EntityID    string
	ActionType  string
	OldData     any
	NewData     any
	PerformedBy *string
}

type auditEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	ActionType  string    `json:"action_type"`
	PerformedBy *string   `json:"performed_by,omitempty"`
}

// AuditRecorder appends immutable rows to audit_logs. It always writes
// inside the caller's transaction so an audit row can never outlive a
// rolled-back mutation, and a committed mutation can never lack one.
type AuditRecorder struct{}

func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{}
}

// RecordTx inserts one audit row within tx and returns its id. Rows are
// write-once; nothing in this service updates or deletes audit_logs.
func (a *AuditRecorder) RecordTx(ctx context.Context, tx *sql.Tx, entry AuditEntry) (string, error) {
	oldData, err := marshalSnapshot(entry.OldData)
	if err != nil {
		return "", fmt.Errorf("marshal old snapshot: %w", err)
	}
	newData, err := marshalSnapshot(entry.NewData)
	if err != nil {
		return "", fmt.Errorf("marshal new snapshot: %w", err)
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, entity_type, entity_id, action_type, old_data, new_data, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, entry.EntityType, entry.EntityID, entry.ActionType, oldData, newData, entry.PerformedBy, time.Now())
	if err != nil {
		return "", err
	}

	a.logEvent(entry)
	return id, nil
}

// ListForEntity returns the audit trail for one entity, oldest first.
func (a *AuditRecorder) ListForEntity(ctx context.Context, db *sql.DB, entityType, entityID string) ([]models.AuditLogEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, entity_type, entity_id, action_type, old_data, new_data, performed_by, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at`, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditLogEntry{}
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.ActionType,
			&e.OldData, &e.NewData, &e.PerformedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func marshalSnapshot(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (a *AuditRecorder) logEvent(entry AuditEntry) {
	event := auditEvent{
		Timestamp:   time.Now(),
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		ActionType:  entry.ActionType,
		PerformedBy: entry.PerformedBy,
	}
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}
