package models

import "time"

// AuditLog is the database representation of one audit entry.
type AuditLog struct {
	AuditID    string    `db:"audit_id"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Action     string    `db:"action"`
	Changes    string    `db:"changes"`
	CreatedAt  time.Time `db:"created_at"`
}
