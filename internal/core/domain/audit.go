package domain

import "time"

// AuditLog records a single mutation of a ledger entity. Entries are written
// fire-and-forget; they are not transactionally coupled to the write they describe.
type AuditLog struct {
	AuditID    string    `json:"auditID"`
	EntityType string    `json:"entityType"` // "journal", "account", ...
	EntityID   string    `json:"entityID"`
	Action     string    `json:"action"` // "create", "update", "delete", "reverse", ...
	Changes    string    `json:"changes"` // JSON payload describing the change
	CreatedAt  time.Time `json:"createdAt"`
}
