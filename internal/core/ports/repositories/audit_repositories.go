package repositories

import (
	"context"

	"github.com/mgrewal/pennyledger/internal/core/domain"
)

// AuditRepositoryFacade defines persistence for the audit log sink.
type AuditRepositoryFacade interface {
	// SaveAuditLog appends one audit entry.
	SaveAuditLog(ctx context.Context, entry domain.AuditLog) error

	// ListAuditLogsByEntity retrieves entries for one entity, newest first.
	ListAuditLogsByEntity(ctx context.Context, entityType, entityID string, limit int) ([]domain.AuditLog, error)
}

// MaintenanceRepositoryFacade defines the administrative store operations.
type MaintenanceRepositoryFacade interface {
	// ResetLedger removes all ledger rows (accounts, journals, legs, audit
	// entries) in a single transaction.
	ResetLedger(ctx context.Context) error

	// PurgeSoftDeleted permanently removes tombstoned rows, legs before
	// journals before accounts, in one transaction. Returns rows removed.
	PurgeSoftDeleted(ctx context.Context) (int64, error)
}
