package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mgrewal/pennyledger/internal/core/domain"
	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	"github.com/mgrewal/pennyledger/internal/models"
)

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// SaveAuditLog appends one audit entry.
func (r *PgxAuditRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO audit_logs (audit_id, entity_type, entity_id, action, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		entry.AuditID, entry.EntityType, entry.EntityID, entry.Action, entry.Changes, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log for %s %s: %w", entry.EntityType, entry.EntityID, err)
	}
	return nil
}

// ListAuditLogsByEntity retrieves entries for one entity, newest first.
func (r *PgxAuditRepository) ListAuditLogsByEntity(ctx context.Context, entityType, entityID string, limit int) ([]domain.AuditLog, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT audit_id, entity_type, entity_id, action, changes, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3;`,
		entityType, entityID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		var m models.AuditLog
		if err := rows.Scan(&m.AuditID, &m.EntityType, &m.EntityID, &m.Action, &m.Changes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, domain.AuditLog{
			AuditID:    m.AuditID,
			EntityType: m.EntityType,
			EntityID:   m.EntityID,
			Action:     m.Action,
			Changes:    m.Changes,
			CreatedAt:  m.CreatedAt,
		})
	}
	return entries, rows.Err()
}
