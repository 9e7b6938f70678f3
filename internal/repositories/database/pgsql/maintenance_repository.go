package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
)

type PgxMaintenanceRepository struct {
	BaseRepository
}

func newPgxMaintenanceRepository(pool *pgxpool.Pool) portsrepo.MaintenanceRepositoryFacade {
	return &PgxMaintenanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MaintenanceRepositoryFacade = (*PgxMaintenanceRepository)(nil)

// ResetLedger removes all ledger rows in a single transaction. Currencies are
// kept so precision lookups survive a reset.
func (r *PgxMaintenanceRepository) ResetLedger(ctx context.Context) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `TRUNCATE transactions, journals, accounts, audit_logs;`); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	return tx.Commit(ctx)
}

// PurgeSoftDeleted permanently removes tombstoned rows, legs before journals
// before accounts. Returns the total number of rows removed.
func (r *PgxMaintenanceRepository) PurgeSoftDeleted(ctx context.Context) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer r.Rollback(ctx, tx)

	var removed int64
	for _, query := range []string{
		`DELETE FROM transactions WHERE deleted_at IS NOT NULL;`,
		`DELETE FROM journals WHERE deleted_at IS NOT NULL;`,
		`DELETE FROM accounts WHERE deleted_at IS NOT NULL;`,
	} {
		tag, err := tx.Exec(ctx, query)
		if err != nil {
			return 0, fmt.Errorf("failed to purge soft-deleted rows: %w", err)
		}
		removed += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return removed, nil
}
