package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all PostgreSQL-backed repositories against one
// shared connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(pool),
		JournalRepo:     newPgxJournalRepository(pool),
		CurrencyRepo:    newPgxCurrencyRepository(pool),
		AuditRepo:       newPgxAuditRepository(pool),
		MaintenanceRepo: newPgxMaintenanceRepository(pool),
	}
}
