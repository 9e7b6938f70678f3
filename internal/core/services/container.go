package services

import (
	"log/slog"
	"time"

	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/events"
)

// NewContainer wires all services over the repository provider in dependency
// order: pure leaves first, then the journal orchestrator, then the balance
// and integrity layers on top.
func NewContainer(repos *portsrepo.RepositoryProvider, bus *events.Bus, logger *slog.Logger, baseCurrency string, rebuildInterval time.Duration) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Audit = NewAuditService(repos.AuditRepo)
	container.Account = NewAccountService(repos.AccountRepo, container.Currency, container.Audit)
	container.Rebuild = NewRebuildQueueService(repos.AccountRepo, repos.JournalRepo, container.Currency, logger, rebuildInterval)
	container.Journal = NewJournalService(repos.JournalRepo, container.Account, container.Currency, container.Audit, container.Rebuild, bus)
	container.Balance = NewBalanceService(repos.AccountRepo, repos.JournalRepo, container.Currency)
	container.Integrity = NewIntegrityService(repos.AccountRepo, repos.JournalRepo, repos.MaintenanceRepo, container.Balance, container.Rebuild, container.Currency, baseCurrency)

	return container
}
