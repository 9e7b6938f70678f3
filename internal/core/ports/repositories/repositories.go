package repositories

// RepositoryProvider groups all repository facades for dependency injection
// into the service container.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	JournalRepo     JournalRepositoryFacade
	CurrencyRepo    CurrencyRepositoryFacade
	AuditRepo       AuditRepositoryFacade
	MaintenanceRepo MaintenanceRepositoryFacade
}
