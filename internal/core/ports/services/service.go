package services

// ServiceContainer groups all service facades handed to the HTTP layer.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Currency  CurrencySvcFacade
	Journal   JournalSvcFacade
	Balance   BalanceSvcFacade
	Rebuild   RebuildQueueSvcFacade
	Integrity IntegritySvcFacade
	Audit     AuditSvcFacade
}
