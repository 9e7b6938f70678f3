package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mgrewal/pennyledger/internal/apperrors"
	"github.com/mgrewal/pennyledger/internal/core/domain"
	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/dto"
	"github.com/mgrewal/pennyledger/internal/middleware"
	"github.com/mgrewal/pennyledger/internal/utils/accounting"
)

// integrityService runs the full-ledger verify/repair sweep and owns startup
// seeding plus the administrative reset/cleanup operations.
type integrityService struct {
	accountRepo     portsrepo.AccountRepositoryFacade
	journalRepo     portsrepo.JournalRepositoryFacade
	maintenanceRepo portsrepo.MaintenanceRepositoryFacade
	balanceSvc      portssvc.BalanceSvcFacade
	rebuildSvc      portssvc.RebuildQueueSvcFacade
	currencySvc     portssvc.CurrencySvcFacade
	baseCurrency    string
}

// NewIntegrityService creates a new IntegrityService. baseCurrency is the
// currency used when seeding the default chart of accounts.
func NewIntegrityService(
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	maintenanceRepo portsrepo.MaintenanceRepositoryFacade,
	balanceSvc portssvc.BalanceSvcFacade,
	rebuildSvc portssvc.RebuildQueueSvcFacade,
	currencySvc portssvc.CurrencySvcFacade,
	baseCurrency string,
) portssvc.IntegritySvcFacade {
	return &integrityService{
		accountRepo:     accountRepo,
		journalRepo:     journalRepo,
		maintenanceRepo: maintenanceRepo,
		balanceSvc:      balanceSvc,
		rebuildSvc:      rebuildSvc,
		currencySvc:     currencySvc,
		baseCurrency:    baseCurrency,
	}
}

var _ portssvc.IntegritySvcFacade = (*integrityService)(nil)

// VerifyAccountBalance compares the cached running balance (fast path) to the
// authoritative full-scan result. Equality is precision-aware, never exact
// float comparison.
func (s *integrityService) VerifyAccountBalance(ctx context.Context, accountID string, cutoff *time.Time) (*dto.BalanceVerification, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	until := time.Now().UTC()
	if cutoff != nil {
		until = *cutoff
	}

	computed, err := s.balanceSvc.GetAccountBalance(ctx, accountID, &until)
	if err != nil {
		return nil, fmt.Errorf("failed to compute authoritative balance: %w", err)
	}

	cached := decimal.Zero
	latest, err := s.journalRepo.FindLatestLegAtOrBefore(ctx, accountID, until)
	switch {
	case err == nil:
		cached = latest.RunningBalance
	case errors.Is(err, apperrors.ErrNotFound):
		// No legs: cached balance is zero by definition.
	default:
		return nil, fmt.Errorf("failed to read cached balance: %w", err)
	}

	tolerance := accounting.ToleranceForPrecision(s.currencySvc.GetPrecision(ctx, account.CurrencyCode))
	difference := cached.Sub(computed.Balance)

	return &dto.BalanceVerification{
		AccountID:       accountID,
		CachedBalance:   cached,
		ComputedBalance: computed.Balance,
		Difference:      difference,
		Matches:         difference.Abs().LessThanOrEqual(tolerance),
	}, nil
}

// VerifyAllAccountBalances sweeps every active account. A failing account is
// logged and skipped; the sweep never aborts.
func (s *integrityService) VerifyAllAccountBalances(ctx context.Context) ([]dto.BalanceVerification, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListActiveAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	results := make([]dto.BalanceVerification, 0, len(accounts))
	for _, account := range accounts {
		verification, err := s.VerifyAccountBalance(ctx, account.AccountID, nil)
		if err != nil {
			logger.Error("Balance verification failed for account; skipping",
				slog.String("account_id", account.AccountID),
				slog.String("error", err.Error()),
			)
			continue
		}
		results = append(results, *verification)
	}
	return results, nil
}

// RepairAccountBalance unconditionally rebuilds the account's entire
// running-balance history, stronger than the queue's partial walk.
func (s *integrityService) RepairAccountBalance(ctx context.Context, accountID string) error {
	return s.rebuildSvc.RebuildAccount(ctx, accountID, time.Time{})
}

// RunStartupCheck seeds a minimal default chart of accounts when the ledger is
// empty; otherwise verifies every account and repairs each discrepancy.
func (s *integrityService) RunStartupCheck(ctx context.Context) (*dto.StartupCheckResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	count, err := s.accountRepo.CountActiveAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}

	if count == 0 {
		logger.Info("Empty ledger detected; seeding defaults")
		if err := s.seedDefaults(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed defaults: %w", err)
		}
		seeded, err := s.accountRepo.CountActiveAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count seeded accounts: %w", err)
		}
		return &dto.StartupCheckResult{TotalAccounts: seeded, Seeded: true}, nil
	}

	verifications, err := s.VerifyAllAccountBalances(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.StartupCheckResult{TotalAccounts: len(verifications)}
	for _, v := range verifications {
		if v.Matches {
			continue
		}
		result.DiscrepanciesFound++
		result.RepairsAttempted++
		logger.Warn("Balance discrepancy found; repairing",
			slog.String("account_id", v.AccountID),
			slog.String("cached", v.CachedBalance.String()),
			slog.String("computed", v.ComputedBalance.String()),
		)
		if err := s.RepairAccountBalance(ctx, v.AccountID); err != nil {
			logger.Error("Balance repair failed", slog.String("account_id", v.AccountID), slog.String("error", err.Error()))
			continue
		}
		result.RepairsSuccessful++
	}

	logger.Info("Startup integrity check complete",
		slog.Int("total_accounts", result.TotalAccounts),
		slog.Int("discrepancies", result.DiscrepanciesFound),
		slog.Int("repaired", result.RepairsSuccessful),
	)
	return result, nil
}

// ResetDatabase wipes all ledger data and reseeds the defaults.
func (s *integrityService) ResetDatabase(ctx context.Context) error {
	if err := s.maintenanceRepo.ResetLedger(ctx); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	return s.seedDefaults(ctx)
}

// CleanupDatabase permanently purges soft-deleted rows.
func (s *integrityService) CleanupDatabase(ctx context.Context) (int64, error) {
	return s.maintenanceRepo.PurgeSoftDeleted(ctx)
}

// seedDefaults writes the built-in currencies and a minimal chart of accounts.
func (s *integrityService) seedDefaults(ctx context.Context) error {
	if err := s.currencySvc.EnsureDefaults(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, LastUpdatedAt: now}
	defaults := []domain.Account{
		{Name: "Checking", AccountType: domain.Asset, OrderNum: 1},
		{Name: "Cash", AccountType: domain.Asset, OrderNum: 2},
		{Name: "Credit Card", AccountType: domain.Liability, OrderNum: 3},
		{Name: "Opening Balances", AccountType: domain.Equity, OrderNum: 4},
		{Name: "Salary", AccountType: domain.Income, OrderNum: 5},
		{Name: "Groceries", AccountType: domain.Expense, OrderNum: 6},
		{Name: "Rent", AccountType: domain.Expense, OrderNum: 7},
	}
	for i := range defaults {
		defaults[i].AccountID = uuid.NewString()
		defaults[i].CurrencyCode = s.baseCurrency
		defaults[i].AuditFields = audit
	}
	return s.accountRepo.SaveAccounts(ctx, defaults)
}
