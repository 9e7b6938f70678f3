package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgrewal/pennyledger/internal/core/domain"
	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/dto"
	"github.com/mgrewal/pennyledger/internal/middleware"
	"github.com/mgrewal/pennyledger/internal/utils/accounting"
)

// balanceService computes current and point-in-time account balances by
// folding active legs in ledger order. Rounding happens at every step of the
// fold, not only at the end, so results match the incrementally built cached
// running balances digit for digit.
type balanceService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.BalanceSvcFacade {
	return &balanceService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		currencySvc: currencySvc,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// foldLegs applies the impact rules to a chronologically ordered leg set.
func foldLegs(legs []domain.Transaction, accountType domain.AccountType, precision int) (decimal.Decimal, int, error) {
	balance := decimal.Zero
	count := 0
	for _, leg := range legs {
		signed, err := accounting.SignedAmount(leg.Amount, accountType, leg.TransactionType)
		if err != nil {
			return decimal.Zero, 0, err
		}
		balance = accounting.RoundToPrecision(balance.Add(signed), precision)
		count++
	}
	return balance, count, nil
}

// GetAccountBalance is the authoritative balance computation for one account.
func (s *balanceService) GetAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (*dto.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC()
	if asOf != nil {
		cutoff = *asOf
	}

	legs, err := s.journalRepo.ListActiveLegsByAccount(ctx, accountID, &cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch legs for account %s: %w", accountID, err)
	}

	precision := s.currencySvc.GetPrecision(ctx, account.CurrencyCode)
	balance, count, err := foldLegs(legs, account.AccountType, precision)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}

	return &dto.AccountBalance{
		AccountID:        accountID,
		Balance:          balance,
		TransactionCount: count,
		AsOf:             cutoff,
	}, nil
}

// GetAccountBalances is the bulk fast path for dashboards: one leg fetch for
// all requested accounts, then the same fold per group.
func (s *balanceService) GetAccountBalances(ctx context.Context, accountIDs []string) (map[string]dto.AccountBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	legsByAccount, err := s.journalRepo.ListActiveLegsByAccounts(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch legs: %w", err)
	}

	balances := make(map[string]dto.AccountBalance, len(accounts))
	for id, account := range accounts {
		precision := s.currencySvc.GetPrecision(ctx, account.CurrencyCode)
		balance, count, err := foldLegs(legsByAccount[id], account.AccountType, precision)
		if err != nil {
			logger.Warn("Skipping account in bulk balance computation", slog.String("account_id", id), slog.String("error", err.Error()))
			continue
		}
		balances[id] = dto.AccountBalance{
			AccountID:        id,
			Balance:          balance,
			TransactionCount: count,
			AsOf:             now,
		}
	}
	return balances, nil
}
