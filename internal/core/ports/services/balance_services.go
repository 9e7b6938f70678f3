package services

import (
	"context"
	"time"

	"github.com/mgrewal/pennyledger/internal/dto"
)

// BalanceSvcFacade computes current and point-in-time account balances.
type BalanceSvcFacade interface {
	// GetAccountBalance folds the account's active legs up to asOf (now when
	// nil) and returns the balance with the number of legs folded. Returns
	// apperrors.ErrNotFound when the account does not exist.
	GetAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (*dto.AccountBalance, error)

	// GetAccountBalances computes current balances for many accounts from a
	// single leg fetch, keyed by account ID.
	GetAccountBalances(ctx context.Context, accountIDs []string) (map[string]dto.AccountBalance, error)
}
