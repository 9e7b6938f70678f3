package services

import (
	"context"
	"time"

	"github.com/mgrewal/pennyledger/internal/dto"
)

// IntegritySvcFacade verifies and repairs the cached running balances against
// the authoritative full-scan computation.
type IntegritySvcFacade interface {
	// VerifyAccountBalance compares the cached balance with the full-scan
	// result as of cutoff (now when nil), using precision-aware tolerance.
	VerifyAccountBalance(ctx context.Context, accountID string, cutoff *time.Time) (*dto.BalanceVerification, error)

	// VerifyAllAccountBalances sweeps every active account. Per-account
	// failures are logged and skipped, never aborting the sweep.
	VerifyAllAccountBalances(ctx context.Context) ([]dto.BalanceVerification, error)

	// RepairAccountBalance unconditionally rebuilds the account's entire
	// running-balance history.
	RepairAccountBalance(ctx context.Context, accountID string) error

	// RunStartupCheck seeds a default chart of accounts when the ledger is
	// empty; otherwise verifies all accounts and repairs discrepancies.
	RunStartupCheck(ctx context.Context) (*dto.StartupCheckResult, error)

	// ResetDatabase wipes all ledger data and reseeds the defaults.
	ResetDatabase(ctx context.Context) error

	// CleanupDatabase permanently purges soft-deleted rows, returning the
	// number of rows removed.
	CleanupDatabase(ctx context.Context) (int64, error)
}
