package repositories

import (
	"context"
	"time"

	"github.com/mgrewal/pennyledger/internal/core/domain"
)

// AccountReader defines read operations for account data. All reads exclude
// soft-deleted rows.
type AccountReader interface {
	// FindAccountByID retrieves an active account by its unique identifier.
	// Returns apperrors.ErrNotFound if the account does not exist or is deleted.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple active accounts keyed by ID. Missing
	// IDs are simply absent from the result map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListActiveAccounts retrieves every active account ordered by order_num.
	ListActiveAccounts(ctx context.Context) ([]domain.Account, error)

	// CountActiveAccounts returns the number of active accounts.
	CountActiveAccounts(ctx context.Context) (int, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts inserts multiple accounts in a single transaction (seeding).
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// SoftDeleteAccount marks an account deleted without removing its rows.
	SoftDeleteAccount(ctx context.Context, accountID string, deletedAt time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
