package services

import (
	"context"

	"github.com/mgrewal/pennyledger/internal/core/domain"
	"github.com/mgrewal/pennyledger/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	// CreateAccount validates and persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// GetAccountByID retrieves an active account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple active accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all active accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// DeleteAccount soft-deletes an account.
	DeleteAccount(ctx context.Context, accountID string) error
}

// CurrencySvcFacade provides currency metadata, most importantly minor-unit precision.
type CurrencySvcFacade interface {
	// GetPrecision returns the currency's minor-unit decimal places, falling
	// back to 2 for unknown codes.
	GetPrecision(ctx context.Context, code string) int

	// GetCurrency retrieves full currency metadata.
	GetCurrency(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all known currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// EnsureDefaults seeds the built-in currency set when missing.
	EnsureDefaults(ctx context.Context) error
}

// AuditSvcFacade is the fire-and-forget audit log sink.
type AuditSvcFacade interface {
	// Log records a mutation. It never blocks the caller and never fails the
	// operation it describes.
	Log(ctx context.Context, entityType, entityID, action string, changes any)
}
