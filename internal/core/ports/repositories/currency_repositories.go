package repositories

import (
	"context"

	"github.com/mgrewal/pennyledger/internal/core/domain"
)

// CurrencyRepositoryFacade defines persistence operations for currency data.
type CurrencyRepositoryFacade interface {
	// FindCurrencyByCode retrieves a currency by its ISO code.
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all known currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// SaveCurrencies upserts currencies (used for seeding).
	SaveCurrencies(ctx context.Context, currencies []domain.Currency) error
}
