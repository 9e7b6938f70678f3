package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mgrewal/pennyledger/internal/apperrors"
	"github.com/mgrewal/pennyledger/internal/core/domain"
	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/middleware"
)

// defaultPrecision is used for unknown currency codes.
const defaultPrecision = 2

// currencyService provides currency metadata with an in-memory precision cache.
type currencyService struct {
	repo portsrepo.CurrencyRepositoryFacade

	mu         sync.RWMutex
	precisions map[string]int
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(repo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{
		repo:       repo,
		precisions: make(map[string]int),
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// GetPrecision returns the currency's minor-unit decimal places. Unknown codes
// fall back to 2 so amount rounding always has a defined behavior.
func (s *currencyService) GetPrecision(ctx context.Context, code string) int {
	s.mu.RLock()
	precision, ok := s.precisions[code]
	s.mu.RUnlock()
	if ok {
		return precision
	}

	currency, err := s.repo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to look up currency precision", slog.String("currency_code", code), slog.String("error", err.Error()))
		}
		return defaultPrecision
	}

	s.mu.Lock()
	s.precisions[code] = currency.Precision
	s.mu.Unlock()
	return currency.Precision
}

// GetCurrency retrieves full currency metadata.
func (s *currencyService) GetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	return s.repo.FindCurrencyByCode(ctx, code)
}

// ListCurrencies retrieves all known currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.repo.ListCurrencies(ctx)
}

// EnsureDefaults seeds the built-in currency set. Idempotent: existing codes
// are upserted in place.
func (s *currencyService) EnsureDefaults(ctx context.Context) error {
	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, LastUpdatedAt: now}
	defaults := []domain.Currency{
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2, AuditFields: audit},
		{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2, AuditFields: audit},
		{CurrencyCode: "GBP", Symbol: "£", Name: "Pound Sterling", Precision: 2, AuditFields: audit},
		{CurrencyCode: "INR", Symbol: "₹", Name: "Indian Rupee", Precision: 2, AuditFields: audit},
		{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen", Precision: 0, AuditFields: audit},
		{CurrencyCode: "CAD", Symbol: "$", Name: "Canadian Dollar", Precision: 2, AuditFields: audit},
		{CurrencyCode: "AUD", Symbol: "$", Name: "Australian Dollar", Precision: 2, AuditFields: audit},
		{CurrencyCode: "CHF", Symbol: "Fr", Name: "Swiss Franc", Precision: 2, AuditFields: audit},
		{CurrencyCode: "BHD", Symbol: ".د.ب", Name: "Bahraini Dinar", Precision: 3, AuditFields: audit},
	}

	if err := s.repo.SaveCurrencies(ctx, defaults); err != nil {
		return err
	}

	s.mu.Lock()
	for _, c := range defaults {
		s.precisions[c.CurrencyCode] = c.Precision
	}
	s.mu.Unlock()
	return nil
}
