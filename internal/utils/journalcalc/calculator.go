// Package journalcalc holds the currency-aware amount math used by interactive
// journal entry: free-text amount parsing, per-leg base-currency conversion and
// imbalance calculations. Persistence never calls into this package with
// unparsed input; it exists so entry forms and the save facade agree on totals.
package journalcalc

import (
	"strings"

	"github.com/mgrewal/pennyledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Line is one journal leg as captured by an entry form. Amount is free text
// and may be junk; junk parses as zero.
type Line struct {
	Amount          string
	CurrencyCode    string
	ExchangeRate    decimal.Decimal // zero or negative is treated as 1
	TransactionType domain.TransactionType
}

var one = decimal.NewFromInt(1)

// ParseAmount converts free-text input to a decimal magnitude. Invalid text is zero.
func ParseAmount(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// LineBaseAmount returns the leg's value in the ledger's base currency, rounded
// to 2 decimals. The exchange rate is applied only when the leg's currency
// differs from the base currency.
func LineBaseAmount(line Line, baseCurrency string) decimal.Decimal {
	amount := ParseAmount(line.Amount)
	if line.CurrencyCode != "" && line.CurrencyCode != baseCurrency {
		rate := line.ExchangeRate
		if rate.IsZero() || rate.IsNegative() {
			rate = one
		}
		amount = amount.Mul(rate)
	}
	return amount.Round(2)
}

// TotalDebits sums the base amounts of all debit legs.
func TotalDebits(lines []Line, baseCurrency string) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.TransactionType == domain.Debit {
			total = total.Add(LineBaseAmount(line, baseCurrency))
		}
	}
	return total
}

// TotalCredits sums the base amounts of all credit legs.
func TotalCredits(lines []Line, baseCurrency string) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.TransactionType == domain.Credit {
			total = total.Add(LineBaseAmount(line, baseCurrency))
		}
	}
	return total
}

// Imbalance returns debits minus credits in base terms.
func Imbalance(lines []Line, baseCurrency string) decimal.Decimal {
	return TotalDebits(lines, baseCurrency).Sub(TotalCredits(lines, baseCurrency))
}

// IsBalanced reports whether the legs net to zero within the given tolerance.
func IsBalanced(lines []Line, baseCurrency string, tolerance decimal.Decimal) bool {
	return Imbalance(lines, baseCurrency).Abs().LessThanOrEqual(tolerance)
}

// MissingValue returns the magnitude needed on the lighter side to balance the
// journal; zero when already balanced.
func MissingValue(lines []Line, baseCurrency string) decimal.Decimal {
	return Imbalance(lines, baseCurrency).Abs()
}

// ImpliedRate back-solves the exchange rate that would make a leg with the
// given nominal amount contribute exactly targetBase. A zero nominal yields 1.
func ImpliedRate(nominal, targetBase decimal.Decimal) decimal.Decimal {
	if nominal.IsZero() {
		return one
	}
	return targetBase.Div(nominal).Abs()
}
