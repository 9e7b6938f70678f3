package accounting

import (
	"fmt"

	"github.com/mgrewal/pennyledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceAction expresses the intent to move an account balance up or down,
// independent of the debit/credit mechanics.
type BalanceAction string

const (
	Increase BalanceAction = "INCREASE"
	Decrease BalanceAction = "DECREASE"
)

// BalanceLine is the minimal view of a journal leg needed for balance validation.
type BalanceLine struct {
	Amount          decimal.Decimal
	ExchangeRate    decimal.Decimal // zero or negative is treated as 1
	TransactionType domain.TransactionType
}

// BalanceCheck is the outcome of validating a set of journal legs.
type BalanceCheck struct {
	IsValid      bool
	Imbalance    decimal.Decimal // debits - credits, in base terms
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
}

// ImpactMultiplier returns the balance-impact direction for a leg.
// DEBIT to ASSET/EXPENSE -> +1
// CREDIT to ASSET/EXPENSE -> -1
// DEBIT to LIABILITY/EQUITY/INCOME -> -1
// CREDIT to LIABILITY/EQUITY/INCOME -> +1
func ImpactMultiplier(accountType domain.AccountType, transactionType domain.TransactionType) (int64, error) {
	isDebit := transactionType == domain.Debit
	switch accountType {
	case domain.Asset, domain.Expense:
		if isDebit {
			return 1, nil
		}
		return -1, nil
	case domain.Liability, domain.Equity, domain.Income:
		if isDebit {
			return -1, nil
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// TransactionTypeForAction is the inverse of ImpactMultiplier: it returns the
// transaction type that moves an account of the given type in the requested direction.
func TransactionTypeForAction(accountType domain.AccountType, action BalanceAction) (domain.TransactionType, error) {
	debitMult, err := ImpactMultiplier(accountType, domain.Debit)
	if err != nil {
		return "", err
	}
	wantPositive := action == Increase
	if (debitMult > 0) == wantPositive {
		return domain.Debit, nil
	}
	return domain.Credit, nil
}

// SignedAmount applies the impact multiplier to a leg's magnitude.
func SignedAmount(amount decimal.Decimal, accountType domain.AccountType, transactionType domain.TransactionType) (decimal.Decimal, error) {
	mult, err := ImpactMultiplier(accountType, transactionType)
	if err != nil {
		return decimal.Zero, err
	}
	if mult < 0 {
		return amount.Neg(), nil
	}
	return amount, nil
}

// ToleranceForPrecision returns the balance-equality tolerance for a currency:
// one minor unit, 10^-precision.
func ToleranceForPrecision(precision int) decimal.Decimal {
	return decimal.New(1, int32(-precision))
}

// ValidateBalance sums amount x exchangeRate per side and reports whether
// the debit and credit totals agree within the given tolerance.
func ValidateBalance(lines []BalanceLine, tolerance decimal.Decimal) BalanceCheck {
	one := decimal.NewFromInt(1)
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero

	for _, line := range lines {
		rate := line.ExchangeRate
		if rate.IsZero() || rate.IsNegative() {
			rate = one
		}
		base := line.Amount.Mul(rate)
		if line.TransactionType == domain.Debit {
			totalDebits = totalDebits.Add(base)
		} else {
			totalCredits = totalCredits.Add(base)
		}
	}

	imbalance := totalDebits.Sub(totalCredits)
	return BalanceCheck{
		IsValid:      imbalance.Abs().LessThanOrEqual(tolerance),
		Imbalance:    imbalance,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
	}
}

// ValidateDistinctAccounts requires at least two unique, non-empty account IDs.
func ValidateDistinctAccounts(accountIDs []string) error {
	seen := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		if id == "" {
			continue
		}
		seen[id] = struct{}{}
	}
	if len(seen) < 2 {
		return fmt.Errorf("journal must affect at least two different accounts")
	}
	return nil
}

// RoundToPrecision rounds an amount to a currency's minor-unit precision.
func RoundToPrecision(amount decimal.Decimal, precision int) decimal.Decimal {
	return amount.Round(int32(precision))
}
