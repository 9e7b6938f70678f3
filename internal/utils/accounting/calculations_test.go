package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgrewal/pennyledger/internal/core/domain"
)

func TestImpactMultiplier(t *testing.T) {
	tests := []struct {
		name            string
		accountType     domain.AccountType
		transactionType domain.TransactionType
		want            int64
	}{
		{"debit asset increases", domain.Asset, domain.Debit, 1},
		{"credit asset decreases", domain.Asset, domain.Credit, -1},
		{"debit expense increases", domain.Expense, domain.Debit, 1},
		{"credit expense decreases", domain.Expense, domain.Credit, -1},
		{"debit liability decreases", domain.Liability, domain.Debit, -1},
		{"credit liability increases", domain.Liability, domain.Credit, 1},
		{"debit equity decreases", domain.Equity, domain.Debit, -1},
		{"credit equity increases", domain.Equity, domain.Credit, 1},
		{"debit income decreases", domain.Income, domain.Debit, -1},
		{"credit income increases", domain.Income, domain.Credit, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImpactMultiplier(tt.accountType, tt.transactionType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImpactMultiplierUnknownType(t *testing.T) {
	_, err := ImpactMultiplier(domain.AccountType("BOGUS"), domain.Debit)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account type")
}

func TestTransactionTypeForAction(t *testing.T) {
	tests := []struct {
		name        string
		accountType domain.AccountType
		action      BalanceAction
		want        domain.TransactionType
	}{
		{"increase asset via debit", domain.Asset, Increase, domain.Debit},
		{"decrease asset via credit", domain.Asset, Decrease, domain.Credit},
		{"increase liability via credit", domain.Liability, Increase, domain.Credit},
		{"decrease liability via debit", domain.Liability, Decrease, domain.Debit},
		{"increase income via credit", domain.Income, Increase, domain.Credit},
		{"increase expense via debit", domain.Expense, Increase, domain.Debit},
		{"increase equity via credit", domain.Equity, Increase, domain.Credit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransactionTypeForAction(tt.accountType, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransactionTypeForActionRoundTrip(t *testing.T) {
	// The type chosen for an Increase must have a +1 multiplier.
	for _, accountType := range []domain.AccountType{domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense} {
		txnType, err := TransactionTypeForAction(accountType, Increase)
		require.NoError(t, err)
		mult, err := ImpactMultiplier(accountType, txnType)
		require.NoError(t, err)
		assert.Equal(t, int64(1), mult, "Increase on %s should map to a +1 transaction type", accountType)
	}
}

func TestSignedAmount(t *testing.T) {
	amount := decimal.NewFromFloat(125.50)

	signed, err := SignedAmount(amount, domain.Asset, domain.Debit)
	require.NoError(t, err)
	assert.True(t, amount.Equal(signed))

	signed, err = SignedAmount(amount, domain.Asset, domain.Credit)
	require.NoError(t, err)
	assert.True(t, amount.Neg().Equal(signed))

	signed, err = SignedAmount(amount, domain.Liability, domain.Credit)
	require.NoError(t, err)
	assert.True(t, amount.Equal(signed))

	_, err = SignedAmount(amount, domain.AccountType("BOGUS"), domain.Debit)
	assert.Error(t, err)
}

func TestToleranceForPrecision(t *testing.T) {
	assert.True(t, decimal.RequireFromString("0.01").Equal(ToleranceForPrecision(2)))
	assert.True(t, decimal.RequireFromString("1").Equal(ToleranceForPrecision(0)))
	assert.True(t, decimal.RequireFromString("0.001").Equal(ToleranceForPrecision(3)))
}

func TestValidateBalance(t *testing.T) {
	tolerance := ToleranceForPrecision(2)

	t.Run("balanced pair", func(t *testing.T) {
		lines := []BalanceLine{
			{Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
			{Amount: decimal.NewFromInt(100), TransactionType: domain.Credit},
		}
		check := ValidateBalance(lines, tolerance)
		assert.True(t, check.IsValid)
		assert.True(t, check.Imbalance.IsZero())
		assert.True(t, decimal.NewFromInt(100).Equal(check.TotalDebits))
		assert.True(t, decimal.NewFromInt(100).Equal(check.TotalCredits))
	})

	t.Run("unbalanced", func(t *testing.T) {
		lines := []BalanceLine{
			{Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
			{Amount: decimal.NewFromInt(90), TransactionType: domain.Credit},
		}
		check := ValidateBalance(lines, tolerance)
		assert.False(t, check.IsValid)
		assert.True(t, decimal.NewFromInt(10).Equal(check.Imbalance))
	})

	t.Run("within tolerance", func(t *testing.T) {
		lines := []BalanceLine{
			{Amount: decimal.RequireFromString("100.00"), TransactionType: domain.Debit},
			{Amount: decimal.RequireFromString("99.99"), TransactionType: domain.Credit},
		}
		check := ValidateBalance(lines, tolerance)
		assert.True(t, check.IsValid, "one minor unit of drift is tolerated")
	})

	t.Run("exchange rate applied per line", func(t *testing.T) {
		lines := []BalanceLine{
			{Amount: decimal.NewFromInt(100), ExchangeRate: decimal.RequireFromString("1.10"), TransactionType: domain.Debit},
			{Amount: decimal.NewFromInt(110), TransactionType: domain.Credit},
		}
		check := ValidateBalance(lines, tolerance)
		assert.True(t, check.IsValid)
	})

	t.Run("non-positive rate treated as one", func(t *testing.T) {
		lines := []BalanceLine{
			{Amount: decimal.NewFromInt(50), ExchangeRate: decimal.NewFromInt(-3), TransactionType: domain.Debit},
			{Amount: decimal.NewFromInt(50), TransactionType: domain.Credit},
		}
		check := ValidateBalance(lines, tolerance)
		assert.True(t, check.IsValid)
	})
}

func TestValidateDistinctAccounts(t *testing.T) {
	assert.NoError(t, ValidateDistinctAccounts([]string{"a", "b"}))
	assert.NoError(t, ValidateDistinctAccounts([]string{"a", "a", "b"}))
	assert.Error(t, ValidateDistinctAccounts([]string{"a", "a"}))
	assert.Error(t, ValidateDistinctAccounts([]string{"a"}))
	assert.Error(t, ValidateDistinctAccounts([]string{"", "a"}))
	assert.Error(t, ValidateDistinctAccounts(nil))
}

func TestRoundToPrecision(t *testing.T) {
	assert.True(t, decimal.RequireFromString("10.13").Equal(RoundToPrecision(decimal.RequireFromString("10.125"), 2)))
	assert.True(t, decimal.RequireFromString("10").Equal(RoundToPrecision(decimal.RequireFromString("10.4"), 0)))
	assert.True(t, decimal.RequireFromString("10.125").Equal(RoundToPrecision(decimal.RequireFromString("10.125"), 3)))
}
