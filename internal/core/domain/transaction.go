package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Opposite returns the mirror of a transaction type, used when building reversals.
func (t TransactionType) Opposite() TransactionType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// Transaction represents a single line item (a "leg") within a Journal, affecting one account.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`   // Primary Key (UUID)
	JournalID       string          `json:"journalID"`       // FK -> Journal.journalID (Not Null)
	AccountID       string          `json:"accountID"`       // FK -> Account.accountID (Not Null)
	Amount          decimal.Decimal `json:"amount"`          // Non-negative magnitude; sign comes from the impact rules
	TransactionType TransactionType `json:"transactionType"` // DEBIT or CREDIT (Not Null)
	CurrencyCode    string          `json:"currencyCode"`
	TransactionDate time.Time       `json:"transactionDate"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`   // Rate to the journal's currency; 1 when same currency
	Notes           string          `json:"notes"`          // Nullable
	RunningBalance  decimal.Decimal `json:"runningBalance"` // Cached account balance immediately after this leg
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// EffectiveRate returns the leg's exchange rate, defaulting to 1 when unset or invalid.
func (t Transaction) EffectiveRate() decimal.Decimal {
	if t.ExchangeRate.IsZero() || t.ExchangeRate.IsNegative() {
		return decimal.NewFromInt(1)
	}
	return t.ExchangeRate
}
