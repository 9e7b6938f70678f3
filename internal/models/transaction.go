package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a journal leg.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	JournalID       string          `db:"journal_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType string          `db:"transaction_type"`
	CurrencyCode    string          `db:"currency_code"`
	TransactionDate time.Time       `db:"transaction_date"`
	ExchangeRate    decimal.Decimal `db:"exchange_rate"`
	Notes           string          `db:"notes"`
	RunningBalance  decimal.Decimal `db:"running_balance"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
