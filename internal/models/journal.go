package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is the database representation of a journal header.
type Journal struct {
	JournalID          string          `db:"journal_id"`
	JournalDate        time.Time       `db:"journal_date"`
	Description        string          `db:"description"`
	CurrencyCode       string          `db:"currency_code"`
	Status             string          `db:"status"`
	DisplayType        string          `db:"display_type"`
	TotalAmount        decimal.Decimal `db:"total_amount"`
	TransactionCount   int             `db:"transaction_count"`
	ReversingJournalID *string         `db:"reversing_journal_id"` // Nullable
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
