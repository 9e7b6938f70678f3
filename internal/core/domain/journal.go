package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalDisplayType classifies a journal for presentation, inferred from the
// account types touched by its legs.
type JournalDisplayType string

const (
	DisplayIncome   JournalDisplayType = "INCOME"
	DisplayExpense  JournalDisplayType = "EXPENSE"
	DisplayTransfer JournalDisplayType = "TRANSFER"
)

// Journal represents a single, balanced financial event composed of multiple transactions.
type Journal struct {
	JournalID          string             `json:"journalID"`    // Primary Key (UUID)
	JournalDate        time.Time          `json:"journalDate"`  // Date the event occurred
	Description        string             `json:"description"`  // User description (required)
	CurrencyCode       string             `json:"currencyCode"` // Primary currency of the Journal (Not Null)
	Status             JournalStatus      `json:"status"`       // Default: Posted
	DisplayType        JournalDisplayType `json:"displayType"`
	TotalAmount        decimal.Decimal    `json:"totalAmount"`      // max(|debits|, |credits|) in journal currency
	TransactionCount   int                `json:"transactionCount"` // Number of legs
	ReversingJournalID *string            `json:"reversingJournalID,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	// Transactions is populated on demand; most reads return the journal header only.
	Transactions []Transaction `json:"transactions,omitempty"`
}

// IsDeleted reports whether the journal has been soft-deleted.
func (j Journal) IsDeleted() bool {
	return j.DeletedAt != nil
}
