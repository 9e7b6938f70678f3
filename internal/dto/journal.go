package dto

import (
	"time"

	"github.com/mgrewal/pennyledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is one leg of a journal write.
type CreateTransactionRequest struct {
	AccountID       string                 `json:"accountID" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=DEBIT CREDIT"`
	ExchangeRate    *decimal.Decimal       `json:"exchangeRate,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	TransactionDate *time.Time             `json:"transactionDate,omitempty"` // defaults to the journal date
}

// CreateJournalRequest is the payload for creating a journal with its legs.
type CreateJournalRequest struct {
	Date         time.Time                  `json:"date" binding:"required"`
	Description  string                     `json:"description" binding:"required"`
	CurrencyCode string                     `json:"currencyCode" binding:"required,currencycode"`
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=2,dive"`
}

// UpdateJournalRequest fully replaces a journal's legs and patches its header.
type UpdateJournalRequest struct {
	Date         *time.Time                 `json:"date,omitempty"`
	Description  *string                    `json:"description,omitempty"`
	CurrencyCode *string                    `json:"currencyCode,omitempty" binding:"omitempty,currencycode"`
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=2,dive"`
}

// SaveJournalEntryLine is a leg as captured by an interactive entry form;
// the amount arrives as free text.
type SaveJournalEntryLine struct {
	AccountID       string                 `json:"accountID"`
	Amount          string                 `json:"amount"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=DEBIT CREDIT"`
	ExchangeRate    *decimal.Decimal       `json:"exchangeRate,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
}

// SaveJournalEntryRequest is the user-facing save payload. Either Timestamp or
// the Date (+ optional Time) pair identifies when the entry occurred. A
// JournalID switches the save from create to update.
type SaveJournalEntryRequest struct {
	JournalID    *string                `json:"journalID,omitempty"`
	Date         string                 `json:"date,omitempty"` // "2006-01-02"
	Time         string                 `json:"time,omitempty"` // "15:04"
	Timestamp    *time.Time             `json:"timestamp,omitempty"`
	Description  string                 `json:"description"`
	CurrencyCode string                 `json:"currencyCode" binding:"required,currencycode"`
	Lines        []SaveJournalEntryLine `json:"lines"`
}

// SaveJournalEntryResult reports the outcome of a user-facing save. Validation
// failure is expected user input, not an error path.
type SaveJournalEntryResult struct {
	Success   bool             `json:"success"`
	Action    string           `json:"action,omitempty"` // "created" or "updated"
	JournalID string           `json:"journalID,omitempty"`
	Error     string           `json:"error,omitempty"`
	Imbalance *decimal.Decimal `json:"imbalance,omitempty"`
}

// ListJournalsParams controls journal listing.
type ListJournalsParams struct {
	Limit               int     `form:"limit"`
	NextToken           *string `form:"nextToken"`
	IncludeTransactions bool    `form:"includeTransactions"`
}

// JournalResponse is the outward shape of a journal.
type JournalResponse struct {
	JournalID          string                    `json:"journalID"`
	JournalDate        time.Time                 `json:"journalDate"`
	Description        string                    `json:"description"`
	CurrencyCode       string                    `json:"currencyCode"`
	Status             domain.JournalStatus      `json:"status"`
	DisplayType        domain.JournalDisplayType `json:"displayType"`
	TotalAmount        decimal.Decimal           `json:"totalAmount"`
	TransactionCount   int                       `json:"transactionCount"`
	ReversingJournalID *string                   `json:"reversingJournalID,omitempty"`
	Transactions       []domain.Transaction      `json:"transactions,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

// ToJournalResponse maps a domain journal to its response shape.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	return JournalResponse{
		JournalID:          j.JournalID,
		JournalDate:        j.JournalDate,
		Description:        j.Description,
		CurrencyCode:       j.CurrencyCode,
		Status:             j.Status,
		DisplayType:        j.DisplayType,
		TotalAmount:        j.TotalAmount,
		TransactionCount:   j.TransactionCount,
		ReversingJournalID: j.ReversingJournalID,
		Transactions:       j.Transactions,
		CreatedAt:          j.CreatedAt,
	}
}

// ListJournalsResponse is a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}
