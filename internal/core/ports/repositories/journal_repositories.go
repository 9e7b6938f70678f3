package repositories

import (
	"context"
	"time"

	"github.com/mgrewal/pennyledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RunningBalanceUpdate carries a recomputed cached balance for one leg.
type RunningBalanceUpdate struct {
	TransactionID  string
	RunningBalance decimal.Decimal
}

// JournalReader defines read operations for journal data. All reads exclude
// soft-deleted journals and legs.
type JournalReader interface {
	// FindJournalByID retrieves an active journal header by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindTransactionsByJournalID retrieves the active legs of a journal in
	// stable insertion order.
	FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error)

	// ListJournals retrieves a page of active journals, newest first, using
	// token-based pagination. It returns the journals, a token for the next
	// page (nil on the last page), and an error.
	ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error)
}

// LegReader defines the account-centric leg queries the balance engine runs on.
// Legs are returned in ledger order: transaction_date, then created_at, then
// transaction_id as the stable tiebreak.
type LegReader interface {
	// ListActiveLegsByAccount retrieves all active legs of active journals for
	// one account, optionally bounded by transaction_date <= until.
	ListActiveLegsByAccount(ctx context.Context, accountID string, until *time.Time) ([]domain.Transaction, error)

	// ListActiveLegsByAccounts retrieves active legs for many accounts at once,
	// grouped by account ID, each group in ledger order.
	ListActiveLegsByAccounts(ctx context.Context, accountIDs []string) (map[string][]domain.Transaction, error)

	// FindLatestLegAtOrBefore returns the last active leg with
	// transaction_date <= cutoff, or apperrors.ErrNotFound when the account has
	// no such leg.
	FindLatestLegAtOrBefore(ctx context.Context, accountID string, cutoff time.Time) (*domain.Transaction, error)

	// HasLegAfter reports whether the account has any active leg dated strictly
	// after the given date.
	HasLegAfter(ctx context.Context, accountID string, date time.Time) (bool, error)
}

// JournalWriter defines write operations for journal data. Every method is an
// atomic unit: either all of its rows land or none do.
type JournalWriter interface {
	// SaveJournal persists a journal and its legs in a single transaction.
	SaveJournal(ctx context.Context, journal domain.Journal, legs []domain.Transaction) error

	// ReplaceJournal soft-deletes the journal's current legs, inserts the new
	// set, and patches the journal header, all in one transaction.
	ReplaceJournal(ctx context.Context, journal domain.Journal, legs []domain.Transaction) error

	// SoftDeleteJournal marks the journal and all of its legs deleted together.
	SoftDeleteJournal(ctx context.Context, journalID string, deletedAt time.Time) error

	// SaveReversal inserts the reversing journal with its legs and flips the
	// original journal to REVERSED with the reversing link set, atomically.
	SaveReversal(ctx context.Context, reversing domain.Journal, legs []domain.Transaction, originalJournalID string) error

	// UpdateRunningBalances persists recomputed cached balances in one batch.
	UpdateRunningBalances(ctx context.Context, updates []RunningBalanceUpdate) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	LegReader
	JournalWriter
}
