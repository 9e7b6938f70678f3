package services

import (
	"context"

	"github.com/mgrewal/pennyledger/internal/core/domain"
	"github.com/mgrewal/pennyledger/internal/dto"
)

// JournalSvcFacade orchestrates the journal lifecycle: create, update, delete,
// duplicate and reverse, plus the user-facing save entrypoint.
type JournalSvcFacade interface {
	// CreateJournal validates, balances and atomically persists a new journal
	// with its legs. The journal is POSTED on success.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest) (*domain.Journal, error)

	// GetJournalByID retrieves a journal with its legs populated.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)

	// UpdateJournal replaces a POSTED journal's legs and patches its header.
	UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest) (*domain.Journal, error)

	// DeleteJournal soft-deletes a journal and all its legs together.
	DeleteJournal(ctx context.Context, journalID string) error

	// DuplicateJournal creates a copy of the journal dated now.
	DuplicateJournal(ctx context.Context, journalID string) (*domain.Journal, error)

	// ReverseJournal creates a mirrored journal and marks the original REVERSED.
	ReverseJournal(ctx context.Context, journalID string, reason string) (*domain.Journal, error)

	// SaveJournalEntry is the user-facing save: it normalizes dates, validates
	// input and dispatches to create or update. Validation failure is returned
	// in the result, not as an error.
	SaveJournalEntry(ctx context.Context, req dto.SaveJournalEntryRequest) dto.SaveJournalEntryResult
}
