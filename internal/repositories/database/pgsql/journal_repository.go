package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mgrewal/pennyledger/internal/apperrors"
	"github.com/mgrewal/pennyledger/internal/core/domain"
	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	"github.com/mgrewal/pennyledger/internal/models"
	"github.com/mgrewal/pennyledger/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal and transaction data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func toModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:          d.JournalID,
		JournalDate:        d.JournalDate,
		Description:        d.Description,
		CurrencyCode:       d.CurrencyCode,
		Status:             string(d.Status),
		DisplayType:        string(d.DisplayType),
		TotalAmount:        d.TotalAmount,
		TransactionCount:   d.TransactionCount,
		ReversingJournalID: d.ReversingJournalID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
		DeletedAt: d.DeletedAt,
	}
}

func toDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:          m.JournalID,
		JournalDate:        m.JournalDate,
		Description:        m.Description,
		CurrencyCode:       m.CurrencyCode,
		Status:             domain.JournalStatus(m.Status),
		DisplayType:        domain.JournalDisplayType(m.DisplayType),
		TotalAmount:        m.TotalAmount,
		TransactionCount:   m.TransactionCount,
		ReversingJournalID: m.ReversingJournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
		DeletedAt: m.DeletedAt,
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		JournalID:       m.JournalID,
		AccountID:       m.AccountID,
		Amount:          m.Amount,
		TransactionType: domain.TransactionType(m.TransactionType),
		CurrencyCode:    m.CurrencyCode,
		TransactionDate: m.TransactionDate,
		ExchangeRate:    m.ExchangeRate,
		Notes:           m.Notes,
		RunningBalance:  m.RunningBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
		DeletedAt: m.DeletedAt,
	}
}

const journalColumns = `journal_id, journal_date, description, currency_code, status, display_type, total_amount, transaction_count, reversing_journal_id, created_at, last_updated_at, deleted_at`

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.JournalDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.DisplayType,
		&m.TotalAmount,
		&m.TransactionCount,
		&m.ReversingJournalID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
		&m.DeletedAt,
	)
	return m, err
}

const transactionColumns = `t.transaction_id, t.journal_id, t.account_id, t.amount, t.transaction_type, t.currency_code, t.transaction_date, t.exchange_rate, t.notes, t.running_balance, t.created_at, t.last_updated_at, t.deleted_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.JournalID,
		&m.AccountID,
		&m.Amount,
		&m.TransactionType,
		&m.CurrencyCode,
		&m.TransactionDate,
		&m.ExchangeRate,
		&m.Notes,
		&m.RunningBalance,
		&m.CreatedAt,
		&m.LastUpdatedAt,
		&m.DeletedAt,
	)
	return m, err
}

const insertJournalQuery = `
	INSERT INTO journals (journal_id, journal_date, description, currency_code, status, display_type, total_amount, transaction_count, reversing_journal_id, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, journal_id, account_id, amount, transaction_type, currency_code, transaction_date, exchange_rate, notes, running_balance, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

// insertJournalTx inserts a journal header inside a transaction.
func insertJournalTx(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	m := toModelJournal(journal)
	_, err := tx.Exec(ctx, insertJournalQuery,
		m.JournalID,
		m.JournalDate,
		m.Description,
		m.CurrencyCode,
		m.Status,
		m.DisplayType,
		m.TotalAmount,
		m.TransactionCount,
		m.ReversingJournalID,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal %s: %w", m.JournalID, err)
	}
	return nil
}

// insertLegsTx batch-inserts journal legs inside a transaction.
func insertLegsTx(ctx context.Context, tx pgx.Tx, legs []domain.Transaction) error {
	batch := &pgx.Batch{}
	for _, leg := range legs {
		batch.Queue(insertTransactionQuery,
			leg.TransactionID,
			leg.JournalID,
			leg.AccountID,
			leg.Amount,
			string(leg.TransactionType),
			leg.CurrencyCode,
			leg.TransactionDate,
			leg.EffectiveRate(),
			leg.Notes,
			leg.RunningBalance,
			leg.CreatedAt,
			leg.LastUpdatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert transactions: %w", err)
	}
	return nil
}

// SaveJournal persists a journal and its legs in a single transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, legs []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer r.Rollback(ctx, tx)

	if err := insertJournalTx(ctx, tx, journal); err != nil {
		return err
	}
	if err := insertLegsTx(ctx, tx, legs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceJournal soft-deletes the journal's current legs, inserts the new set
// and patches the header, all atomically.
func (r *PgxJournalRepository) ReplaceJournal(ctx context.Context, journal domain.Journal, legs []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer r.Rollback(ctx, tx)

	now := journal.LastUpdatedAt
	_, err = tx.Exec(ctx,
		`UPDATE transactions SET deleted_at = $2, last_updated_at = $2 WHERE journal_id = $1 AND deleted_at IS NULL;`,
		journal.JournalID, now,
	)
	if err != nil {
		return fmt.Errorf("failed to retire old transactions for journal %s: %w", journal.JournalID, err)
	}

	if err := insertLegsTx(ctx, tx, legs); err != nil {
		return err
	}

	m := toModelJournal(journal)
	tag, err := tx.Exec(ctx, `
		UPDATE journals
		SET journal_date = $2, description = $3, currency_code = $4, display_type = $5,
		    total_amount = $6, transaction_count = $7, last_updated_at = $8
		WHERE journal_id = $1 AND deleted_at IS NULL;`,
		m.JournalID, m.JournalDate, m.Description, m.CurrencyCode, m.DisplayType,
		m.TotalAmount, m.TransactionCount, m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal %s: %w", m.JournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("journal %s: %w", m.JournalID, apperrors.ErrNotFound)
	}
	return tx.Commit(ctx)
}

// SoftDeleteJournal marks the journal and all of its legs deleted together.
func (r *PgxJournalRepository) SoftDeleteJournal(ctx context.Context, journalID string, deletedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx,
		`UPDATE journals SET deleted_at = $2, last_updated_at = $2 WHERE journal_id = $1 AND deleted_at IS NULL;`,
		journalID, deletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to delete journal %s: %w", journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("journal %s: %w", journalID, apperrors.ErrNotFound)
	}

	_, err = tx.Exec(ctx,
		`UPDATE transactions SET deleted_at = $2, last_updated_at = $2 WHERE journal_id = $1 AND deleted_at IS NULL;`,
		journalID, deletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transactions for journal %s: %w", journalID, err)
	}
	return tx.Commit(ctx)
}

// SaveReversal inserts the reversing journal with its legs and flips the
// original to REVERSED with the reversing link set, atomically.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.Journal, legs []domain.Transaction, originalJournalID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer r.Rollback(ctx, tx)

	if err := insertJournalTx(ctx, tx, reversing); err != nil {
		return err
	}
	if err := insertLegsTx(ctx, tx, legs); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE journals
		SET status = $2, reversing_journal_id = $3, last_updated_at = $4
		WHERE journal_id = $1 AND deleted_at IS NULL AND status = $5;`,
		originalJournalID, string(domain.Reversed), reversing.JournalID, reversing.CreatedAt, string(domain.Posted),
	)
	if err != nil {
		return fmt.Errorf("failed to mark journal %s reversed: %w", originalJournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("journal %s is not reversible: %w", originalJournalID, apperrors.ErrConflict)
	}
	return tx.Commit(ctx)
}

// UpdateRunningBalances persists recomputed cached balances in one batch.
func (r *PgxJournalRepository) UpdateRunningBalances(ctx context.Context, updates []portsrepo.RunningBalanceUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, update := range updates {
		batch.Queue(
			`UPDATE transactions SET running_balance = $2 WHERE transaction_id = $1;`,
			update.TransactionID, update.RunningBalance,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to update running balances: %w", err)
	}
	return tx.Commit(ctx)
}

// FindJournalByID retrieves an active journal header.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1 AND deleted_at IS NULL;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("journal %s: %w", journalID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}

	journal := toDomainJournal(m)
	return &journal, nil
}

// FindTransactionsByJournalID retrieves the active legs of a journal in
// stable insertion order.
func (r *PgxJournalRepository) FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.journal_id = $1 AND t.deleted_at IS NULL
		ORDER BY t.created_at, t.transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListJournals retrieves a page of active journals, newest first.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := []any{limit + 1}
	query := `SELECT ` + journalColumns + ` FROM journals WHERE deleted_at IS NULL`
	if nextToken != nil && *nextToken != "" {
		journalDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (journal_date, created_at) < ($2, $3)`
		args = append(args, journalDate, createdAt)
	}
	query += ` ORDER BY journal_date DESC, created_at DESC LIMIT $1;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	var journals []domain.Journal
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		journals = append(journals, toDomainJournal(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var token *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[len(journals)-1]
		t := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		token = &t
	}
	return journals, token, nil
}

// activeLegFilter joins legs to their journals so soft-deleted journals drop
// out of every balance-affecting query in one place.
const activeLegFilter = `
	FROM transactions t
	JOIN journals j ON j.journal_id = t.journal_id
	WHERE t.deleted_at IS NULL AND j.deleted_at IS NULL
`

// ledger order: transaction_date, then created_at, then id as stable tiebreak.
const legOrder = ` ORDER BY t.transaction_date, t.created_at, t.transaction_id`

// ListActiveLegsByAccount retrieves all active legs for one account in ledger
// order, optionally bounded by transaction_date <= until.
func (r *PgxJournalRepository) ListActiveLegsByAccount(ctx context.Context, accountID string, until *time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + activeLegFilter + ` AND t.account_id = $1`
	args := []any{accountID}
	if until != nil {
		query += ` AND t.transaction_date <= $2`
		args = append(args, *until)
	}
	query += legOrder + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query legs for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListActiveLegsByAccounts retrieves active legs for many accounts at once,
// grouped by account ID.
func (r *PgxJournalRepository) ListActiveLegsByAccounts(ctx context.Context, accountIDs []string) (map[string][]domain.Transaction, error) {
	if len(accountIDs) == 0 {
		return map[string][]domain.Transaction{}, nil
	}

	query := `SELECT ` + transactionColumns + activeLegFilter + ` AND t.account_id = ANY($1)` + legOrder + `;`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query legs: %w", err)
	}
	defer rows.Close()

	legs, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.Transaction, len(accountIDs))
	for _, leg := range legs {
		grouped[leg.AccountID] = append(grouped[leg.AccountID], leg)
	}
	return grouped, nil
}

// FindLatestLegAtOrBefore returns the last active leg with
// transaction_date <= cutoff.
func (r *PgxJournalRepository) FindLatestLegAtOrBefore(ctx context.Context, accountID string, cutoff time.Time) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + activeLegFilter + `
		AND t.account_id = $1 AND t.transaction_date <= $2
		ORDER BY t.transaction_date DESC, t.created_at DESC, t.transaction_id DESC
		LIMIT 1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, accountID, cutoff))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no leg for account %s at or before %s: %w", accountID, cutoff.Format(time.RFC3339), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find latest leg for account %s: %w", accountID, err)
	}

	leg := toDomainTransaction(m)
	return &leg, nil
}

// HasLegAfter reports whether the account has any active leg dated strictly
// after the given date.
func (r *PgxJournalRepository) HasLegAfter(ctx context.Context, accountID string, date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 ` + activeLegFilter + ` AND t.account_id = $1 AND t.transaction_date > $2);`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, accountID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check later legs for account %s: %w", accountID, err)
	}
	return exists, nil
}

// collectTransactions drains leg rows into domain transactions.
func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var legs []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		legs = append(legs, toDomainTransaction(m))
	}
	return legs, rows.Err()
}
