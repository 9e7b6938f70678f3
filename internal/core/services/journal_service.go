package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mgrewal/pennyledger/internal/apperrors"
	"github.com/mgrewal/pennyledger/internal/core/domain"
	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/dto"
	"github.com/mgrewal/pennyledger/internal/events"
	"github.com/mgrewal/pennyledger/internal/middleware"
	"github.com/mgrewal/pennyledger/internal/utils/accounting"
	"github.com/mgrewal/pennyledger/internal/utils/journalcalc"
)

var (
	ErrJournalUnbalanced  = errors.New("journal entries do not balance to zero")
	ErrJournalMinEntries  = errors.New("journal must have at least two transaction entries")
	ErrJournalMinAccounts = errors.New("journal must affect at least two different accounts")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNotPosted          = errors.New("journal must be posted to be modified")
	ErrDescriptionMissing = errors.New("journal description is required")
	ErrInvalidDate        = errors.New("journal date is invalid")
)

// journalService orchestrates the journal lifecycle: validation, atomic
// persistence, reversal linkage and rebuild scheduling.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	currencySvc portssvc.CurrencySvcFacade
	auditSvc    portssvc.AuditSvcFacade
	rebuildSvc  portssvc.RebuildQueueSvcFacade
	bus         *events.Bus
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	currencySvc portssvc.CurrencySvcFacade,
	auditSvc portssvc.AuditSvcFacade,
	rebuildSvc portssvc.RebuildQueueSvcFacade,
	bus *events.Bus,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		currencySvc: currencySvc,
		auditSvc:    auditSvc,
		rebuildSvc:  rebuildSvc,
		bus:         bus,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// resolveAccounts fetches the distinct accounts touched by the request legs
// and fails with ErrAccountNotFound for any missing ID.
func (s *journalService) resolveAccounts(ctx context.Context, legs []dto.CreateTransactionRequest) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(legs))
	for _, leg := range legs {
		accountIDs = append(accountIDs, leg.AccountID)
	}
	uniqueIDs := uniqueStrings(accountIDs)

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, uniqueIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueIDs {
		if _, found := accounts[id]; !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
	}
	return accounts, nil
}

// buildLegs converts request legs into domain transactions: each amount is
// rounded to its account currency's precision, dates default to the journal
// date, and rates default to 1.
func (s *journalService) buildLegs(ctx context.Context, journalID string, journalDate time.Time, accounts map[string]domain.Account, reqLegs []dto.CreateTransactionRequest, now time.Time) ([]domain.Transaction, error) {
	one := decimal.NewFromInt(1)
	legs := make([]domain.Transaction, len(reqLegs))
	for i, req := range reqLegs {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: transaction amount must be positive for account %s", apperrors.ErrValidation, req.AccountID)
		}

		account := accounts[req.AccountID]
		precision := s.currencySvc.GetPrecision(ctx, account.CurrencyCode)

		rate := one
		if req.ExchangeRate != nil && req.ExchangeRate.IsPositive() {
			rate = *req.ExchangeRate
		}

		transactionDate := journalDate
		if req.TransactionDate != nil {
			transactionDate = *req.TransactionDate
		}

		legs[i] = domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       journalID,
			AccountID:       req.AccountID,
			Amount:          accounting.RoundToPrecision(req.Amount, precision),
			TransactionType: req.TransactionType,
			CurrencyCode:    account.CurrencyCode,
			TransactionDate: transactionDate,
			ExchangeRate:    rate,
			Notes:           req.Notes,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
	}
	return legs, nil
}

// validateBalance runs the double-entry check over prepared legs using the
// journal currency's minor-unit tolerance.
func (s *journalService) validateBalance(ctx context.Context, currencyCode string, legs []domain.Transaction) error {
	lines := make([]accounting.BalanceLine, len(legs))
	for i, leg := range legs {
		lines[i] = accounting.BalanceLine{
			Amount:          leg.Amount,
			ExchangeRate:    leg.ExchangeRate,
			TransactionType: leg.TransactionType,
		}
	}
	tolerance := accounting.ToleranceForPrecision(s.currencySvc.GetPrecision(ctx, currencyCode))
	check := accounting.ValidateBalance(lines, tolerance)
	if !check.IsValid {
		return fmt.Errorf("%w: imbalance is %s (debits %s, credits %s)",
			ErrJournalUnbalanced, check.Imbalance.String(), check.TotalDebits.String(), check.TotalCredits.String())
	}
	return nil
}

// displayTypeFor infers the journal's presentation class from the account
// types its legs touch: any expense leg wins, then any income leg, else transfer.
func displayTypeFor(legs []domain.Transaction, accounts map[string]domain.Account) domain.JournalDisplayType {
	hasIncome := false
	for _, leg := range legs {
		switch accounts[leg.AccountID].AccountType {
		case domain.Expense:
			return domain.DisplayExpense
		case domain.Income:
			hasIncome = true
		}
	}
	if hasIncome {
		return domain.DisplayIncome
	}
	return domain.DisplayTransfer
}

// journalTotals returns max(|debits|, |credits|) in journal-currency terms,
// rounded to the journal currency's precision.
func journalTotals(legs []domain.Transaction, precision int) decimal.Decimal {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, leg := range legs {
		base := leg.Amount.Mul(leg.EffectiveRate())
		if leg.TransactionType == domain.Debit {
			totalDebits = totalDebits.Add(base)
		} else {
			totalCredits = totalCredits.Add(base)
		}
	}
	if totalCredits.GreaterThan(totalDebits) {
		return accounting.RoundToPrecision(totalCredits, precision)
	}
	return accounting.RoundToPrecision(totalDebits, precision)
}

// applyInlineRunningBalances computes each new leg's cached balance when the
// write is not backdated for its account. Backdated legs are left for the
// rebuild queue, which is enqueued unconditionally as the safety net.
func (s *journalService) applyInlineRunningBalances(ctx context.Context, legs []domain.Transaction, accounts map[string]domain.Account) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Local fold state so multiple legs on one account within this journal chain correctly.
	current := make(map[string]decimal.Decimal)

	for i := range legs {
		leg := &legs[i]
		account := accounts[leg.AccountID]

		hasLater, err := s.journalRepo.HasLegAfter(ctx, leg.AccountID, leg.TransactionDate)
		if err != nil {
			logger.Warn("Skipping inline running balance", slog.String("account_id", leg.AccountID), slog.String("error", err.Error()))
			continue
		}
		if hasLater {
			// Backdated insert: the rebuild queue owns this account's history.
			continue
		}

		prior, ok := current[leg.AccountID]
		if !ok {
			priorLeg, err := s.journalRepo.FindLatestLegAtOrBefore(ctx, leg.AccountID, leg.TransactionDate)
			switch {
			case err == nil:
				prior = priorLeg.RunningBalance
			case errors.Is(err, apperrors.ErrNotFound):
				prior = decimal.Zero
			default:
				logger.Warn("Skipping inline running balance", slog.String("account_id", leg.AccountID), slog.String("error", err.Error()))
				continue
			}
		}

		signed, err := accounting.SignedAmount(leg.Amount, account.AccountType, leg.TransactionType)
		if err != nil {
			logger.Warn("Skipping inline running balance", slog.String("account_id", leg.AccountID), slog.String("error", err.Error()))
			continue
		}
		precision := s.currencySvc.GetPrecision(ctx, account.CurrencyCode)
		balance := accounting.RoundToPrecision(prior.Add(signed), precision)
		leg.RunningBalance = balance
		current[leg.AccountID] = balance
	}
}

// CreateJournal validates, balances and atomically persists a new journal.
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Transactions) < 2 {
		return nil, ErrJournalMinEntries
	}
	accountIDs := make([]string, 0, len(req.Transactions))
	for _, leg := range req.Transactions {
		accountIDs = append(accountIDs, leg.AccountID)
	}
	if err := accounting.ValidateDistinctAccounts(accountIDs); err != nil {
		return nil, ErrJournalMinAccounts
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionMissing
	}

	accounts, err := s.resolveAccounts(ctx, req.Transactions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	legs, err := s.buildLegs(ctx, journalID, req.Date, accounts, req.Transactions, now)
	if err != nil {
		return nil, err
	}

	if err := s.validateBalance(ctx, req.CurrencyCode, legs); err != nil {
		return nil, err
	}

	s.applyInlineRunningBalances(ctx, legs, accounts)

	journal := domain.Journal{
		JournalID:        journalID,
		JournalDate:      req.Date,
		Description:      req.Description,
		CurrencyCode:     req.CurrencyCode,
		Status:           domain.Posted,
		DisplayType:      displayTypeFor(legs, accounts),
		TotalAmount:      journalTotals(legs, s.currencySvc.GetPrecision(ctx, req.CurrencyCode)),
		TransactionCount: len(legs),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.journalRepo.SaveJournal(ctx, journal, legs); err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	s.auditSvc.Log(ctx, "journal", journalID, "create", journal)

	// Safety net: covers the backdated and edge cases uniformly. The anchor
	// must reach the earliest touched date, which a per-leg date override can
	// pull before the journal date.
	touched := uniqueStrings(accountIDs)
	anchor := earliestLegDate(req.Date, legs)
	s.rebuildSvc.EnqueueMany(touched, anchor)
	s.bus.Publish(events.LedgerChanged{JournalID: journalID, AccountIDs: touched, Date: anchor, Action: "create"})

	logger.Info("Journal created", slog.String("journal_id", journalID), slog.Int("legs", len(legs)))
	journal.Transactions = nil
	return &journal, nil
}

// GetJournalByID retrieves a journal with its legs populated.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	legs, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions for journal %s: %w", journalID, err)
	}
	journal.Transactions = legs
	return journal, nil
}

// ListJournals retrieves a paginated list of journals.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list journals", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	responses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		if params.IncludeTransactions {
			legs, err := s.journalRepo.FindTransactionsByJournalID(ctx, journals[i].JournalID)
			if err != nil {
				logger.Warn("Failed to fetch transactions for journal", slog.String("journal_id", journals[i].JournalID), slog.String("error", err.Error()))
			} else {
				journals[i].Transactions = legs
			}
		}
		responses[i] = dto.ToJournalResponse(&journals[i])
	}

	return &dto.ListJournalsResponse{Journals: responses, NextToken: nextToken}, nil
}

// UpdateJournal replaces a POSTED journal's legs and patches its header. The
// rebuild anchor is min(oldDate, newDate) over the union of old and new
// accounts, which also covers accounts that were added or removed entirely.
func (s *journalService) UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.Posted {
		return nil, ErrNotPosted
	}

	oldLegs, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve current transactions: %w", err)
	}

	if len(req.Transactions) < 2 {
		return nil, ErrJournalMinEntries
	}
	newAccountIDs := make([]string, 0, len(req.Transactions))
	for _, leg := range req.Transactions {
		newAccountIDs = append(newAccountIDs, leg.AccountID)
	}
	if err := accounting.ValidateDistinctAccounts(newAccountIDs); err != nil {
		return nil, ErrJournalMinAccounts
	}

	oldDate := journal.JournalDate
	if req.Date != nil {
		journal.JournalDate = *req.Date
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrDescriptionMissing
		}
		journal.Description = *req.Description
	}
	if req.CurrencyCode != nil {
		journal.CurrencyCode = *req.CurrencyCode
	}

	accounts, err := s.resolveAccounts(ctx, req.Transactions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	legs, err := s.buildLegs(ctx, journalID, journal.JournalDate, accounts, req.Transactions, now)
	if err != nil {
		return nil, err
	}
	if err := s.validateBalance(ctx, journal.CurrencyCode, legs); err != nil {
		return nil, err
	}

	journal.DisplayType = displayTypeFor(legs, accounts)
	journal.TotalAmount = journalTotals(legs, s.currencySvc.GetPrecision(ctx, journal.CurrencyCode))
	journal.TransactionCount = len(legs)
	journal.LastUpdatedAt = now

	if err := s.journalRepo.ReplaceJournal(ctx, *journal, legs); err != nil {
		logger.Error("Failed to replace journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update journal: %w", err)
	}

	s.auditSvc.Log(ctx, "journal", journalID, "update", journal)

	// Union of old and new accounts, anchored at the earliest date any of the
	// old or new legs touched.
	touched := make([]string, 0, len(oldLegs)+len(legs))
	for _, leg := range oldLegs {
		touched = append(touched, leg.AccountID)
	}
	touched = append(touched, newAccountIDs...)
	touched = uniqueStrings(touched)

	anchor := journal.JournalDate
	if oldDate.Before(anchor) {
		anchor = oldDate
	}
	anchor = earliestLegDate(anchor, oldLegs, legs)
	s.rebuildSvc.EnqueueMany(touched, anchor)
	s.bus.Publish(events.LedgerChanged{JournalID: journalID, AccountIDs: touched, Date: anchor, Action: "update"})

	logger.Info("Journal updated", slog.String("journal_id", journalID), slog.Int("legs", len(legs)))
	journal.Transactions = nil
	return journal, nil
}

// DeleteJournal soft-deletes a journal and all its legs together.
func (s *journalService) DeleteJournal(ctx context.Context, journalID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return err
	}
	if journal.Status != domain.Posted {
		// A REVERSED journal and its mirror net to zero; deleting only one of
		// the pair would strand the other.
		return ErrNotPosted
	}
	legs, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.SoftDeleteJournal(ctx, journalID, now); err != nil {
		logger.Error("Failed to soft-delete journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete journal: %w", err)
	}

	s.auditSvc.Log(ctx, "journal", journalID, "delete", map[string]any{"deletedAt": now})

	touched := make([]string, 0, len(legs))
	for _, leg := range legs {
		touched = append(touched, leg.AccountID)
	}
	touched = uniqueStrings(touched)
	anchor := earliestLegDate(journal.JournalDate, legs)
	s.rebuildSvc.EnqueueMany(touched, anchor)
	s.bus.Publish(events.LedgerChanged{JournalID: journalID, AccountIDs: touched, Date: anchor, Action: "delete"})

	logger.Info("Journal deleted", slog.String("journal_id", journalID))
	return nil
}

// DuplicateJournal creates a copy of the journal dated now.
func (s *journalService) DuplicateJournal(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	legs, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	reqLegs := make([]dto.CreateTransactionRequest, len(legs))
	for i, leg := range legs {
		rate := leg.ExchangeRate
		reqLegs[i] = dto.CreateTransactionRequest{
			AccountID:       leg.AccountID,
			Amount:          leg.Amount,
			TransactionType: leg.TransactionType,
			ExchangeRate:    &rate,
			Notes:           leg.Notes,
		}
	}

	return s.CreateJournal(ctx, dto.CreateJournalRequest{
		Date:         time.Now().UTC(),
		Description:  fmt.Sprintf("Copy of %s", journal.Description),
		CurrencyCode: journal.CurrencyCode,
		Transactions: reqLegs,
	})
}

// ReverseJournal creates a mirrored journal dated now and marks the original
// REVERSED with the reversing link set, in one atomic write.
func (s *journalService) ReverseJournal(ctx context.Context, journalID string, reason string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: journal status is %s, expected POSTED", apperrors.ErrConflict, original.Status)
	}

	originalLegs, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve original transactions: %w", err)
	}

	accountIDs := make([]string, 0, len(originalLegs))
	for _, leg := range originalLegs {
		accountIDs = append(accountIDs, leg.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for reversal: %w", err)
	}

	now := time.Now().UTC()
	newJournalID := uuid.NewString()

	description := fmt.Sprintf("Reversal of: %s", original.Description)
	if strings.TrimSpace(reason) != "" {
		description = fmt.Sprintf("%s (%s)", description, reason)
	}

	mirrored := make([]domain.Transaction, len(originalLegs))
	for i, orig := range originalLegs {
		notes := orig.Notes
		if notes != "" {
			notes = "Reversal: " + notes
		}
		mirrored[i] = domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       newJournalID,
			AccountID:       orig.AccountID,
			Amount:          orig.Amount,
			TransactionType: orig.TransactionType.Opposite(),
			CurrencyCode:    orig.CurrencyCode,
			TransactionDate: now,
			ExchangeRate:    orig.EffectiveRate(),
			Notes:           notes,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
	}

	reversing := domain.Journal{
		JournalID:        newJournalID,
		JournalDate:      now,
		Description:      description,
		CurrencyCode:     original.CurrencyCode,
		Status:           domain.Posted,
		DisplayType:      displayTypeFor(mirrored, accounts),
		TotalAmount:      original.TotalAmount,
		TransactionCount: len(mirrored),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	s.applyInlineRunningBalances(ctx, mirrored, accounts)

	if err := s.journalRepo.SaveReversal(ctx, reversing, mirrored, original.JournalID); err != nil {
		logger.Error("Failed to save reversing journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversing journal: %w", err)
	}

	s.auditSvc.Log(ctx, "journal", journalID, "reverse", map[string]any{"reversingJournalID": newJournalID, "reason": reason})

	touched := uniqueStrings(accountIDs)
	s.rebuildSvc.EnqueueMany(touched, now)
	s.bus.Publish(events.LedgerChanged{JournalID: newJournalID, AccountIDs: touched, Date: now, Action: "reverse"})

	logger.Info("Journal reversed", slog.String("journal_id", journalID), slog.String("reversing_journal_id", newJournalID))
	reversing.Transactions = nil
	return &reversing, nil
}

// SaveJournalEntry is the user-facing save. Validation failure here is
// expected user input, reported in the result rather than as an error.
func (s *journalService) SaveJournalEntry(ctx context.Context, req dto.SaveJournalEntryRequest) dto.SaveJournalEntryResult {
	when, err := resolveEntryTimestamp(req)
	if err != nil {
		return dto.SaveJournalEntryResult{Error: err.Error()}
	}
	if strings.TrimSpace(req.Description) == "" {
		return dto.SaveJournalEntryResult{Error: ErrDescriptionMissing.Error()}
	}
	if len(req.Lines) < 2 {
		return dto.SaveJournalEntryResult{Error: ErrJournalMinEntries.Error()}
	}

	accountIDs := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		if strings.TrimSpace(line.AccountID) == "" {
			return dto.SaveJournalEntryResult{Error: "every line must reference an account"}
		}
		accountIDs = append(accountIDs, line.AccountID)
	}
	if err := accounting.ValidateDistinctAccounts(accountIDs); err != nil {
		return dto.SaveJournalEntryResult{Error: ErrJournalMinAccounts.Error()}
	}

	checkLines := make([]accounting.BalanceLine, len(req.Lines))
	reqLegs := make([]dto.CreateTransactionRequest, len(req.Lines))
	for i, line := range req.Lines {
		amount := journalcalc.ParseAmount(line.Amount)
		if amount.LessThanOrEqual(decimal.Zero) {
			return dto.SaveJournalEntryResult{Error: fmt.Sprintf("line %d has an invalid amount %q", i+1, line.Amount)}
		}
		rate := decimal.NewFromInt(1)
		if line.ExchangeRate != nil && line.ExchangeRate.IsPositive() {
			rate = *line.ExchangeRate
		}
		checkLines[i] = accounting.BalanceLine{
			Amount:          amount,
			ExchangeRate:    rate,
			TransactionType: line.TransactionType,
		}
		reqLegs[i] = dto.CreateTransactionRequest{
			AccountID:       line.AccountID,
			Amount:          amount,
			TransactionType: line.TransactionType,
			ExchangeRate:    &rate,
			Notes:           line.Notes,
		}
	}

	// Rates apply here exactly as in the persistence path, so the form check
	// and create/update validation always agree.
	tolerance := accounting.ToleranceForPrecision(s.currencySvc.GetPrecision(ctx, req.CurrencyCode))
	check := accounting.ValidateBalance(checkLines, tolerance)
	if !check.IsValid {
		imbalance := check.Imbalance
		return dto.SaveJournalEntryResult{
			Error:     fmt.Sprintf("journal does not balance: imbalance %s", imbalance.String()),
			Imbalance: &imbalance,
		}
	}

	if req.JournalID != nil && *req.JournalID != "" {
		journal, err := s.UpdateJournal(ctx, *req.JournalID, dto.UpdateJournalRequest{
			Date:         &when,
			Description:  &req.Description,
			CurrencyCode: &req.CurrencyCode,
			Transactions: reqLegs,
		})
		if err != nil {
			return dto.SaveJournalEntryResult{Error: err.Error()}
		}
		return dto.SaveJournalEntryResult{Success: true, Action: "updated", JournalID: journal.JournalID}
	}

	journal, err := s.CreateJournal(ctx, dto.CreateJournalRequest{
		Date:         when,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		Transactions: reqLegs,
	})
	if err != nil {
		return dto.SaveJournalEntryResult{Error: err.Error()}
	}
	return dto.SaveJournalEntryResult{Success: true, Action: "created", JournalID: journal.JournalID}
}

// resolveEntryTimestamp normalizes either a literal timestamp or a date (+
// optional time) pair into the journal date.
func resolveEntryTimestamp(req dto.SaveJournalEntryRequest) (time.Time, error) {
	if req.Timestamp != nil {
		return req.Timestamp.UTC(), nil
	}
	if strings.TrimSpace(req.Date) == "" {
		return time.Time{}, ErrInvalidDate
	}
	layout := "2006-01-02"
	value := req.Date
	if strings.TrimSpace(req.Time) != "" {
		layout = "2006-01-02 15:04"
		value = req.Date + " " + req.Time
	}
	when, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return when, nil
}

// earliestLegDate returns the earliest of base and every leg's transaction
// date. Zero dates are skipped.
func earliestLegDate(base time.Time, legSets ...[]domain.Transaction) time.Time {
	earliest := base
	for _, legs := range legSets {
		for _, leg := range legs {
			if !leg.TransactionDate.IsZero() && leg.TransactionDate.Before(earliest) {
				earliest = leg.TransactionDate
			}
		}
	}
	return earliest
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
