package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgrewal/pennyledger/internal/apperrors"
	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/utils/accounting"
)

// rebuildQueueService deduplicates "recompute running balances for account X
// from date D forward" requests and applies them off the synchronous write
// path. Processing is idempotent: re-running a rebuild recomputes the same
// values and changes nothing.
type rebuildQueueService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
	logger      *slog.Logger
	interval    time.Duration

	mu      sync.Mutex
	pending map[string]time.Time // accountID -> earliest fromDate
	wake    chan struct{}
}

// NewRebuildQueueService creates a new RebuildQueueService. interval is the
// periodic sweep cadence of Run; non-positive values fall back to 30s.
func NewRebuildQueueService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, currencySvc portssvc.CurrencySvcFacade, logger *slog.Logger, interval time.Duration) portssvc.RebuildQueueSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &rebuildQueueService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		currencySvc: currencySvc,
		logger:      logger,
		interval:    interval,
		pending:     make(map[string]time.Time),
		wake:        make(chan struct{}, 1),
	}
}

var _ portssvc.RebuildQueueSvcFacade = (*rebuildQueueService)(nil)

// EnqueueMany queues each account from fromDate forward, lowering an existing
// entry's date when the new request reaches further back.
func (s *rebuildQueueService) EnqueueMany(accountIDs []string, fromDate time.Time) {
	s.mu.Lock()
	for _, id := range accountIDs {
		if id == "" {
			continue
		}
		existing, queued := s.pending[id]
		if queued && !existing.After(fromDate) {
			continue
		}
		s.pending[id] = fromDate
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// PendingCount reports the number of accounts currently queued.
func (s *rebuildQueueService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ProcessPending drains the queue once. A failed account is logged and
// requeued with its original anchor; one failure never blocks the others.
func (s *rebuildQueueService) ProcessPending(ctx context.Context) int {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]time.Time)
	s.mu.Unlock()

	processed := 0
	for accountID, fromDate := range batch {
		if err := s.RebuildAccount(ctx, accountID, fromDate); err != nil {
			s.logger.Error("Running balance rebuild failed; account left queued",
				slog.String("account_id", accountID),
				slog.Time("from_date", fromDate),
				slog.String("error", err.Error()),
			)
			s.EnqueueMany([]string{accountID}, fromDate)
			continue
		}
		processed++
	}
	return processed
}

// RebuildAccount recomputes and persists running balances for one account from
// fromDate forward. The last leg strictly before fromDate seeds the starting
// balance (zero when none). A deleted account aborts silently.
func (s *rebuildQueueService) RebuildAccount(ctx context.Context, accountID string, fromDate time.Time) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Account deleted while queued; nothing to rebuild.
			return nil
		}
		return err
	}

	legs, err := s.journalRepo.ListActiveLegsByAccount(ctx, accountID, nil)
	if err != nil {
		return err
	}

	precision := s.currencySvc.GetPrecision(ctx, account.CurrencyCode)

	// Seed from the last leg strictly before fromDate; everything at or after
	// the anchor is recomputed.
	balance := decimal.Zero
	start := 0
	for i, leg := range legs {
		if leg.TransactionDate.Before(fromDate) {
			balance = leg.RunningBalance
			start = i + 1
		} else {
			break
		}
	}

	updates := make([]portsrepo.RunningBalanceUpdate, 0, len(legs)-start)
	for _, leg := range legs[start:] {
		signed, err := accounting.SignedAmount(leg.Amount, account.AccountType, leg.TransactionType)
		if err != nil {
			return err
		}
		balance = accounting.RoundToPrecision(balance.Add(signed), precision)
		updates = append(updates, portsrepo.RunningBalanceUpdate{
			TransactionID:  leg.TransactionID,
			RunningBalance: balance,
		})
	}

	if len(updates) == 0 {
		return nil
	}
	return s.journalRepo.UpdateRunningBalances(ctx, updates)
}

// Run processes the queue in the background until ctx is cancelled. A periodic
// tick catches anything requeued after a failure.
func (s *rebuildQueueService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-ticker.C:
		}
		if n := s.ProcessPending(ctx); n > 0 {
			s.logger.Debug("Running balance rebuilds applied", slog.Int("accounts", n))
		}
	}
}
