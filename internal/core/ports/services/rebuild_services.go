package services

import (
	"context"
	"time"
)

// RebuildQueueSvcFacade deduplicates and applies running-balance recomputation
// requests off the synchronous write path.
type RebuildQueueSvcFacade interface {
	// EnqueueMany queues a rebuild for each account from fromDate forward. An
	// account already queued with an earlier-or-equal date is left alone;
	// otherwise its queued date is lowered to the minimum.
	EnqueueMany(accountIDs []string, fromDate time.Time)

	// ProcessPending drains the queue once, rebuilding each queued account.
	// Per-account failures are logged and requeued; the return value is the
	// number of accounts rebuilt successfully.
	ProcessPending(ctx context.Context) int

	// RebuildAccount recomputes and persists running balances for one account
	// from fromDate forward. A zero fromDate rebuilds the entire history.
	RebuildAccount(ctx context.Context, accountID string, fromDate time.Time) error

	// PendingCount reports the number of accounts currently queued.
	PendingCount() int

	// Run processes the queue in the background until ctx is cancelled.
	Run(ctx context.Context)
}
