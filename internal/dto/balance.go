package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the result of a balance query.
type AccountBalance struct {
	AccountID        string          `json:"accountID"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
	AsOf             time.Time       `json:"asOf"`
}

// BalanceVerification compares a cached running balance to the authoritative
// full-scan computation for one account.
type BalanceVerification struct {
	AccountID       string          `json:"accountID"`
	CachedBalance   decimal.Decimal `json:"cachedBalance"`
	ComputedBalance decimal.Decimal `json:"computedBalance"`
	Difference      decimal.Decimal `json:"difference"`
	Matches         bool            `json:"matches"`
}

// StartupCheckResult summarizes the integrity sweep performed at startup.
type StartupCheckResult struct {
	TotalAccounts      int  `json:"totalAccounts"`
	DiscrepanciesFound int  `json:"discrepanciesFound"`
	RepairsAttempted   int  `json:"repairsAttempted"`
	RepairsSuccessful  int  `json:"repairsSuccessful"`
	Seeded             bool `json:"seeded"`
}
