package models

import "time"

// Account is the database representation of a ledger account.
// ParentAccountID uses string for a nullable self-referencing foreign key.
type Account struct {
	AccountID       string `db:"account_id"`
	Name            string `db:"name"`
	AccountType     string `db:"account_type"`
	CurrencyCode    string `db:"currency_code"`
	ParentAccountID string `db:"parent_account_id"` // Nullable
	OrderNum        int    `db:"order_num"`
	Description     string `db:"description"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
