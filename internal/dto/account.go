package dto

import (
	"github.com/mgrewal/pennyledger/internal/core/domain"
)

// CreateAccountRequest is the payload for creating an account.
type CreateAccountRequest struct {
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	CurrencyCode    string             `json:"currencyCode" binding:"required,currencycode"`
	ParentAccountID string             `json:"parentAccountID,omitempty"`
	OrderNum        int                `json:"orderNum,omitempty"`
	Description     string             `json:"description,omitempty"`
}
