package models

import "github.com/shopspring/decimal"

// DefaultAccountName is the name of the account created for every new user.
const DefaultAccountName = "Main Account"

// Account represents a user's balance-holding account. The balance column is
// derived from the account's transaction set and is maintained exclusively by
// the balance recalculator; it must never be written directly.
type Account struct {
	Base
	UserID  uint            `gorm:"not null;index" json:"user_id"`
	Name    string          `gorm:"not null;default:'Main Account'" json:"name"`
	Balance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
