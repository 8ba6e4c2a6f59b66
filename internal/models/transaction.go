package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind represents the direction of a transaction.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "INCOME"
	TransactionKindExpense TransactionKind = "EXPENSE"
)

// Transaction represents a single money movement against an account.
// Amount is always positive; the sign is implied by Kind. A transaction's
// kind must match its category's kind, enforced at the service layer.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index:idx_transactions_user_kind" json:"user_id"`
	AccountID   uint            `gorm:"not null;index" json:"account_id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Kind        TransactionKind `gorm:"not null;size:10;index:idx_transactions_user_kind" json:"kind"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `json:"description,omitempty"`

	// Relationships
	Account  Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
