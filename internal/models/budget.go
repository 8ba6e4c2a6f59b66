package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a spending cap for an expense category over an inclusive
// date period. For a given (user, category) pair no two budget periods may
// overlap, enforced at the service layer before every write.
type Budget struct {
	Base
	UserID      uint            `gorm:"not null;index:idx_budgets_user_period" json:"user_id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PeriodStart time.Time       `gorm:"not null;index:idx_budgets_user_period" json:"period_start"`
	PeriodEnd   time.Time       `gorm:"not null;index:idx_budgets_user_period" json:"period_end"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// ContainsDate reports whether d falls within the budget's inclusive period.
func (b *Budget) ContainsDate(d time.Time) bool {
	day := d.Truncate(24 * time.Hour)
	return !day.Before(b.PeriodStart.Truncate(24*time.Hour)) &&
		!day.After(b.PeriodEnd.Truncate(24*time.Hour))
}

// Overlaps reports whether two inclusive periods share at least one day.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}
