package models

// CategoryKind classifies a category as income or expense.
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "INCOME"
	CategoryKindExpense CategoryKind = "EXPENSE"
)

// Category represents a transaction classification tag. System-seeded default
// categories have a nil UserID and IsDefault set; user-created categories
// belong to exactly one user. Kind is immutable once created.
type Category struct {
	Base
	UserID    *uint        `gorm:"index" json:"user_id,omitempty"`
	Name      string       `gorm:"not null;size:50" json:"name"`
	Kind      CategoryKind `gorm:"not null;size:10" json:"kind"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}

// DefaultExpenseCategories are the system-seeded expense categories.
var DefaultExpenseCategories = []string{
	"Food", "Rent", "Transport", "Entertainment",
	"Bills", "Shopping", "Health", "Other",
}

// DefaultIncomeCategories are the system-seeded income categories.
var DefaultIncomeCategories = []string{
	"Salary", "Freelance", "Investment", "Gift", "Other",
}
