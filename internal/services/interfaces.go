package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finguard/internal/models"
	"finguard/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName, phone string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// AccountServicer defines the contract for account-related business logic,
// including the balance recalculator.
type AccountServicer interface {
	CreateDefaultAccount(tx *gorm.DB, userID uint) (*models.Account, error)
	GetUserAccounts(userID uint) ([]models.Account, error)
	GetAccountByID(userID, accountID uint) (*models.Account, error)
	GetPrimaryAccount(userID uint) (*models.Account, error)
	RecalculateBalance(tx *gorm.DB, accountID uint) (decimal.Decimal, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, kind models.CategoryKind) (*models.Category, error)
	GetUserCategories(userID uint, kind *models.CategoryKind) ([]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	RenameCategory(userID, categoryID uint, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
// Date bounds are inclusive.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *uint
	Kind       *models.TransactionKind
}

// MonthlySummary contains income and expense totals for a single month.
type MonthlySummary struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// TransactionUpdate holds the editable fields of a transaction. Nil fields
// are left unchanged.
type TransactionUpdate struct {
	CategoryID  *uint
	Kind        *models.TransactionKind
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
}

// TransactionServicer defines the contract for transaction-related business
// logic, including the summary aggregator.
type TransactionServicer interface {
	CreateTransaction(userID, accountID, categoryID uint, kind models.TransactionKind, amount decimal.Decimal, date time.Time, description string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetRecentTransactions(userID uint, limit int) ([]models.Transaction, error)
	GetMonthlySummary(userID uint, year, month int) (*MonthlySummary, error)
	GetExpensesByCategory(userID uint, from, to time.Time) (map[string]decimal.Decimal, error)
}

// BudgetLevel classifies budget consumption.
type BudgetLevel string

const (
	BudgetLevelGood    BudgetLevel = "GOOD"
	BudgetLevelWarning BudgetLevel = "WARNING"
	BudgetLevelDanger  BudgetLevel = "DANGER"
)

// BudgetStatus contains consumption data for a budget, computed fresh from
// current transaction state on every call.
type BudgetStatus struct {
	BudgetID   uint            `json:"budget_id"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	Level      BudgetLevel     `json:"level"`
	IsExceeded bool            `json:"is_exceeded"`
}

// AlertKind distinguishes the two alert messages a budget can produce.
type AlertKind string

const (
	AlertKindWarning  AlertKind = "WARNING"
	AlertKindExceeded AlertKind = "EXCEEDED"
)

// BudgetAlert is a user-facing alert for a budget nearing or over its limit.
type BudgetAlert struct {
	BudgetID   uint            `json:"budget_id"`
	Category   string          `json:"category"`
	Kind       AlertKind       `json:"kind"`
	Percentage float64         `json:"percentage"`
	Remaining  decimal.Decimal `json:"remaining"`
	Overrun    decimal.Decimal `json:"overrun"`
	Message    string          `json:"message"`
}

// BudgetSummary contains per-level counts of a user's active budgets.
type BudgetSummary struct {
	Total    int `json:"total"`
	Exceeded int `json:"exceeded"`
	Warning  int `json:"warning"`
	Good     int `json:"good"`
}

// BudgetUpdate holds the editable fields of a budget. Nil fields are left
// unchanged. Changing the category or period re-runs overlap validation.
type BudgetUpdate struct {
	CategoryID  *uint
	Amount      *decimal.Decimal
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// BudgetServicer defines the contract for budget-related business logic:
// overlap validation, status evaluation, and alert generation.
type BudgetServicer interface {
	CreateBudget(userID, categoryID uint, amount decimal.Decimal, periodStart, periodEnd time.Time) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, update BudgetUpdate) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetActiveBudgets(userID uint, on time.Time) ([]models.Budget, error)
	GetBudgetStatus(budget *models.Budget) (*BudgetStatus, error)
	GetBudgetSummary(userID uint) (*BudgetSummary, error)
	CheckBudgetAlerts(userID uint, txn *models.Transaction) ([]BudgetAlert, error)
}
