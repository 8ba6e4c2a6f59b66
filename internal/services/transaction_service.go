package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finguard/internal/errors"
	"finguard/internal/models"
	"finguard/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// dayOf normalizes a timestamp to its calendar day in UTC. Transaction and
// budget dates are day-granular, which keeps inclusive range comparisons
// exact.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTransaction records a new income or expense entry. The transaction
// kind must match the category kind, and the account balance is recalculated
// in the same database transaction as the insert.
func (s *transactionService) CreateTransaction(
	userID, accountID, categoryID uint,
	kind models.TransactionKind,
	amount decimal.Decimal,
	date time.Time,
	description string,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	category, err := s.visibleCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if models.CategoryKind(kind) != category.Kind {
		return nil, apperrors.ErrCategoryKindMismatch
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Kind:        kind,
		Amount:      amount,
		Date:        dayOf(date),
		Description: description,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_, err := s.accountService.RecalculateBalance(tx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// UpdateTransaction edits an existing transaction. Kind-vs-category
// validation re-runs against the resulting state, and the account balance is
// recalculated in the same database transaction as the update.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if update.CategoryID != nil {
		transaction.CategoryID = *update.CategoryID
	}
	if update.Kind != nil {
		transaction.Kind = *update.Kind
	}
	if update.Amount != nil {
		if !update.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		transaction.Amount = *update.Amount
	}
	if update.Date != nil {
		transaction.Date = dayOf(*update.Date)
	}
	if update.Description != nil {
		transaction.Description = *update.Description
	}

	category, err := s.visibleCategory(userID, transaction.CategoryID)
	if err != nil {
		return nil, err
	}
	if models.CategoryKind(transaction.Kind) != category.Kind {
		return nil, apperrors.ErrCategoryKindMismatch
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_, err := s.accountService.RecalculateBalance(tx, transaction.AccountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// DeleteTransaction removes a transaction and recalculates the owning
// account's balance in the same database transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_, err := s.accountService.RecalculateBalance(tx, transaction.AccountID)
		return err
	})
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first. Same-day transactions are ordered by creation
// order, newest first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecentTransactions returns the user's most recent transactions for the
// dashboard.
func (s *transactionService) GetRecentTransactions(userID uint, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetMonthlySummary sums the user's transactions for the given month, split
// by kind. Months with no transactions yield zero totals.
func (s *transactionService) GetMonthlySummary(userID uint, year, month int) (*MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	sumKind := func(kind models.TransactionKind) (decimal.Decimal, error) {
		var total decimal.NullDecimal
		err := s.db.Model(&models.Transaction{}).
			Select("SUM(amount)").
			Where("user_id = ? AND kind = ? AND date >= ? AND date < ?", userID, kind, monthStart, nextMonth).
			Scan(&total).Error
		if err != nil {
			return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !total.Valid {
			return decimal.Zero, nil
		}
		return total.Decimal, nil
	}

	income, err := sumKind(models.TransactionKindIncome)
	if err != nil {
		return nil, err
	}
	expense, err := sumKind(models.TransactionKindExpense)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{
		Year:    year,
		Month:   month,
		Income:  income,
		Expense: expense,
		Net:     income.Sub(expense),
	}, nil
}

// GetExpensesByCategory returns the user's expense totals per category name
// for the inclusive date range. Categories with no expenses in range are
// omitted.
func (s *transactionService) GetExpensesByCategory(userID uint, from, to time.Time) (map[string]decimal.Decimal, error) {
	type categoryTotal struct {
		Name  string
		Total decimal.Decimal
	}

	var rows []categoryTotal
	err := s.db.Model(&models.Transaction{}).
		Select("categories.name AS name, SUM(transactions.amount) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.kind = ? AND transactions.date >= ? AND transactions.date <= ?",
			userID, models.TransactionKindExpense, dayOf(from), dayOf(to)).
		Group("categories.name").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[row.Name] = row.Total
	}
	return result, nil
}

// visibleCategory loads a category the user may post against: a system
// default or one of the user's own.
func (s *transactionService) visibleCategory(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("id = ? AND (is_default = ? OR user_id = ?)", categoryID, true, userID).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", dayOf(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", dayOf(*f.ToDate))
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Kind != nil {
		q = q.Where("kind = ?", *f.Kind)
	}
	return q
}
