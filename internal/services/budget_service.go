package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finguard/internal/errors"
	"finguard/internal/models"
	"finguard/internal/pagination"
)

// Budget level thresholds, evaluated as half-open bands on the consumption
// percentage: [0,70) good, [70,90) warning, [90,∞) danger.
const (
	levelWarningAt = 70.0
	levelDangerAt  = 90.0
	exceededAt     = 100.0
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget for an expense category. The period is
// validated and checked for overlap against the user's existing budgets for
// the same category inside the same database transaction as the insert, so
// two concurrent creations for overlapping periods cannot both succeed.
func (s *budgetService) CreateBudget(userID, categoryID uint, amount decimal.Decimal, periodStart, periodEnd time.Time) (*models.Budget, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	category, err := s.expenseCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  category.ID,
		Amount:      amount,
		PeriodStart: dayOf(periodStart),
		PeriodEnd:   dayOf(periodEnd),
	}
	if budget.PeriodStart.After(budget.PeriodEnd) {
		return nil, apperrors.ErrInvalidPeriod
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.validateNoOverlap(tx, userID, category.ID, budget.PeriodStart, budget.PeriodEnd, 0); err != nil {
			return err
		}
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	budget.Category = *category
	return budget, nil
}

// UpdateBudget edits an existing budget. Category and period are editable, so
// period and overlap validation re-run on every update, excluding the
// budget's own id from the overlap scan.
func (s *budgetService) UpdateBudget(userID, budgetID uint, update BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if update.CategoryID != nil {
		category, err := s.expenseCategory(userID, *update.CategoryID)
		if err != nil {
			return nil, err
		}
		budget.CategoryID = category.ID
		budget.Category = *category
	}
	if update.Amount != nil {
		if !update.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		budget.Amount = *update.Amount
	}
	if update.PeriodStart != nil {
		budget.PeriodStart = dayOf(*update.PeriodStart)
	}
	if update.PeriodEnd != nil {
		budget.PeriodEnd = dayOf(*update.PeriodEnd)
	}

	if budget.PeriodStart.After(budget.PeriodEnd) {
		return nil, apperrors.ErrInvalidPeriod
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.validateNoOverlap(tx, userID, budget.CategoryID, budget.PeriodStart, budget.PeriodEnd, budget.ID); err != nil {
			return err
		}
		if err := tx.Save(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget soft-deletes a budget. Transactions are never touched.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets, most recent
// period first.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("period_start DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetActiveBudgets returns the user's budgets whose period contains the given
// day.
func (s *budgetService) GetActiveBudgets(userID uint, on time.Time) ([]models.Budget, error) {
	day := dayOf(on)
	var budgets []models.Budget
	err := s.db.Preload("Category").
		Where("user_id = ? AND period_start <= ? AND period_end >= ?", userID, day, day).
		Order("period_start").
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetStatus computes the budget's consumption: the amount spent on its
// category within the inclusive period, the remaining amount (negative once
// spending passes the cap), the percentage used, and the level band. The
// result is derived fresh from current transaction state on every call and
// is never cached. A zero-amount budget reports 0% rather than failing on
// division.
func (s *budgetService) GetBudgetStatus(budget *models.Budget) (*BudgetStatus, error) {
	var spent decimal.NullDecimal
	err := s.db.Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("user_id = ? AND category_id = ? AND kind = ? AND date >= ? AND date <= ?",
			budget.UserID, budget.CategoryID, models.TransactionKindExpense,
			dayOf(budget.PeriodStart), dayOf(budget.PeriodEnd)).
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	if spent.Valid {
		total = spent.Decimal
	}

	remaining := budget.Amount.Sub(total)

	var percentage float64
	if budget.Amount.IsPositive() {
		percentage = total.Div(budget.Amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	level := BudgetLevelGood
	switch {
	case percentage >= levelDangerAt:
		level = BudgetLevelDanger
	case percentage >= levelWarningAt:
		level = BudgetLevelWarning
	}

	return &BudgetStatus{
		BudgetID:   budget.ID,
		Spent:      total,
		Remaining:  remaining,
		Percentage: percentage,
		Level:      level,
		IsExceeded: percentage >= exceededAt,
	}, nil
}

// GetBudgetSummary counts the user's active budgets per consumption band for
// dashboard display.
func (s *budgetService) GetBudgetSummary(userID uint) (*BudgetSummary, error) {
	budgets, err := s.GetActiveBudgets(userID, time.Now())
	if err != nil {
		return nil, err
	}

	summary := &BudgetSummary{Total: len(budgets)}
	for i := range budgets {
		status, err := s.GetBudgetStatus(&budgets[i])
		if err != nil {
			return nil, err
		}
		switch {
		case status.Percentage >= exceededAt:
			summary.Exceeded++
		case status.Percentage >= levelDangerAt:
			summary.Warning++
		default:
			summary.Good++
		}
	}
	return summary, nil
}

// CheckBudgetAlerts evaluates every budget affected by the given transaction:
// budgets of the same user and category whose period contains the transaction
// date. Called once after each transaction mutation; income transactions
// never produce alerts.
func (s *budgetService) CheckBudgetAlerts(userID uint, txn *models.Transaction) ([]BudgetAlert, error) {
	if txn == nil || txn.Kind != models.TransactionKindExpense {
		return nil, nil
	}

	day := dayOf(txn.Date)
	var budgets []models.Budget
	err := s.db.Preload("Category").
		Where("user_id = ? AND category_id = ? AND period_start <= ? AND period_end >= ?",
			userID, txn.CategoryID, day, day).
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var alerts []BudgetAlert
	for i := range budgets {
		status, err := s.GetBudgetStatus(&budgets[i])
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, BudgetAlerts(&budgets[i], status)...)
	}
	return alerts, nil
}

// BudgetAlerts maps a budget status to zero or more user-facing alerts. The
// mapping is deterministic and produces at most one alert per budget per
// evaluation: an EXCEEDED alert once consumption reaches 100%, a WARNING
// alert between 90% and 100%, and nothing below 90%.
func BudgetAlerts(budget *models.Budget, status *BudgetStatus) []BudgetAlert {
	switch {
	case status.Percentage >= exceededAt:
		overrun := status.Spent.Sub(budget.Amount)
		return []BudgetAlert{{
			BudgetID:   budget.ID,
			Category:   budget.Category.Name,
			Kind:       AlertKindExceeded,
			Percentage: status.Percentage,
			Remaining:  status.Remaining,
			Overrun:    overrun,
			Message: fmt.Sprintf("Budget Exceeded: you've exceeded your '%s' budget by $%s",
				budget.Category.Name, overrun.StringFixed(2)),
		}}
	case status.Percentage >= levelDangerAt:
		return []BudgetAlert{{
			BudgetID:   budget.ID,
			Category:   budget.Category.Name,
			Kind:       AlertKindWarning,
			Percentage: status.Percentage,
			Remaining:  status.Remaining,
			Message: fmt.Sprintf("Budget Alert: you've used %.1f%% of your '%s' budget, only $%s remaining",
				status.Percentage, budget.Category.Name, status.Remaining.StringFixed(2)),
		}}
	}
	return nil
}

// validateNoOverlap fails with a BUDGET_OVERLAP error when any existing
// budget for the same (user, category) has a period intersecting the
// candidate's. Periods are inclusive: [s1,e1] and [s2,e2] overlap iff
// s1 <= e2 and s2 <= e1, so zero-length periods participate normally.
// excludeID skips the candidate's own row on update.
func (s *budgetService) validateNoOverlap(tx *gorm.DB, userID, categoryID uint, periodStart, periodEnd time.Time, excludeID uint) error {
	query := tx.Where("user_id = ? AND category_id = ? AND period_start <= ? AND period_end >= ?",
		userID, categoryID, periodEnd, periodStart)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var conflict models.Budget
	err := query.Order("period_start").First(&conflict).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return apperrors.BudgetOverlap(conflict.ID)
}

// expenseCategory loads a category the user may budget against and rejects
// income categories; budgets are expense-only.
func (s *budgetService) expenseCategory(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("id = ? AND (is_default = ? OR user_id = ?)", categoryID, true, userID).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Kind != models.CategoryKindExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budgets can only be created for expense categories")
	}
	return &category, nil
}
