package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finguard/internal/errors"
	"finguard/internal/services"
)

const (
	recentTransactionLimit = 10
	dashboardBudgetLimit   = 5
)

// DashboardHandler serves the aggregated overview and report endpoints.
type DashboardHandler struct {
	accountService     services.AccountServicer
	transactionService services.TransactionServicer
	budgetService      services.BudgetServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	accountService services.AccountServicer,
	transactionService services.TransactionServicer,
	budgetService services.BudgetServicer,
) *DashboardHandler {
	return &DashboardHandler{
		accountService:     accountService,
		transactionService: transactionService,
		budgetService:      budgetService,
	}
}

// GetDashboard returns the overview for the current month: balance, recent
// transactions, income/expense totals, budget summary, the most pressing
// active budgets with their statuses, expenses by category, and any active
// alerts.
// @Summary     Get dashboard
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Dashboard data"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetPrimaryAccount(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recent, err := h.transactionService.GetRecentTransactions(userID, recentTransactionLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now().UTC()
	summary, err := h.transactionService.GetMonthlySummary(userID, now.Year(), int(now.Month()))
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetSummary, err := h.budgetService.GetBudgetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	active, err := h.budgetService.GetActiveBudgets(userID, now)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets := make([]gin.H, 0, len(active))
	alerts := make([]services.BudgetAlert, 0)
	for i := range active {
		status, err := h.budgetService.GetBudgetStatus(&active[i])
		if err != nil {
			respondWithError(c, err)
			return
		}
		if len(budgets) < dashboardBudgetLimit {
			budgets = append(budgets, gin.H{
				"budget": active[i],
				"status": status,
			})
		}
		alerts = append(alerts, services.BudgetAlerts(&active[i], status)...)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	byCategory, err := h.transactionService.GetExpensesByCategory(userID, monthStart, monthEnd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":              account.Balance,
		"recent_transactions":  recent,
		"monthly_summary":      summary,
		"budget_summary":       budgetSummary,
		"budgets":              budgets,
		"expenses_by_category": byCategory,
		"alerts":               alerts,
	})
}

// GetMonthlySummary reports total income, total expense, and net for a month.
// @Summary     Get monthly summary report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int true "Year"
// @Param       month query int true "Month (1-12)"
// @Success     200 {object} map[string]interface{} "Monthly summary"
// @Failure     400 {object} ErrorResponse "Invalid year or month"
// @Router      /reports/monthly-summary [get]
func (h *DashboardHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be an integer"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be an integer"))
		return
	}

	summary, err := h.transactionService.GetMonthlySummary(userID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetExpensesByCategory reports expense totals grouped by category name over
// an inclusive date range. The range defaults to the current month.
// @Summary     Get expenses by category report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} map[string]interface{} "Expense totals keyed by category name"
// @Failure     400 {object} ErrorResponse "Invalid dates"
// @Router      /reports/expenses-by-category [get]
func (h *DashboardHandler) GetExpensesByCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if v := c.Query("from_date"); v != "" {
		from, err = time.Parse(dateLayout, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date must be formatted YYYY-MM-DD"))
			return
		}
	}
	if v := c.Query("to_date"); v != "" {
		to, err = time.Parse(dateLayout, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date must be formatted YYYY-MM-DD"))
			return
		}
	}

	byCategory, err := h.transactionService.GetExpensesByCategory(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":     from.Format(dateLayout),
		"to":       to.Format(dateLayout),
		"expenses": byCategory,
	})
}
