package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"finguard/internal/models"
)

func TestDashboardFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "dash@test.com", "password123")
	accountID := app.primaryAccountID(t, token)
	salaryID := app.createCategory(t, token, "Consulting", models.CategoryKindIncome)
	foodID := app.createCategory(t, token, "Groceries", models.CategoryKindExpense)

	today := time.Now().UTC().Format("2006-01-02")
	mkTx := func(categoryID float64, kind, amount string) {
		rec := app.request("POST", "/api/v1/transactions",
			fmt.Sprintf(`{"account_id":%.0f,"category_id":%.0f,"kind":%q,"amount":%q,"date":"%sT00:00:00Z"}`,
				accountID, categoryID, kind, amount, today), token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}
	mkTx(salaryID, "INCOME", "3000.00")
	mkTx(foodID, "EXPENSE", "120.00")

	rec := app.request("GET", "/api/v1/dashboard", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)

	if result["balance"].(string) != "2880" {
		t.Errorf("expected balance 2880, got %v", result["balance"])
	}
	recent := result["recent_transactions"].([]interface{})
	if len(recent) != 2 {
		t.Errorf("expected 2 recent transactions, got %d", len(recent))
	}
	summary := result["monthly_summary"].(map[string]interface{})
	if summary["income"].(string) != "3000" {
		t.Errorf("expected monthly income 3000, got %v", summary["income"])
	}

	// Reports agree with the dashboard.
	now := time.Now().UTC()
	rec = app.request("GET", fmt.Sprintf("/api/v1/reports/monthly-summary?year=%d&month=%d", now.Year(), int(now.Month())), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/reports/expenses-by-category", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	expenses := parseJSON(t, rec)["expenses"].(map[string]interface{})
	if expenses["Groceries"].(string) != "120" {
		t.Errorf("expected 120 spent on Groceries, got %v", expenses["Groceries"])
	}
}
