package integration

import (
	"fmt"
	"net/http"
	"testing"

	"finguard/internal/models"
)

func TestBudgetFlow_StatusAndAlerts(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "budget@test.com", "password123")
	accountID := app.primaryAccountID(t, token)
	foodID := app.createCategory(t, token, "Groceries", models.CategoryKindExpense)

	// $100 budget for January.
	rec := app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%.0f,"amount":"100.00","period_start":"2024-01-01T00:00:00Z","period_end":"2024-01-31T00:00:00Z"}`, foodID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating budget, got %d: %s", rec.Code, rec.Body.String())
	}
	budgetID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(float64)

	// Status before any spending.
	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/status", budgetID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	status := parseJSON(t, rec)["status"].(map[string]interface{})
	if status["percentage"].(float64) != 0 {
		t.Errorf("expected 0%% used, got %v", status["percentage"])
	}
	if status["level"].(string) != "GOOD" {
		t.Errorf("expected level GOOD, got %v", status["level"])
	}

	spend := func(amount string) map[string]interface{} {
		rec := app.request("POST", "/api/v1/transactions",
			fmt.Sprintf(`{"account_id":%.0f,"category_id":%.0f,"kind":"EXPENSE","amount":%q,"date":"2024-01-10T00:00:00Z"}`,
				accountID, foodID, amount), token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		return parseJSON(t, rec)
	}

	// 50% used: no alerts in the mutation response.
	result := spend("50.00")
	if alerts, ok := result["alerts"].([]interface{}); ok && len(alerts) > 0 {
		t.Errorf("expected no alerts at 50%%, got %v", alerts)
	}

	// 95% used: warning alert.
	result = spend("45.00")
	alerts, ok := result["alerts"].([]interface{})
	if !ok || len(alerts) != 1 {
		t.Fatalf("expected 1 alert at 95%%, got %v", result["alerts"])
	}
	alert := alerts[0].(map[string]interface{})
	if alert["kind"].(string) != "WARNING" {
		t.Errorf("expected WARNING alert, got %v", alert["kind"])
	}

	// 115% used: exceeded alert.
	result = spend("20.00")
	alerts = result["alerts"].([]interface{})
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert at 115%%, got %v", result["alerts"])
	}
	alert = alerts[0].(map[string]interface{})
	if alert["kind"].(string) != "EXCEEDED" {
		t.Errorf("expected EXCEEDED alert, got %v", alert["kind"])
	}

	// The status endpoint agrees.
	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/status", budgetID), "", token)
	status = parseJSON(t, rec)["status"].(map[string]interface{})
	if status["level"].(string) != "DANGER" {
		t.Errorf("expected level DANGER, got %v", status["level"])
	}
	if status["is_exceeded"].(bool) != true {
		t.Error("expected is_exceeded true")
	}
}

func TestBudgetFlow_OverlapRejected(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "overlap@test.com", "password123")
	foodID := app.createCategory(t, token, "Groceries", models.CategoryKindExpense)

	rec := app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%.0f,"amount":"100.00","period_start":"2024-01-01T00:00:00Z","period_end":"2024-01-31T00:00:00Z"}`, foodID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%.0f,"amount":"200.00","period_start":"2024-01-15T00:00:00Z","period_end":"2024-02-15T00:00:00Z"}`, foodID), token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"].(string) != "BUDGET_OVERLAP" {
		t.Errorf("expected BUDGET_OVERLAP, got %v", errObj["code"])
	}

	// An adjacent period is fine.
	rec = app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%.0f,"amount":"200.00","period_start":"2024-02-01T00:00:00Z","period_end":"2024-02-29T00:00:00Z"}`, foodID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for adjacent period, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetFlow_IncomeCategoryRejected(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "incomebudget@test.com", "password123")
	salaryID := app.createCategory(t, token, "Consulting", models.CategoryKindIncome)

	rec := app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%.0f,"amount":"100.00","period_start":"2024-01-01T00:00:00Z","period_end":"2024-01-31T00:00:00Z"}`, salaryID), token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for income category budget, got %d: %s", rec.Code, rec.Body.String())
	}
}
