package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"finguard/internal/models"
	"finguard/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("creates_user_with_default_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewUserService(db, acctSvc)

		user, err := svc.CreateUser("alice@example.com", "password123", "Alice", "Smith", "")
		testutil.AssertNoError(t, err)
		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Password == "password123" {
			t.Error("password must be stored hashed")
		}

		account, err := acctSvc.GetPrimaryAccount(user.ID)
		testutil.AssertNoError(t, err)
		if account.Name != models.DefaultAccountName {
			t.Errorf("expected default account %q, got %q", models.DefaultAccountName, account.Name)
		}
		testutil.AssertDecimalEqual(t, decimal.Zero, account.Balance)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, NewAccountService(db))

		_, err := svc.CreateUser("bob@example.com", "password123", "Bob", "Jones", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateUser("bob@example.com", "different456", "Bobby", "Jones", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, NewAccountService(db))

	user, err := svc.CreateUser("carol@example.com", "password123", "Carol", "King", "")
	testutil.AssertNoError(t, err)

	if !svc.VerifyPassword(user, "password123") {
		t.Error("expected correct password to verify")
	}
	if svc.VerifyPassword(user, "wrong") {
		t.Error("expected wrong password to fail")
	}
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, NewAccountService(db))
		user := testutil.CreateTestUserWithEmail(t, db, "dan@example.com")

		found, err := svc.GetUserByEmail("dan@example.com")
		testutil.AssertNoError(t, err)
		if found.ID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, found.ID)
		}
	})

	t.Run("inactive_user_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, NewAccountService(db))
		user := testutil.CreateTestUserWithEmail(t, db, "eve@example.com")
		db.Model(user).Update("is_active", false)

		_, err := svc.GetUserByEmail("eve@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
