package database

import (
	"testing"

	"finguard/internal/models"
	"finguard/internal/testutil"
)

func TestSeedDefaultCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	if err := SeedDefaultCategories(db); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var count int64
	db.Model(&models.Category{}).Where("is_default = ?", true).Count(&count)
	want := int64(len(models.DefaultExpenseCategories) + len(models.DefaultIncomeCategories))
	if count != want {
		t.Fatalf("expected %d default categories, got %d", want, count)
	}

	// Seeding is idempotent: a second run creates nothing new.
	if err := SeedDefaultCategories(db); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	db.Model(&models.Category{}).Where("is_default = ?", true).Count(&count)
	if count != want {
		t.Errorf("expected %d default categories after reseeding, got %d", want, count)
	}

	// "Other" exists once per kind.
	var others int64
	db.Model(&models.Category{}).Where("name = ? AND is_default = ?", "Other", true).Count(&others)
	if others != 2 {
		t.Errorf("expected 'Other' in both kinds, got %d", others)
	}
}
