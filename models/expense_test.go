package models

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
)

// Moving a cost between goats, or between the shared pool and a goat, would
// silently rewrite historical allocations; the attribution is frozen at
// creation.
func TestUpdateExpenseAttributionIsImmutable(t *testing.T) {
	setupTestDB(t)
	ctx := testContext("biz-exp-1")

	goat, err := CreateGoat(ctx, &NewGoat{
		TagNumber:     "G-200",
		PurchasePrice: decimal.NewFromInt(20000),
		PurchaseDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create goat: %v", err)
	}
	other, err := CreateGoat(ctx, &NewGoat{
		TagNumber:     "G-201",
		PurchasePrice: decimal.NewFromInt(20000),
		PurchaseDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create goat: %v", err)
	}

	shared, err := CreateExpense(ctx, &NewExpense{
		Category:    ExpenseCategoryFeed,
		Amount:      decimal.NewFromInt(5000),
		ExpenseDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create shared expense: %v", err)
	}
	pinned, err := CreateExpense(ctx, &NewExpense{
		GoatId:      &goat.ID,
		Category:    ExpenseCategoryMedicine,
		Amount:      decimal.NewFromInt(1000),
		ExpenseDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create pinned expense: %v", err)
	}

	// shared -> pinned
	_, err = UpdateExpense(ctx, shared.ID, &NewExpense{
		GoatId:      &goat.ID,
		Category:    ExpenseCategoryFeed,
		Amount:      decimal.NewFromInt(5000),
		ExpenseDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if !utils.IsValidationError(err) {
		t.Errorf("shared->pinned error = %v, want ValidationError", err)
	}

	// pinned -> other goat
	_, err = UpdateExpense(ctx, pinned.ID, &NewExpense{
		GoatId:      &other.ID,
		Category:    ExpenseCategoryMedicine,
		Amount:      decimal.NewFromInt(1000),
		ExpenseDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if !utils.IsValidationError(err) {
		t.Errorf("pinned->other error = %v, want ValidationError", err)
	}

	// pinned -> shared
	_, err = UpdateExpense(ctx, pinned.ID, &NewExpense{
		Category:    ExpenseCategoryMedicine,
		Amount:      decimal.NewFromInt(1000),
		ExpenseDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if !utils.IsValidationError(err) {
		t.Errorf("pinned->shared error = %v, want ValidationError", err)
	}

	// same attribution, new amount: allowed
	updated, err := UpdateExpense(ctx, pinned.ID, &NewExpense{
		GoatId:      &goat.ID,
		Category:    ExpenseCategoryMedicine,
		Amount:      decimal.NewFromInt(1500),
		ExpenseDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("legitimate update rejected: %v", err)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("amount = %s, want 1500", updated.Amount)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	setupTestDB(t)
	ctx := testContext("biz-exp-2")

	_, err := CreateExpense(ctx, &NewExpense{
		Amount:      decimal.NewFromInt(-100),
		ExpenseDate: time.Now(),
	})
	if !utils.IsValidationError(err) {
		t.Errorf("negative amount error = %v, want ValidationError", err)
	}

	missing := 999
	_, err = CreateExpense(ctx, &NewExpense{
		GoatId:      &missing,
		Amount:      decimal.NewFromInt(100),
		ExpenseDate: time.Now(),
	})
	if !utils.IsNotFoundError(err) {
		t.Errorf("missing goat error = %v, want NotFoundError", err)
	}
}

func TestCreateExpenseDefaultsCategory(t *testing.T) {
	setupTestDB(t)
	ctx := testContext("biz-exp-3")

	expense, err := CreateExpense(ctx, &NewExpense{
		Amount:      decimal.NewFromInt(100),
		ExpenseDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if expense.Category != ExpenseCategoryOther {
		t.Errorf("category = %s, want Other", expense.Category)
	}
	if !expense.IsShared() {
		t.Error("expense without goat id should be shared")
	}
}
