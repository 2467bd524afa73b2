package models

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
)

// The goat's cached weight follows the newest weight record and nothing
// else.
func TestCreateWeightRecordUpdatesCurrentWeight(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext("biz-weight-1")

	goat, err := CreateGoat(ctx, &NewGoat{
		TagNumber:     "G-100",
		PurchasePrice: decimal.NewFromInt(50000),
		PurchaseDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CurrentWeight: decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("create goat: %v", err)
	}

	if _, err := CreateWeightRecord(ctx, &NewWeightRecord{
		GoatId:     goat.ID,
		RecordDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Weight:     decimal.NewFromInt(31),
	}); err != nil {
		t.Fatalf("create weight record: %v", err)
	}

	var reloaded Goat
	if err := db.First(&reloaded, goat.ID).Error; err != nil {
		t.Fatalf("reload goat: %v", err)
	}
	if !reloaded.CurrentWeight.Equal(decimal.NewFromInt(31)) {
		t.Errorf("current weight = %s, want 31", reloaded.CurrentWeight)
	}
}

// A backdated record is kept for history but must not clobber the cache.
func TestBackdatedWeightRecordDoesNotOverwriteCache(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext("biz-weight-2")

	goat, err := CreateGoat(ctx, &NewGoat{
		TagNumber:     "G-101",
		PurchasePrice: decimal.NewFromInt(50000),
		PurchaseDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create goat: %v", err)
	}

	if _, err := CreateWeightRecord(ctx, &NewWeightRecord{
		GoatId:     goat.ID,
		RecordDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Weight:     decimal.NewFromInt(34),
	}); err != nil {
		t.Fatalf("create weight record: %v", err)
	}
	if _, err := CreateWeightRecord(ctx, &NewWeightRecord{
		GoatId:     goat.ID,
		RecordDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Weight:     decimal.NewFromInt(28),
	}); err != nil {
		t.Fatalf("create backdated record: %v", err)
	}

	var reloaded Goat
	if err := db.First(&reloaded, goat.ID).Error; err != nil {
		t.Fatalf("reload goat: %v", err)
	}
	if !reloaded.CurrentWeight.Equal(decimal.NewFromInt(34)) {
		t.Errorf("current weight = %s, want 34 (newest record)", reloaded.CurrentWeight)
	}

	var recordCount int64
	if err := db.Model(&WeightRecord{}).Where("goat_id = ?", goat.ID).Count(&recordCount).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	if recordCount != 2 {
		t.Errorf("weight records = %d, want 2", recordCount)
	}
}

func TestCreateWeightRecordValidation(t *testing.T) {
	setupTestDB(t)
	ctx := testContext("biz-weight-3")

	_, err := CreateWeightRecord(ctx, &NewWeightRecord{
		GoatId:     999,
		RecordDate: time.Now(),
		Weight:     decimal.NewFromInt(30),
	})
	if !utils.IsNotFoundError(err) {
		t.Errorf("missing goat error = %v, want NotFoundError", err)
	}

	goat, err := CreateGoat(ctx, &NewGoat{
		TagNumber:     "G-102",
		PurchasePrice: decimal.NewFromInt(10000),
		PurchaseDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create goat: %v", err)
	}

	_, err = CreateWeightRecord(ctx, &NewWeightRecord{
		GoatId:     goat.ID,
		RecordDate: time.Now(),
		Weight:     decimal.Zero,
	})
	if !utils.IsValidationError(err) {
		t.Errorf("zero weight error = %v, want ValidationError", err)
	}
}
