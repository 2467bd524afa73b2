package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The business-wide payment default only backfills caretakers that never got
// a model of their own, then disappears.
func TestMigrateLegacyPaymentModels(t *testing.T) {
	db := setupTestDB(t)

	percentage := PaymentModelTypePercentage
	monthly := PaymentModelTypeMonthly

	business := Business{
		ID:                       uuid.New(),
		Name:                     "Legacy Farm",
		Timezone:                 "Asia/Yangon",
		LegacyPaymentModelType:   &percentage,
		LegacyPaymentModelAmount: decimal.NewFromInt(20),
	}
	if err := db.Create(&business).Error; err != nil {
		t.Fatalf("create business: %v", err)
	}
	businessId := business.ID.String()
	ctx := testContext(businessId)

	legacy := Caretaker{BusinessId: businessId, Name: "Legacy Guy"}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("create legacy caretaker: %v", err)
	}
	modern := Caretaker{
		BusinessId:         businessId,
		Name:               "Modern Guy",
		PaymentModelType:   &monthly,
		PaymentModelAmount: decimal.NewFromInt(100000),
	}
	if err := db.Create(&modern).Error; err != nil {
		t.Fatalf("create modern caretaker: %v", err)
	}

	migrated, err := MigrateLegacyPaymentModels(ctx, businessId)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if migrated != 1 {
		t.Errorf("migrated = %d, want 1", migrated)
	}

	var reloadedLegacy Caretaker
	if err := db.First(&reloadedLegacy, legacy.ID).Error; err != nil {
		t.Fatalf("reload legacy caretaker: %v", err)
	}
	if reloadedLegacy.PaymentModelType == nil || *reloadedLegacy.PaymentModelType != PaymentModelTypePercentage {
		t.Errorf("legacy caretaker model = %v, want Percentage", reloadedLegacy.PaymentModelType)
	}
	if !reloadedLegacy.PaymentModelAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("legacy caretaker amount = %s, want 20", reloadedLegacy.PaymentModelAmount)
	}

	var reloadedModern Caretaker
	if err := db.First(&reloadedModern, modern.ID).Error; err != nil {
		t.Fatalf("reload modern caretaker: %v", err)
	}
	if reloadedModern.PaymentModelType == nil || *reloadedModern.PaymentModelType != PaymentModelTypeMonthly {
		t.Errorf("modern caretaker model overwritten: %v", reloadedModern.PaymentModelType)
	}

	var reloadedBusiness Business
	if err := db.Where("id = ?", businessId).First(&reloadedBusiness).Error; err != nil {
		t.Fatalf("reload business: %v", err)
	}
	if reloadedBusiness.LegacyPaymentModelType != nil {
		t.Errorf("legacy model type still set: %v", *reloadedBusiness.LegacyPaymentModelType)
	}

	// second run is a no-op
	migrated, err = MigrateLegacyPaymentModels(ctx, businessId)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if migrated != 0 {
		t.Errorf("second migrate = %d, want 0", migrated)
	}
}
