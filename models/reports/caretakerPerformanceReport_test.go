package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"bitbucket.org/mmdatafocus/goatfarm_backend/workflow"
	"github.com/shopspring/decimal"
)

// The report shows the earnings accumulator frozen at sale time next to a
// recomputation over today's snapshot. After the sale the herd has one less
// active goat, so the recomputed share uses a larger per-goat slice of the
// shared pool and the two figures drift apart. Both are reported.
func TestCaretakerPerformanceExposesAccruedAndRecomputed(t *testing.T) {
	db, ctx := setupTestDB(t)
	businessId, _ := utils.GetBusinessIdFromContext(ctx)

	percentage := models.PaymentModelTypePercentage
	caretaker := models.Caretaker{
		BusinessId:         businessId,
		Name:               "Ko Myo",
		PaymentModelType:   &percentage,
		PaymentModelAmount: decimal.NewFromInt(30),
		TotalEarnings:      decimal.Zero,
		IsActive:           utils.NewTrue(),
	}
	if err := db.Create(&caretaker).Error; err != nil {
		t.Fatalf("create caretaker: %v", err)
	}

	purchase := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	goats := []models.Goat{
		{BusinessId: businessId, TagNumber: "G-500", PurchasePrice: decimal.NewFromInt(30000), PurchaseDate: purchase, Status: models.GoatStatusActive, CaretakerId: caretaker.ID},
		{BusinessId: businessId, TagNumber: "G-501", PurchasePrice: decimal.NewFromInt(20000), PurchaseDate: purchase, Status: models.GoatStatusActive},
		{BusinessId: businessId, TagNumber: "G-502", PurchasePrice: decimal.NewFromInt(20000), PurchaseDate: purchase, Status: models.GoatStatusActive},
		{BusinessId: businessId, TagNumber: "G-503", PurchasePrice: decimal.NewFromInt(20000), PurchaseDate: purchase, Status: models.GoatStatusActive},
	}
	for i := range goats {
		if err := db.Create(&goats[i]).Error; err != nil {
			t.Fatalf("create goat: %v", err)
		}
	}

	expenses := []models.Expense{
		{BusinessId: businessId, GoatId: &goats[0].ID, Category: models.ExpenseCategoryMedicine, Amount: decimal.NewFromInt(2000), ExpenseDate: purchase.AddDate(0, 1, 0)},
		{BusinessId: businessId, Category: models.ExpenseCategoryFeed, Amount: decimal.NewFromInt(10000), ExpenseDate: purchase.AddDate(0, 1, 0)},
	}
	for i := range expenses {
		if err := db.Create(&expenses[i]).Error; err != nil {
			t.Fatalf("create expense: %v", err)
		}
	}

	// sale with four active goats: shared 2500, total 4500, net 5500, 30% = 1650
	sale, err := workflow.SellGoat(ctx, &workflow.NewGoatSale{
		GoatId:    goats[0].ID,
		SalePrice: decimal.NewFromInt(40000),
		SaleDate:  time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("sell goat: %v", err)
	}
	if !sale.CaretakerShare.Equal(decimal.NewFromInt(1650)) {
		t.Fatalf("caretaker share at sale = %s, want 1650", sale.CaretakerShare)
	}

	report, err := GetCaretakerPerformanceReport(ctx, dateOf(t, "2026-06-01"), dateOf(t, "2026-06-30"))
	if err != nil {
		t.Fatalf("caretaker performance report: %v", err)
	}
	if len(report.Lines) != 1 {
		t.Fatalf("report lines = %d, want 1", len(report.Lines))
	}
	line := report.Lines[0]

	if line.GoatsAssigned != 1 || line.GoatsSold != 1 {
		t.Errorf("assigned=%d sold=%d, want 1/1", line.GoatsAssigned, line.GoatsSold)
	}
	if !line.SalesAmount.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("sales amount = %s, want 40000", line.SalesAmount)
	}
	if !line.AccruedEarnings.Equal(decimal.NewFromInt(1650)) {
		t.Errorf("accrued earnings = %s, want 1650", line.AccruedEarnings)
	}

	// post-sale snapshot: three active goats, shared 10000/3 = 3333.3333,
	// total 5333.3333, net 4666.6667, 30% = 1400
	wantRecomputed := decimal.RequireFromString("1400.0000")
	if !line.RecomputedEarnings.Equal(wantRecomputed) {
		t.Errorf("recomputed earnings = %s, want %s", line.RecomputedEarnings, wantRecomputed)
	}
	if line.AccruedEarnings.Equal(line.RecomputedEarnings) {
		t.Error("expected observable drift between accrued and recomputed earnings")
	}
}

// A caretaker whose goats were all sold outside the period still appears,
// with zero in-period sales.
func TestCaretakerPerformanceOutOfPeriodSales(t *testing.T) {
	db, ctx := setupTestDB(t)
	businessId, _ := utils.GetBusinessIdFromContext(ctx)

	percentage := models.PaymentModelTypePercentage
	caretaker := models.Caretaker{
		BusinessId:         businessId,
		Name:               "Ma Hla",
		PaymentModelType:   &percentage,
		PaymentModelAmount: decimal.NewFromInt(25),
		TotalEarnings:      decimal.NewFromInt(9999),
		IsActive:           utils.NewTrue(),
	}
	if err := db.Create(&caretaker).Error; err != nil {
		t.Fatalf("create caretaker: %v", err)
	}

	may := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	goat := models.Goat{
		BusinessId: businessId, TagNumber: "G-510",
		PurchasePrice: decimal.NewFromInt(10000),
		PurchaseDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        models.GoatStatusSold,
		SalePrice:     decimal.NewFromInt(15000),
		SaleDate:      &may,
		CaretakerId:   caretaker.ID,
	}
	if err := db.Create(&goat).Error; err != nil {
		t.Fatalf("create goat: %v", err)
	}

	report, err := GetCaretakerPerformanceReport(ctx, dateOf(t, "2026-06-01"), dateOf(t, "2026-06-30"))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Lines) != 1 {
		t.Fatalf("report lines = %d, want 1", len(report.Lines))
	}
	line := report.Lines[0]
	if line.GoatsAssigned != 1 {
		t.Errorf("assigned = %d, want 1", line.GoatsAssigned)
	}
	if line.GoatsSold != 0 {
		t.Errorf("in-period sold = %d, want 0", line.GoatsSold)
	}
	if !line.RecomputedEarnings.IsZero() {
		t.Errorf("recomputed = %s, want 0 for out-of-period sale", line.RecomputedEarnings)
	}
	// the lifetime accumulator is reported regardless of period
	if !line.AccruedEarnings.Equal(decimal.NewFromInt(9999)) {
		t.Errorf("accrued = %s, want 9999", line.AccruedEarnings)
	}
}
