package allocation

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func herdSnapshot() *Snapshot {
	purchase := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return &Snapshot{
		Goats: []*models.Goat{
			{ID: 1, TagNumber: "G-001", PurchasePrice: decimal.NewFromInt(30000), PurchaseDate: purchase, Status: models.GoatStatusActive},
			{ID: 2, TagNumber: "G-002", PurchasePrice: decimal.NewFromInt(20000), PurchaseDate: purchase, Status: models.GoatStatusActive},
			{ID: 3, TagNumber: "G-003", PurchasePrice: decimal.NewFromInt(20000), PurchaseDate: purchase, Status: models.GoatStatusActive},
			{ID: 4, TagNumber: "G-004", PurchasePrice: decimal.NewFromInt(20000), PurchaseDate: purchase, Status: models.GoatStatusActive},
			{ID: 5, TagNumber: "G-005", PurchasePrice: decimal.NewFromInt(15000), PurchaseDate: purchase, Status: models.GoatStatusSold},
		},
		Expenses: []*models.Expense{
			{ID: 1, GoatId: intPtr(1), Amount: decimal.NewFromInt(2000)},
			{ID: 2, GoatId: nil, Amount: decimal.NewFromInt(10000)},
		},
	}
}

// Four active goats share a 10000 pool; the goat also carries 2000 of its
// own. Selling at 40000 nets 5500 over a 30000 purchase.
func TestAllocateSharedPoolAcrossActiveGoats(t *testing.T) {
	snap := herdSnapshot()
	goat := snap.Goats[0]

	breakdown := Allocate(goat, snap)

	if !breakdown.Specific.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("specific = %s, want 2000", breakdown.Specific)
	}
	if !breakdown.SharedPerGoat.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("shared per goat = %s, want 2500", breakdown.SharedPerGoat)
	}
	if !breakdown.Health.IsZero() {
		t.Errorf("health = %s, want 0", breakdown.Health)
	}
	if !breakdown.Total.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("total = %s, want 4500", breakdown.Total)
	}

	salePrice := decimal.NewFromInt(40000)
	if got := GrossProfit(salePrice, goat.PurchasePrice); !got.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("gross profit = %s, want 10000", got)
	}
	if got := NetProfit(salePrice, goat.PurchasePrice, breakdown.Total); !got.Equal(decimal.NewFromInt(5500)) {
		t.Errorf("net profit = %s, want 5500", got)
	}
}

// The sold goat in the snapshot never absorbs a share of the pool, but it
// also never shrinks anyone else's denominator below the active count.
func TestAllocateIgnoresInactiveGoatsInDenominator(t *testing.T) {
	snap := herdSnapshot()

	if got := snap.ActiveCount(); got != 4 {
		t.Fatalf("active count = %d, want 4", got)
	}

	soldBreakdown := Allocate(snap.Goats[4], snap)
	if !soldBreakdown.SharedPerGoat.Equal(decimal.NewFromInt(2500)) {
		// the sold goat's own breakdown uses the same denominator
		t.Errorf("sold goat shared = %s, want 2500", soldBreakdown.SharedPerGoat)
	}
}

func TestAllocateZeroActiveCountYieldsZeroShared(t *testing.T) {
	snap := &Snapshot{
		Goats: []*models.Goat{
			{ID: 1, Status: models.GoatStatusSold, PurchasePrice: decimal.NewFromInt(10000)},
		},
		Expenses: []*models.Expense{
			{ID: 1, GoatId: nil, Amount: decimal.NewFromInt(9999)},
		},
	}

	breakdown := Allocate(snap.Goats[0], snap)
	if !breakdown.SharedPerGoat.IsZero() {
		t.Errorf("shared per goat = %s, want 0 with no active goats", breakdown.SharedPerGoat)
	}
	if !breakdown.Total.IsZero() {
		t.Errorf("total = %s, want 0", breakdown.Total)
	}
}

func TestAllocateRoundsSharedToFourPlaces(t *testing.T) {
	snap := &Snapshot{
		Goats: []*models.Goat{
			{ID: 1, Status: models.GoatStatusActive},
			{ID: 2, Status: models.GoatStatusActive},
			{ID: 3, Status: models.GoatStatusActive},
		},
		Expenses: []*models.Expense{
			{ID: 1, GoatId: nil, Amount: decimal.NewFromInt(100)},
		},
	}

	breakdown := Allocate(snap.Goats[0], snap)
	want := decimal.RequireFromString("33.3333")
	if !breakdown.SharedPerGoat.Equal(want) {
		t.Errorf("shared per goat = %s, want %s", breakdown.SharedPerGoat, want)
	}
}

// Allocate reads the snapshot and nothing else; calling it twice, or for
// every goat in turn, never changes the answer.
func TestAllocateIsPure(t *testing.T) {
	snap := herdSnapshot()
	goat := snap.Goats[0]

	first := Allocate(goat, snap)
	for _, other := range snap.Goats {
		Allocate(other, snap)
	}
	second := Allocate(goat, snap)

	if !first.Total.Equal(second.Total) || !first.SharedPerGoat.Equal(second.SharedPerGoat) {
		t.Errorf("allocation changed between calls: %+v vs %+v", first, second)
	}
}

func TestHealthCostsAreGoatSpecific(t *testing.T) {
	snap := herdSnapshot()
	snap.HealthRecords = []*models.HealthRecord{
		{ID: 1, GoatId: 1, Cost: decimal.NewFromInt(500)},
		{ID: 2, GoatId: 2, Cost: decimal.NewFromInt(700)},
	}

	breakdown := Allocate(snap.Goats[0], snap)
	if !breakdown.Health.Equal(decimal.NewFromInt(500)) {
		t.Errorf("health = %s, want 500", breakdown.Health)
	}
	if !breakdown.Total.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("total = %s, want 5000", breakdown.Total)
	}
}

func TestCaretakerShare(t *testing.T) {
	percentage := models.PaymentModelTypePercentage
	monthly := models.PaymentModelTypeMonthly
	netProfit := decimal.NewFromInt(5500)

	if got := CaretakerShare(netProfit, &percentage, decimal.NewFromInt(30)); !got.Equal(decimal.NewFromInt(1650)) {
		t.Errorf("percentage share = %s, want 1650", got)
	}
	if got := CaretakerShare(netProfit, &monthly, decimal.NewFromInt(150000)); !got.IsZero() {
		t.Errorf("monthly share = %s, want 0", got)
	}
	if got := CaretakerShare(netProfit, nil, decimal.NewFromInt(30)); !got.IsZero() {
		t.Errorf("nil model share = %s, want 0", got)
	}
}

func TestCaretakerShareOfNegativeProfitIsNegative(t *testing.T) {
	percentage := models.PaymentModelTypePercentage
	got := CaretakerShare(decimal.NewFromInt(-1000), &percentage, decimal.NewFromInt(30))
	if !got.Equal(decimal.NewFromInt(-300)) {
		t.Errorf("share of a loss = %s, want -300", got)
	}
}
