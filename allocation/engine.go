// Package allocation holds the pure computation core: cost allocation,
// profit figures, caretaker shares and the sale price advisor. Nothing in
// this package reads or writes the database; callers pass in a snapshot and
// get deterministic numbers back.
package allocation

import (
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"github.com/shopspring/decimal"
)

// Snapshot is the slice of business state the engine computes over. The
// caller decides when it is taken; whether the goat being valued still counts
// as Active in its own shared denominator depends entirely on that timing.
type Snapshot struct {
	Goats         []*models.Goat
	Expenses      []*models.Expense
	HealthRecords []*models.HealthRecord
}

type CostBreakdown struct {
	Specific      decimal.Decimal `json:"specific"`
	SharedPerGoat decimal.Decimal `json:"shared_per_goat"`
	Health        decimal.Decimal `json:"health"`
	Total         decimal.Decimal `json:"total"`
}

// ActiveCount counts the snapshot's Active goats.
func (s *Snapshot) ActiveCount() int {
	count := 0
	for _, goat := range s.Goats {
		if goat.Status == models.GoatStatusActive {
			count++
		}
	}
	return count
}

// SpecificExpenseTotal sums the expenses pinned to one goat.
func SpecificExpenseTotal(snap *Snapshot, goatId int) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range snap.Expenses {
		if expense.GoatId != nil && *expense.GoatId == goatId {
			total = total.Add(expense.Amount)
		}
	}
	return total
}

// HealthCostTotal sums the health record costs of one goat.
func HealthCostTotal(snap *Snapshot, goatId int) decimal.Decimal {
	total := decimal.Zero
	for _, record := range snap.HealthRecords {
		if record.GoatId == goatId {
			total = total.Add(record.Cost)
		}
	}
	return total
}

// SharedPool sums the expenses with no goat attribution.
func SharedPool(snap *Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range snap.Expenses {
		if expense.IsShared() {
			total = total.Add(expense.Amount)
		}
	}
	return total
}

// Allocate computes the cost breakdown of one goat against the snapshot.
// The shared pool is split evenly across the snapshot's Active goats at four
// decimal places; with no Active goat the per-goat share is zero.
func Allocate(goat *models.Goat, snap *Snapshot) CostBreakdown {
	specific := SpecificExpenseTotal(snap, goat.ID)
	health := HealthCostTotal(snap, goat.ID)

	sharedPerGoat := decimal.Zero
	if activeCount := snap.ActiveCount(); activeCount > 0 {
		sharedPerGoat = SharedPool(snap).DivRound(decimal.NewFromInt(int64(activeCount)), 4)
	}

	return CostBreakdown{
		Specific:      specific,
		SharedPerGoat: sharedPerGoat,
		Health:        health,
		Total:         specific.Add(sharedPerGoat).Add(health),
	}
}

func GrossProfit(salePrice, purchasePrice decimal.Decimal) decimal.Decimal {
	return salePrice.Sub(purchasePrice)
}

func NetProfit(salePrice, purchasePrice, allocatedCost decimal.Decimal) decimal.Decimal {
	return salePrice.Sub(purchasePrice).Sub(allocatedCost)
}

// CaretakerShare resolves the caretaker's cut of a sale. Percentage models
// take their cut of the net profit; Monthly models are settled by payroll,
// not per sale, so the share at sale time is zero. A nil model means the
// caretaker is still on the legacy business default and earns nothing until
// migrated.
func CaretakerShare(netProfit decimal.Decimal, modelType *models.PaymentModelType, modelAmount decimal.Decimal) decimal.Decimal {
	if modelType == nil {
		return decimal.Zero
	}
	switch *modelType {
	case models.PaymentModelTypePercentage:
		return netProfit.Mul(modelAmount).DivRound(decimal.NewFromInt(100), 4)
	case models.PaymentModelTypeMonthly:
		return decimal.Zero
	}
	return decimal.Zero
}
