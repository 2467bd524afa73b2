package allocation

import (
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
)

// Period is a closed date range in UTC. Report aggregation filters each
// collection against it independently; a goat being in period never pulls
// out-of-period expenses in with it.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// GoatInPeriod reports whether the goat belongs to the period: purchased in
// it, or sold in it. A goat bought before and sold after the period is not
// counted.
func GoatInPeriod(goat *models.Goat, p Period) bool {
	if p.Contains(goat.PurchaseDate) {
		return true
	}
	if goat.SaleDate != nil && p.Contains(*goat.SaleDate) {
		return true
	}
	return false
}

func ExpenseInPeriod(expense *models.Expense, p Period) bool {
	return p.Contains(expense.ExpenseDate)
}

func HealthRecordInPeriod(record *models.HealthRecord, p Period) bool {
	return p.Contains(record.RecordDate)
}

func WeightRecordInPeriod(record *models.WeightRecord, p Period) bool {
	return p.Contains(record.RecordDate)
}
