package reports

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/allocation"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"github.com/shopspring/decimal"
)

type FinancialReport struct {
	FromDate        time.Time                                  `json:"from_date"`
	ToDate          time.Time                                  `json:"to_date"`
	TotalInvestment decimal.Decimal                            `json:"total_investment"`
	TotalRevenue    decimal.Decimal                            `json:"total_revenue"`
	TotalExpenses   decimal.Decimal                            `json:"total_expenses"`
	NetResult       decimal.Decimal                            `json:"net_result"`
	ByCategory      map[models.ExpenseCategory]decimal.Decimal `json:"by_category"`
	GoatsSold       int                                        `json:"goats_sold"`
	GoatsPurchased  int                                        `json:"goats_purchased"`
}

// GetFinancialReport sums period totals flat: every in-period expense counts
// once at face value, shared or not. The per-goat division of the shared pool
// belongs to the sale path, not to period accounting.
func GetFinancialReport(ctx context.Context, fromDate, toDate *models.MyDateString) (*FinancialReport, error) {
	defer warnIfSlow("financial", time.Now())

	businessId, period, err := resolvePeriod(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	key := reportCacheKey("financial", businessId, period.From, period.To)
	if cached, err := retrieveCachedReport[FinancialReport](key); err != nil {
		return nil, err
	} else if cached != nil {
		return cached, nil
	}

	snap, err := loadBusinessSnapshot(ctx, businessId)
	if err != nil {
		return nil, err
	}

	report := FinancialReport{
		FromDate:        period.From,
		ToDate:          period.To,
		TotalInvestment: decimal.Zero,
		TotalRevenue:    decimal.Zero,
		TotalExpenses:   decimal.Zero,
		ByCategory:      map[models.ExpenseCategory]decimal.Decimal{},
	}

	for _, goat := range snap.Goats {
		if !allocation.GoatInPeriod(goat, period) {
			continue
		}
		report.TotalInvestment = report.TotalInvestment.Add(goat.PurchasePrice)
		if period.Contains(goat.PurchaseDate) {
			report.GoatsPurchased++
		}
		if goat.Status == models.GoatStatusSold && goat.SaleDate != nil && period.Contains(*goat.SaleDate) {
			report.TotalRevenue = report.TotalRevenue.Add(goat.SalePrice)
			report.GoatsSold++
		}
	}

	for _, expense := range snap.Expenses {
		if !allocation.ExpenseInPeriod(expense, period) {
			continue
		}
		report.TotalExpenses = report.TotalExpenses.Add(expense.Amount)
		current, ok := report.ByCategory[expense.Category]
		if !ok {
			current = decimal.Zero
		}
		report.ByCategory[expense.Category] = current.Add(expense.Amount)
	}

	for _, record := range snap.HealthRecords {
		if !allocation.HealthRecordInPeriod(record, period) {
			continue
		}
		report.TotalExpenses = report.TotalExpenses.Add(record.Cost)
	}

	report.NetResult = report.TotalRevenue.Sub(report.TotalInvestment).Sub(report.TotalExpenses)

	if err := storeCachedReport(key, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
