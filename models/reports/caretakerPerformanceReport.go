package reports

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/allocation"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
)

type CaretakerPerformanceLine struct {
	CaretakerId   int                      `json:"caretaker_id"`
	Name          string                   `json:"name"`
	PaymentModel  *models.PaymentModelType `json:"payment_model"`
	GoatsAssigned int                      `json:"goats_assigned"`
	// GoatsSold and SalesAmount are counted from the in-period ledger rows,
	// not from the goats table.
	GoatsSold   int             `json:"goats_sold"`
	SalesAmount decimal.Decimal `json:"sales_amount"`
	// AccruedEarnings is the stored lifetime accumulator written at sale time.
	// RecomputedEarnings is re-derived here from the in-period sold goats with
	// the current snapshot, where the sold goat no longer counts as Active.
	// The two use different denominators on purpose; drift between them is
	// information, not an error.
	AccruedEarnings    decimal.Decimal `json:"accrued_earnings"`
	RecomputedEarnings decimal.Decimal `json:"recomputed_earnings"`
}

type CaretakerPerformanceReport struct {
	FromDate time.Time                   `json:"from_date"`
	ToDate   time.Time                   `json:"to_date"`
	Lines    []*CaretakerPerformanceLine `json:"lines"`
}

func GetCaretakerPerformanceReport(ctx context.Context, fromDate, toDate *models.MyDateString) (*CaretakerPerformanceReport, error) {
	defer warnIfSlow("caretaker-performance", time.Now())

	businessId, period, err := resolvePeriod(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	key := reportCacheKey("caretaker-performance", businessId, period.From, period.To)
	if cached, err := retrieveCachedReport[CaretakerPerformanceReport](key); err != nil {
		return nil, err
	} else if cached != nil {
		return cached, nil
	}

	caretakers, err := utils.FetchAllModels[models.Caretaker](ctx, businessId)
	if err != nil {
		return nil, err
	}
	snap, err := loadBusinessSnapshot(ctx, businessId)
	if err != nil {
		return nil, err
	}
	sales, err := models.SoldGoatsBetween(ctx, businessId, period.From, period.To)
	if err != nil {
		return nil, err
	}

	report := CaretakerPerformanceReport{
		FromDate: period.From,
		ToDate:   period.To,
	}

	for _, caretaker := range caretakers {
		line := CaretakerPerformanceLine{
			CaretakerId:        caretaker.ID,
			Name:               caretaker.Name,
			PaymentModel:       caretaker.PaymentModelType,
			SalesAmount:        decimal.Zero,
			AccruedEarnings:    caretaker.TotalEarnings,
			RecomputedEarnings: decimal.Zero,
		}

		for _, sale := range sales {
			if sale.CaretakerId != caretaker.ID {
				continue
			}
			line.GoatsSold++
			line.SalesAmount = line.SalesAmount.Add(sale.Amount)
		}

		for _, goat := range snap.Goats {
			if goat.CaretakerId != caretaker.ID {
				continue
			}
			line.GoatsAssigned++

			if goat.Status != models.GoatStatusSold || goat.SaleDate == nil || !period.Contains(*goat.SaleDate) {
				continue
			}
			breakdown := allocation.Allocate(goat, snap)
			netProfit := allocation.NetProfit(goat.SalePrice, goat.PurchasePrice, breakdown.Total)
			share := allocation.CaretakerShare(netProfit, caretaker.PaymentModelType, caretaker.PaymentModelAmount)
			line.RecomputedEarnings = line.RecomputedEarnings.Add(share)
		}

		report.Lines = append(report.Lines, &line)
	}

	if err := storeCachedReport(key, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
