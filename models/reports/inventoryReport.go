package reports

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/allocation"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"github.com/shopspring/decimal"
)

type InventoryLine struct {
	GoatId        int               `json:"goat_id"`
	TagNumber     string            `json:"tag_number"`
	Name          string            `json:"name"`
	Breed         string            `json:"breed"`
	Status        models.GoatStatus `json:"status"`
	CurrentWeight decimal.Decimal   `json:"current_weight"`
	PurchasePrice decimal.Decimal   `json:"purchase_price"`
	PurchaseDate  time.Time         `json:"purchase_date"`
}

type InventoryReport struct {
	FromDate       time.Time                 `json:"from_date"`
	ToDate         time.Time                 `json:"to_date"`
	TotalGoats     int                       `json:"total_goats"`
	CountsByStatus map[models.GoatStatus]int `json:"counts_by_status"`
	CountsByBreed  map[string]int            `json:"counts_by_breed"`
	Lines          []*InventoryLine          `json:"lines"`
}

func GetInventoryReport(ctx context.Context, fromDate, toDate *models.MyDateString) (*InventoryReport, error) {
	defer warnIfSlow("inventory", time.Now())

	businessId, period, err := resolvePeriod(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	key := reportCacheKey("inventory", businessId, period.From, period.To)
	if cached, err := retrieveCachedReport[InventoryReport](key); err != nil {
		return nil, err
	} else if cached != nil {
		return cached, nil
	}

	snap, err := loadBusinessSnapshot(ctx, businessId)
	if err != nil {
		return nil, err
	}

	report := InventoryReport{
		FromDate:       period.From,
		ToDate:         period.To,
		CountsByStatus: map[models.GoatStatus]int{},
		CountsByBreed:  map[string]int{},
	}

	for _, goat := range snap.Goats {
		if !allocation.GoatInPeriod(goat, period) {
			continue
		}
		report.TotalGoats++
		report.CountsByStatus[goat.Status]++
		if goat.Breed != "" {
			report.CountsByBreed[goat.Breed]++
		}
		report.Lines = append(report.Lines, &InventoryLine{
			GoatId:        goat.ID,
			TagNumber:     goat.TagNumber,
			Name:          goat.Name,
			Breed:         goat.Breed,
			Status:        goat.Status,
			CurrentWeight: goat.CurrentWeight,
			PurchasePrice: goat.PurchasePrice,
			PurchaseDate:  goat.PurchaseDate,
		})
	}

	if err := storeCachedReport(key, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
