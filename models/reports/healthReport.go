package reports

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/allocation"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"github.com/shopspring/decimal"
)

type HealthReportLine struct {
	RecordId   int                 `json:"record_id"`
	GoatId     int                 `json:"goat_id"`
	RecordDate time.Time           `json:"record_date"`
	Condition  string              `json:"condition"`
	Treatment  string              `json:"treatment"`
	Cost       decimal.Decimal     `json:"cost"`
	Status     models.HealthStatus `json:"status"`
}

type HealthReport struct {
	FromDate          time.Time                   `json:"from_date"`
	ToDate            time.Time                   `json:"to_date"`
	TotalRecords      int                         `json:"total_records"`
	TotalCost         decimal.Decimal             `json:"total_cost"`
	CountsByStatus    map[models.HealthStatus]int `json:"counts_by_status"`
	CountsByCondition map[string]int              `json:"counts_by_condition"`
	Lines             []*HealthReportLine         `json:"lines"`
}

func GetHealthReport(ctx context.Context, fromDate, toDate *models.MyDateString) (*HealthReport, error) {
	defer warnIfSlow("health", time.Now())

	businessId, period, err := resolvePeriod(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	key := reportCacheKey("health", businessId, period.From, period.To)
	if cached, err := retrieveCachedReport[HealthReport](key); err != nil {
		return nil, err
	} else if cached != nil {
		return cached, nil
	}

	snap, err := loadBusinessSnapshot(ctx, businessId)
	if err != nil {
		return nil, err
	}

	report := HealthReport{
		FromDate:          period.From,
		ToDate:            period.To,
		TotalCost:         decimal.Zero,
		CountsByStatus:    map[models.HealthStatus]int{},
		CountsByCondition: map[string]int{},
	}

	for _, record := range snap.HealthRecords {
		if !allocation.HealthRecordInPeriod(record, period) {
			continue
		}
		report.TotalRecords++
		report.TotalCost = report.TotalCost.Add(record.Cost)
		report.CountsByStatus[record.Status]++
		if record.Condition != "" {
			report.CountsByCondition[record.Condition]++
		}
		report.Lines = append(report.Lines, &HealthReportLine{
			RecordId:   record.ID,
			GoatId:     record.GoatId,
			RecordDate: record.RecordDate,
			Condition:  record.Condition,
			Treatment:  record.Treatment,
			Cost:       record.Cost,
			Status:     record.Status,
		})
	}

	if err := storeCachedReport(key, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
