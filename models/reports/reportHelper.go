package reports

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/allocation"
	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
)

// resolvePeriod turns the request dates into UTC day bounds in the business
// timezone and returns the owning business id alongside.
func resolvePeriod(ctx context.Context, fromDate, toDate *models.MyDateString) (string, allocation.Period, error) {
	var period allocation.Period

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return "", period, errors.New("business id is required")
	}
	if fromDate == nil || toDate == nil {
		return "", period, utils.NewValidationError("Report", "period", "from and to dates are required")
	}

	business, err := models.GetBusiness(ctx)
	if err != nil {
		return "", period, err
	}
	if err := fromDate.StartOfDayUTCTime(business.Timezone); err != nil {
		return "", period, err
	}
	if err := toDate.EndOfDayUTCTime(business.Timezone); err != nil {
		return "", period, err
	}

	period.From = time.Time(*fromDate)
	period.To = time.Time(*toDate)
	if period.To.Before(period.From) {
		return "", period, utils.NewValidationError("Report", "period", "to date must not precede from date")
	}
	return businessId, period, nil
}

// loadBusinessSnapshot reads the full business state the aggregates compute
// over. Period filtering happens in memory, per collection, so a goat in
// period never drags its out-of-period expenses along.
func loadBusinessSnapshot(ctx context.Context, businessId string) (*allocation.Snapshot, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)

	var snap allocation.Snapshot
	if err := dbCtx.Where("business_id = ?", businessId).Find(&snap.Goats).Error; err != nil {
		return nil, err
	}
	if err := dbCtx.Where("business_id = ?", businessId).Find(&snap.Expenses).Error; err != nil {
		return nil, err
	}
	if err := dbCtx.Where("business_id = ?", businessId).Find(&snap.HealthRecords).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}
