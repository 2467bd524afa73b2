package workflow

import (
	"bitbucket.org/mmdatafocus/goatfarm_backend/allocation"
	"gorm.io/gorm"
)

// FetchAllocationSnapshot loads the business's goats, expenses and health
// records on the given handle. The sale workflow calls it on its transaction
// before any write so the snapshot still shows the goat being sold as Active.
func FetchAllocationSnapshot(tx *gorm.DB, businessId string) (*allocation.Snapshot, error) {
	var snap allocation.Snapshot

	if err := tx.Where("business_id = ?", businessId).Find(&snap.Goats).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("business_id = ?", businessId).Find(&snap.Expenses).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("business_id = ?", businessId).Find(&snap.HealthRecords).Error; err != nil {
		return nil, err
	}

	return &snap, nil
}
