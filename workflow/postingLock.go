package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

const postingLockTimeoutSeconds = 10

// AcquireBusinessPostingLock takes a MySQL advisory lock on the transaction's
// connection so two sale postings for one business serialize even across
// processes that share the database but not redis. On other dialects (the
// test driver) the redis lock alone serializes and this is a no-op.
func AcquireBusinessPostingLock(tx *gorm.DB, businessId string) error {
	if tx.Dialector.Name() != "mysql" {
		return nil
	}

	lockName := "posting:" + businessId
	var acquired int
	err := tx.Raw("SELECT GET_LOCK(?, ?)", lockName, postingLockTimeoutSeconds).Scan(&acquired).Error
	if err != nil {
		return err
	}
	if acquired != 1 {
		return fmt.Errorf("posting lock not acquired for business %s", businessId)
	}
	return nil
}

// ReleaseBusinessPostingLock releases the advisory lock. MySQL also releases
// it when the connection closes, so a missed release cannot wedge a business.
func ReleaseBusinessPostingLock(tx *gorm.DB, businessId string) error {
	if tx.Dialector.Name() != "mysql" {
		return nil
	}
	return tx.Exec("SELECT RELEASE_LOCK(?)", "posting:"+businessId).Error
}
