// Package reports builds the read-only aggregates. Reports never write
// business state; given an unmodified store they are idempotent.
package reports

import (
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"github.com/sirupsen/logrus"
)

const slowReportThreshold = 2 * time.Second

func cacheEnabled() bool {
	return os.Getenv("ENABLE_REPORT_CACHE") == "true"
}

func reportCacheKey(name, businessId string, from, to time.Time) string {
	return fmt.Sprintf("Report:%s:%s:%s:%s", name, businessId,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func retrieveCachedReport[T any](key string) (*T, error) {
	if !cacheEnabled() {
		return nil, nil
	}
	var report T
	exists, err := config.GetRedisObject(key, &report)
	if err != nil || !exists {
		return nil, err
	}
	return &report, nil
}

func storeCachedReport(key string, report any) error {
	if !cacheEnabled() {
		return nil
	}
	return config.SetRedisObject(key, report, 1*time.Hour)
}

// warnIfSlow is deferred at the top of each report builder.
func warnIfSlow(name string, start time.Time) {
	elapsed := time.Since(start)
	if elapsed > slowReportThreshold {
		config.GetLogger().WithFields(logrus.Fields{
			"module":  "reports",
			"report":  name,
			"elapsed": elapsed.String(),
		}).Warn("slow report")
	}
}
