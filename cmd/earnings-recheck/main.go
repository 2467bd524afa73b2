// Reconciliation harness: for every caretaker of a business, prints the
// stored earnings accumulator next to an earnings figure re-derived from the
// ledger, so drift between the two is visible. Read-only.
package main

import (
	"context"
	"flag"
	"log"

	"bitbucket.org/mmdatafocus/goatfarm_backend/allocation"
	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	businessId := flag.String("business", "", "business id to recheck")
	flag.Parse()
	if *businessId == "" {
		log.Fatal("usage: earnings-recheck -business <business-id>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	config.ConnectDatabaseWithRetry()

	ctx := utils.SetBusinessIdInContext(context.Background(), *businessId)

	caretakers, err := utils.FetchAllModels[models.Caretaker](ctx, *businessId)
	if err != nil {
		log.Fatalf("load caretakers: %v", err)
	}

	db := config.GetDB()
	var snap allocation.Snapshot
	if err := db.WithContext(ctx).Where("business_id = ?", *businessId).Find(&snap.Goats).Error; err != nil {
		log.Fatalf("load goats: %v", err)
	}
	if err := db.WithContext(ctx).Where("business_id = ?", *businessId).Find(&snap.Expenses).Error; err != nil {
		log.Fatalf("load expenses: %v", err)
	}
	if err := db.WithContext(ctx).Where("business_id = ?", *businessId).Find(&snap.HealthRecords).Error; err != nil {
		log.Fatalf("load health records: %v", err)
	}

	var sales []*models.SaleTransaction
	if err := db.WithContext(ctx).Where("business_id = ?", *businessId).Find(&sales).Error; err != nil {
		log.Fatalf("load sales: %v", err)
	}

	// ledger share per caretaker, straight from the frozen sale rows
	ledgerShares := map[int]decimal.Decimal{}
	for _, sale := range sales {
		if sale.CaretakerId == 0 {
			continue
		}
		current, ok := ledgerShares[sale.CaretakerId]
		if !ok {
			current = decimal.Zero
		}
		ledgerShares[sale.CaretakerId] = current.Add(sale.CaretakerShare)
	}

	drifted := 0
	for _, caretaker := range caretakers {
		ledger, ok := ledgerShares[caretaker.ID]
		if !ok {
			ledger = decimal.Zero
		}

		// re-derive from sold goats against the current snapshot
		recomputed := decimal.Zero
		for _, goat := range snap.Goats {
			if goat.CaretakerId != caretaker.ID || goat.Status != models.GoatStatusSold {
				continue
			}
			breakdown := allocation.Allocate(goat, &snap)
			netProfit := allocation.NetProfit(goat.SalePrice, goat.PurchasePrice, breakdown.Total)
			recomputed = recomputed.Add(
				allocation.CaretakerShare(netProfit, caretaker.PaymentModelType, caretaker.PaymentModelAmount))
		}

		marker := ""
		if !caretaker.TotalEarnings.Equal(ledger) {
			marker = "  <-- accumulator does not match ledger"
			drifted++
		}
		log.Printf("caretaker %d (%s): accrued=%s ledger=%s recomputed=%s%s",
			caretaker.ID, caretaker.Name,
			caretaker.TotalEarnings.StringFixed(4),
			ledger.StringFixed(4),
			recomputed.StringFixed(4),
			marker)
	}

	if drifted > 0 {
		log.Printf("%d caretaker(s) drifted from the ledger", drifted)
	} else {
		log.Println("all accumulators match the ledger")
	}
}
