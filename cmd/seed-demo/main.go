// Seeds a demo business with caretakers, goats and expenses so a fresh
// environment has something to look at.
package main

import (
	"context"
	"log"
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	ctx := context.Background()

	business, err := models.CreateBusiness(ctx, &models.NewBusiness{
		Name:        "Demo Goat Farm",
		ContactName: "Aung Kyaw",
		Email:       "demo@goatfarm.example",
		Phone:       "09799999999",
		Address:     "Mandalay",
		Timezone:    "Asia/Yangon",
	})
	if err != nil {
		log.Fatalf("seed business: %v", err)
	}
	log.Printf("business %s", business.ID)

	ctx = utils.SetBusinessIdInContext(ctx, business.ID.String())
	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "Seeder")

	percentage := models.PaymentModelTypePercentage
	monthly := models.PaymentModelTypeMonthly
	caretakers := []*models.NewCaretaker{
		{Name: "Ko Myo", Phone: "09791111111", PaymentModelType: &percentage, PaymentModelAmount: decimal.NewFromInt(30)},
		{Name: "Ma Hla", Phone: "09792222222", PaymentModelType: &monthly, PaymentModelAmount: decimal.NewFromInt(150000)},
	}
	caretakerIds := make([]int, 0, len(caretakers))
	for _, input := range caretakers {
		caretaker, err := models.CreateCaretaker(ctx, input)
		if err != nil {
			log.Fatalf("seed caretaker %s: %v", input.Name, err)
		}
		caretakerIds = append(caretakerIds, caretaker.ID)
	}

	purchase := time.Now().AddDate(0, -4, 0)
	goats := []*models.NewGoat{
		{TagNumber: "G-001", Name: "Shwe", Breed: "Boer", Gender: "F", PurchasePrice: decimal.NewFromInt(95000), PurchaseDate: purchase, CurrentWeight: decimal.NewFromInt(40), CaretakerId: caretakerIds[0]},
		{TagNumber: "G-002", Name: "Ngwe", Breed: "Boer", Gender: "M", PurchasePrice: decimal.NewFromInt(88000), PurchaseDate: purchase, CurrentWeight: decimal.NewFromInt(33), CaretakerId: caretakerIds[0]},
		{TagNumber: "G-003", Name: "Phyu", Breed: "Jamunapari", Gender: "F", PurchasePrice: decimal.NewFromInt(102000), PurchaseDate: purchase.AddDate(0, 1, 0), CurrentWeight: decimal.NewFromInt(27), CaretakerId: caretakerIds[1]},
		{TagNumber: "G-004", Name: "Nyo", Breed: "Jamunapari", Gender: "M", PurchasePrice: decimal.NewFromInt(76000), PurchaseDate: purchase.AddDate(0, 1, 15), CurrentWeight: decimal.NewFromInt(30), CaretakerId: caretakerIds[1]},
	}
	goatIds := make([]int, 0, len(goats))
	for _, input := range goats {
		goat, err := models.CreateGoat(ctx, input)
		if err != nil {
			log.Fatalf("seed goat %s: %v", input.TagNumber, err)
		}
		goatIds = append(goatIds, goat.ID)
	}

	expenses := []*models.NewExpense{
		{Category: models.ExpenseCategoryFeed, Amount: decimal.NewFromInt(60000), ExpenseDate: purchase.AddDate(0, 1, 0), Notes: "monthly feed, whole herd"},
		{Category: models.ExpenseCategoryShelter, Amount: decimal.NewFromInt(40000), ExpenseDate: purchase.AddDate(0, 2, 0), Notes: "pen repair"},
		{GoatId: &goatIds[0], Category: models.ExpenseCategoryMedicine, Amount: decimal.NewFromInt(3000), ExpenseDate: purchase.AddDate(0, 2, 10)},
	}
	for _, input := range expenses {
		if _, err := models.CreateExpense(ctx, input); err != nil {
			log.Fatalf("seed expense: %v", err)
		}
	}

	if _, err := models.CreateHealthRecord(ctx, &models.NewHealthRecord{
		GoatId:     goatIds[2],
		RecordDate: purchase.AddDate(0, 2, 0),
		Condition:  "foot rot",
		Treatment:  "zinc sulfate bath",
		Cost:       decimal.NewFromInt(5000),
		Status:     models.HealthStatusRecovering,
	}); err != nil {
		log.Fatalf("seed health record: %v", err)
	}

	log.Printf("seeded %d caretakers, %d goats", len(caretakerIds), len(goatIds))
}
