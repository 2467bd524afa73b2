package reports

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testSchema = []string{
	`CREATE TABLE businesses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact_name TEXT,
		email TEXT,
		phone TEXT,
		address TEXT,
		timezone TEXT,
		legacy_payment_model_type TEXT,
		legacy_payment_model_amount NUMERIC DEFAULT 0,
		is_active NUMERIC NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE goats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id TEXT NOT NULL,
		tag_number TEXT NOT NULL,
		name TEXT,
		breed TEXT,
		gender TEXT,
		purchase_price NUMERIC DEFAULT 0,
		purchase_date DATETIME NOT NULL,
		current_weight NUMERIC DEFAULT 0,
		status TEXT DEFAULT 'Active',
		caretaker_id INTEGER,
		sale_price NUMERIC DEFAULT 0,
		sale_date DATETIME,
		buyer TEXT,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id TEXT NOT NULL,
		goat_id INTEGER,
		category TEXT DEFAULT 'Other',
		amount NUMERIC DEFAULT 0,
		expense_date DATETIME NOT NULL,
		reference_number TEXT,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE health_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id TEXT NOT NULL,
		goat_id INTEGER NOT NULL,
		record_date DATETIME NOT NULL,
		condition TEXT,
		treatment TEXT,
		cost NUMERIC DEFAULT 0,
		status TEXT DEFAULT 'Healthy',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE caretakers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		payment_model_type TEXT,
		payment_model_amount NUMERIC DEFAULT 0,
		total_earnings NUMERIC DEFAULT 0,
		is_active NUMERIC NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE sale_transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id TEXT NOT NULL,
		goat_id INTEGER NOT NULL,
		amount NUMERIC NOT NULL,
		sale_date DATETIME NOT NULL,
		buyer TEXT,
		caretaker_id INTEGER,
		caretaker_share NUMERIC DEFAULT 0,
		gross_profit NUMERIC DEFAULT 0,
		net_profit NUMERIC DEFAULT 0,
		description TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE histories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id TEXT NOT NULL,
		action_type TEXT NOT NULL,
		before TEXT,
		after TEXT,
		description TEXT NOT NULL,
		reference_id INTEGER,
		reference_type TEXT,
		user_id INTEGER,
		user_name TEXT,
		created_at DATETIME
	)`,
}

// setupTestDB creates the schema and a UTC business, returning the db handle
// and a context scoped to the business.
func setupTestDB(t *testing.T) (*gorm.DB, context.Context) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, ddl := range testSchema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(nil) })

	business := models.Business{
		ID:       uuid.New(),
		Name:     "Report Farm",
		Timezone: "UTC",
		IsActive: utils.NewTrue(),
	}
	if err := db.Create(&business).Error; err != nil {
		t.Fatalf("create business: %v", err)
	}

	ctx := utils.SetBusinessIdInContext(context.Background(), business.ID.String())
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "tester")
	return db, ctx
}

func dateOf(t *testing.T, value string) *models.MyDateString {
	t.Helper()
	var d models.MyDateString
	if err := d.UnmarshalJSON([]byte(`"` + value + `"`)); err != nil {
		t.Fatalf("parse date %s: %v", value, err)
	}
	return &d
}
