package models

import (
	"bitbucket.org/mmdatafocus/goatfarm_backend/config"
)

func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&Business{},
		&Goat{},
		&Expense{},
		&HealthRecord{},
		&WeightRecord{},
		&Caretaker{},
		&SaleTransaction{},
		&History{},
	)
	if err != nil {
		config.GetLogger().Panic(err.Error())
	}
}
