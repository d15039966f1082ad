package models

import (
	"log"

	"bitbucket.org/mmdatafocus/stela_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Ciiu{}, &Company{},
		&Period{},
		&Catalog{}, &AccountGroup{}, &Account{},
		&Statement{}, &LedgerEntry{}, &StatementValue{},
		&StatementLine{}, &AccountLineMapping{},
		&RatioDefinition{}, &RatioResult{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
