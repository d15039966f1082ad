package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"bitbucket.org/mmdatafocus/stela_backend/models"
	"bitbucket.org/mmdatafocus/stela_backend/workflow"
	"gorm.io/gorm"
)

// Seeds the statement line template and the default ratio definitions, and
// optionally creates a company with the base chart of accounts.
func main() {
	companyName := flag.String("company", "", "Optional: also create this company with a base catalog.")
	taxId := flag.String("tax-id", "", "Tax id of the company being created.")
	ciiuCode := flag.String("ciiu", "", "CIIU code of the company being created (created on the fly if missing).")
	ciiuDescription := flag.String("ciiu-description", "", "Description used when the CIIU code is created.")
	year := flag.Int("year", time.Now().Year(), "Catalog year for the created company.")
	autoMap := flag.Bool("automap", true, "Run the auto-mapper on the created catalog.")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	logger := config.GetLogger()

	models.MigrateTable()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := models.SeedStatementLines(ctx, tx); err != nil {
			return err
		}
		return models.SeedRatioDefinitions(ctx, tx)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed lines and ratios: %v\n", err)
		os.Exit(1)
	}
	if err := models.InvalidateSectorRatioCache(); err != nil {
		fmt.Fprintf(os.Stderr, "could not invalidate sector ratio cache: %v\n", err)
	}
	fmt.Println("statement lines and ratio definitions seeded")

	name := strings.TrimSpace(*companyName)
	if name == "" {
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		ciiuId := 0
		if code := strings.TrimSpace(*ciiuCode); code != "" {
			ciiu, err := models.GetCiiuByCode(ctx, tx, code)
			if err != nil {
				ciiu, err = models.CreateCiiu(ctx, tx, code, strings.TrimSpace(*ciiuDescription))
				if err != nil {
					return err
				}
			}
			ciiuId = ciiu.ID
		}

		company, err := models.CreateCompany(ctx, tx, &models.NewCompany{
			Name:   name,
			TaxId:  strings.TrimSpace(*taxId),
			CiiuId: ciiuId,
		})
		if err != nil {
			return err
		}
		catalog, err := models.CreateBaseCatalog(ctx, tx, company.ID, *year)
		if err != nil {
			return err
		}
		fmt.Printf("company %s created with catalog %d (%d)\n", company.ID, catalog.ID, *year)

		if !*autoMap {
			return nil
		}
		if err := workflow.AcquireCatalogMappingLock(tx, catalog.ID); err != nil {
			return err
		}
		defer workflow.ReleaseCatalogMappingLock(tx, catalog.ID)
		summary, err := workflow.AutoMapCatalog(ctx, tx, logger, catalog.ID)
		if err != nil {
			return err
		}
		for key, count := range summary {
			fmt.Printf("mapped %-24s %d accounts\n", key, count)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create company: %v\n", err)
		os.Exit(1)
	}
}
