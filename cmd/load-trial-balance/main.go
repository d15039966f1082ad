package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"bitbucket.org/mmdatafocus/stela_backend/models"
	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"bitbucket.org/mmdatafocus/stela_backend/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// One trial balance row. Debit and credit are the raw unsigned movements of
// the account; the signed balance is derived after loading.
type balanceRow struct {
	AccountCode string          `json:"account_code" validate:"required,max=30"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

var validate = validator.New()

// Loads a trial balance JSON file into one statement of a company/period,
// then recomputes balances, line values and ratios.
func main() {
	companyID := flag.String("company-id", "", "Company uuid (required).")
	year := flag.Int("year", 0, "Period year (required).")
	month := flag.Int("month", 0, "Period month, 0 for the annual period.")
	statementType := flag.String("type", "", "Statement type: BALANCE_SHEET or INCOME_STATEMENT (required).")
	file := flag.String("file", "", "Path to the trial balance JSON file (required).")
	recompute := flag.Bool("recompute", true, "Recompute line values and ratios after loading.")
	flag.Parse()

	companyId, err := uuid.Parse(strings.TrimSpace(*companyID))
	if err != nil {
		fmt.Fprintln(os.Stderr, "-company-id must be a valid uuid")
		os.Exit(1)
	}
	if *year == 0 || *file == "" {
		fmt.Fprintln(os.Stderr, "-year and -file are required")
		os.Exit(1)
	}
	stype := models.StatementType(strings.TrimSpace(*statementType))
	if !stype.Valid() {
		fmt.Fprintln(os.Stderr, "-type must be BALANCE_SHEET or INCOME_STATEMENT")
		os.Exit(1)
	}
	var monthPtr *int
	if *month != 0 {
		monthPtr = month
	}

	rows, err := readBalanceFile(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	logger := config.GetLogger()

	err = db.Transaction(func(tx *gorm.DB) error {
		company, err := models.GetCompanyById(ctx, tx, companyId)
		if err != nil {
			return fmt.Errorf("company %s not found", companyId)
		}
		catalog, err := models.GetCatalog(ctx, tx, company.ID, *year)
		if err != nil {
			return fmt.Errorf("company has no catalog for %d", *year)
		}
		period, err := models.GetOrCreatePeriod(ctx, tx, company.ID, *year, monthPtr)
		if err != nil {
			return err
		}
		statement, err := models.GetOrCreateStatement(ctx, tx, company.ID, period.ID, stype)
		if err != nil {
			return err
		}

		for _, row := range rows {
			account, err := models.GetAccountByCode(ctx, tx, catalog.ID, row.AccountCode)
			if err != nil {
				return fmt.Errorf("account %s not found in catalog %d", row.AccountCode, catalog.ID)
			}
			if _, err := models.UpsertLedgerEntry(ctx, tx, statement.ID, account.ID, row.Debit, row.Credit); err != nil {
				return fmt.Errorf("account %s: %w", row.AccountCode, err)
			}
		}

		if err := workflow.RecalculateBalances(ctx, tx, logger, statement.ID); err != nil {
			return err
		}
		if !*recompute {
			return nil
		}
		if _, err := workflow.ComputeStatementLines(ctx, tx, logger, statement.ID); err != nil {
			return err
		}
		_, err = workflow.ComputeRatios(ctx, tx, logger, company.ID, period.ID)
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load trial balance: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("loaded %d entries into %s %d", len(rows), stype, *year)
	if monthPtr != nil {
		fmt.Printf("-%02d", *monthPtr)
	}
	fmt.Println()
}

func readBalanceFile(path string) ([]balanceRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	var rows []balanceRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s contains no rows", path)
	}
	codes := make([]string, 0, len(rows))
	for i, row := range rows {
		if err := validate.Struct(&row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if row.Debit.IsNegative() || row.Credit.IsNegative() {
			return nil, fmt.Errorf("row %d (%s): debit and credit must be non-negative", i+1, row.AccountCode)
		}
		codes = append(codes, row.AccountCode)
	}
	if len(utils.UniqueSlice(codes)) != len(codes) {
		return nil, fmt.Errorf("%s contains duplicate account codes", path)
	}
	return rows, nil
}
