package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"bitbucket.org/mmdatafocus/stela_backend/models"
	"bitbucket.org/mmdatafocus/stela_backend/workflow"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Recomputes balances, statement line values and ratio results for one
// period of one company, or of every active company.
func main() {
	companyID := flag.String("company-id", "", "Optional: recompute only one company (uuid string). If empty, recomputes all active companies.")
	year := flag.Int("year", 0, "Period year, 0 for every period of the company.")
	month := flag.Int("month", 0, "Period month, 0 for the annual period.")
	flag.Parse()

	var monthPtr *int
	if *month != 0 {
		monthPtr = month
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	logger := config.GetLogger()

	var companies []models.Company
	query := db.WithContext(ctx).Model(&models.Company{}).Where("is_active = true")
	if strings.TrimSpace(*companyID) != "" {
		query = query.Where("id = ?", strings.TrimSpace(*companyID))
	}
	if err := query.Find(&companies).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to list companies: %v\n", err)
		os.Exit(1)
	}
	if len(companies) == 0 {
		fmt.Fprintln(os.Stderr, "no companies found to recompute")
		return
	}

	for _, company := range companies {
		if err := recomputeCompany(ctx, db, logger, company.ID, *year, monthPtr); err != nil {
			fmt.Fprintf(os.Stderr, "company %s: %v\n", company.ID, err)
			continue
		}
		fmt.Printf("company %s: recomputed\n", company.ID)
	}
}

// recomputeCompany reruns the whole pipeline for the selected periods of one
// company, serialized per company across instances when Redis is configured.
// Year 0 selects every period.
func recomputeCompany(ctx context.Context, db *gorm.DB, logger *logrus.Logger, companyId uuid.UUID, year int, month *int) error {
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(config.GetRedisContext(),
			fmt.Sprintf("recompute:%s", companyId), 2*time.Minute, &redislock.Options{
				RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(500*time.Millisecond), 20),
			})
		if err != nil {
			return fmt.Errorf("could not obtain recompute lock: %w", err)
		}
		defer func() {
			_ = lock.Release(config.GetRedisContext())
		}()
	}

	var periods []*models.Period
	if year == 0 {
		var err error
		periods, err = models.GetCompanyPeriods(ctx, db, companyId)
		if err != nil {
			return err
		}
		if len(periods) == 0 {
			return errors.New("company has no periods")
		}
	} else {
		period, err := models.GetPeriod(ctx, db, companyId, year, month)
		if err != nil {
			return fmt.Errorf("period %d not found", year)
		}
		periods = append(periods, period)
	}

	for _, period := range periods {
		if err := recomputePeriod(ctx, db, logger, companyId, period); err != nil {
			return fmt.Errorf("period %s: %w", period.Label(), err)
		}
	}
	return nil
}

// recomputePeriod reruns balances, line values and ratios of one period
// inside a single transaction.
func recomputePeriod(ctx context.Context, db *gorm.DB, logger *logrus.Logger, companyId uuid.UUID, period *models.Period) error {
	return db.Transaction(func(tx *gorm.DB) error {
		recomputed := 0
		for _, statementType := range []models.StatementType{
			models.StatementTypeBalanceSheet,
			models.StatementTypeIncomeStatement,
		} {
			statement, err := models.GetStatement(ctx, tx, companyId, period.ID, statementType)
			if err != nil {
				continue
			}
			if err := workflow.RecalculateBalances(ctx, tx, logger, statement.ID); err != nil {
				return err
			}
			if _, err := workflow.ComputeStatementLines(ctx, tx, logger, statement.ID); err != nil {
				return err
			}
			recomputed++
		}
		if recomputed == 0 {
			return fmt.Errorf("no statements found for period %s", period.Label())
		}
		_, err := workflow.ComputeRatios(ctx, tx, logger, companyId, period.ID)
		return err
	})
}
