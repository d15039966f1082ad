package workflow

import (
	"context"
	"fmt"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"bitbucket.org/mmdatafocus/stela_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SignedBalance converts a raw debit/credit pair into the account's signed
// balance. Asset and Expense accounts carry debit-natured balances, all other
// natures credit-natured.
func SignedBalance(nature models.AccountNature, debit decimal.Decimal, credit decimal.Decimal) decimal.Decimal {
	if nature.IsDebitNature() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// RecalculateBalances recomputes the signed balance of every ledger entry in a
// statement and persists the ones that changed. An entry whose account group
// is missing or carries no valid nature is a configuration error and aborts
// the whole recalculation.
func RecalculateBalances(ctx context.Context, tx *gorm.DB, logger *logrus.Logger, statementId int) error {
	entries, err := models.GetStatementEntries(ctx, tx, statementId)
	if err != nil {
		config.LogError(logger, "balanceWorkflow.go", "RecalculateBalances", "GetStatementEntries", statementId, err)
		return err
	}
	for _, entry := range entries {
		if entry.Account == nil || entry.Account.Group == nil {
			err := fmt.Errorf("ledger entry %d: account %d has no group", entry.ID, entry.AccountId)
			config.LogError(logger, "balanceWorkflow.go", "RecalculateBalances", "ResolveNature", entry.ID, err)
			return err
		}
		nature := entry.Account.Group.Nature
		if !nature.Valid() {
			err := fmt.Errorf("ledger entry %d: account %s has invalid nature %q", entry.ID, entry.Account.Code, nature)
			config.LogError(logger, "balanceWorkflow.go", "RecalculateBalances", "ResolveNature", entry.ID, err)
			return err
		}
		balance := SignedBalance(nature, entry.Debit, entry.Credit)
		if balance.Equal(entry.Balance) {
			continue
		}
		entry.Balance = balance
		if err := tx.WithContext(ctx).Save(entry).Error; err != nil {
			config.LogError(logger, "balanceWorkflow.go", "RecalculateBalances", "Save", entry.ID, err)
			return err
		}
	}
	return nil
}
