package workflow

import (
	"context"
	"sort"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"bitbucket.org/mmdatafocus/stela_backend/models"
	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Blocks whose accounts normally carry expense-natured balances. Used to
// orient mixed-nature contributions so every block total comes out as a
// positive magnitude.
var expenseDirectionBlocks = map[models.IncomeBlock]bool{
	models.BlockNetCostOfSales:    true,
	models.BlockOperatingExpenses: true,
	models.BlockOtherExpenses:     true,
	models.BlockFinancialExpense:  true,
	models.BlockIncomeTaxExpense:  true,
}

// ComputeLineValues aggregates signed balances into canonical line values:
// value = Σ balance × sign over the line's mappings. A mapped line with no
// matching entries is 0, never missing.
func ComputeLineValues(entries []*models.LedgerEntry, mappings []*models.AccountLineMapping) map[string]decimal.Decimal {
	balances := make(map[int]decimal.Decimal, len(entries))
	for _, entry := range entries {
		balances[entry.AccountId] = entry.Balance
	}
	values := map[string]decimal.Decimal{}
	for _, mapping := range mappings {
		if mapping.Line == nil {
			continue
		}
		key := mapping.Line.Key
		if _, ok := values[key]; !ok {
			values[key] = decimal.Zero
		}
		balance, ok := balances[mapping.AccountId]
		if !ok {
			continue
		}
		if mapping.Sign < 0 {
			balance = balance.Neg()
		}
		values[key] = values[key].Add(balance)
	}
	return values
}

// SectionTotals computes one subtotal per populated income-statement block
// plus the derived cascade. Blocks are optional account metadata, so a block
// with no matching entries is left out of the result entirely; a line value
// mapped under the same key must survive the merge. The cascade treats absent
// blocks as 0 and is always present:
//
//	GROSS_PROFIT     = NET_SALES - NET_COST_OF_SALES
//	OPERATING_PROFIT = GROSS_PROFIT - OPERATING_EXPENSES
//	NET_INCOME       = OPERATING_PROFIT - FINANCIAL_EXPENSE
//	                   + OTHER_INCOME - OTHER_EXPENSES - INCOME_TAX_EXPENSE
func SectionTotals(entries []*models.LedgerEntry) map[string]decimal.Decimal {
	blocks := make(map[string]decimal.Decimal, len(models.IncomeBlockOrder))
	populated := make(map[string]bool, len(models.IncomeBlockOrder))
	for _, block := range models.IncomeBlockOrder {
		blocks[string(block)] = decimal.Zero
	}
	for _, entry := range entries {
		if entry.Account == nil || entry.Account.ErBlock == "" {
			continue
		}
		block := entry.Account.ErBlock
		if _, ok := blocks[string(block)]; !ok {
			continue
		}
		contribution := entry.Balance
		if entry.Account.Group != nil {
			nature := entry.Account.Group.Nature
			// An account posted against its block's direction reduces
			// the block instead of growing it.
			if expenseDirectionBlocks[block] && nature == models.AccountNatureRevenue {
				contribution = contribution.Neg()
			}
			if !expenseDirectionBlocks[block] && nature == models.AccountNatureExpense {
				contribution = contribution.Neg()
			}
		}
		blocks[string(block)] = blocks[string(block)].Add(contribution)
		populated[string(block)] = true
	}

	grossProfit := blocks[string(models.BlockNetSales)].
		Sub(blocks[string(models.BlockNetCostOfSales)])
	operatingProfit := grossProfit.
		Sub(blocks[string(models.BlockOperatingExpenses)])
	netIncome := operatingProfit.
		Sub(blocks[string(models.BlockFinancialExpense)]).
		Add(blocks[string(models.BlockOtherIncome)]).
		Sub(blocks[string(models.BlockOtherExpenses)]).
		Sub(blocks[string(models.BlockIncomeTaxExpense)])

	totals := make(map[string]decimal.Decimal, len(populated)+3)
	for key, amount := range blocks {
		if populated[key] {
			totals[key] = amount
		}
	}
	totals[models.LineKeyGrossProfit] = grossProfit
	totals[models.LineKeyOperatingProfit] = operatingProfit
	totals[models.LineKeyNetIncome] = netIncome
	return totals
}

// ComputeStatementLines recomputes and persists the line values of one
// statement: mapped line aggregation for both statement types, plus block
// subtotals and the derived cascade for income statements. Previous values of
// the statement type are replaced wholesale.
func ComputeStatementLines(ctx context.Context, tx *gorm.DB, logger *logrus.Logger, statementId int) (map[string]decimal.Decimal, error) {
	statement, err := models.GetStatementById(ctx, tx, statementId)
	if err != nil {
		config.LogError(logger, "statementWorkflow.go", "ComputeStatementLines", "GetStatementById", statementId, err)
		return nil, err
	}
	if statement.Period == nil {
		config.LogError(logger, "statementWorkflow.go", "ComputeStatementLines", "ResolvePeriod", statementId, utils.ErrorRecordNotFound)
		return nil, utils.ErrorRecordNotFound
	}
	entries, err := models.GetStatementEntries(ctx, tx, statementId)
	if err != nil {
		config.LogError(logger, "statementWorkflow.go", "ComputeStatementLines", "GetStatementEntries", statementId, err)
		return nil, err
	}

	catalog, err := models.GetCatalog(ctx, tx, statement.CompanyId, statement.Period.Year)
	if err != nil {
		config.LogError(logger, "statementWorkflow.go", "ComputeStatementLines", "GetCatalog", statement.Period.Year, err)
		return nil, err
	}
	mappings, err := models.GetCatalogMappings(ctx, tx, catalog.ID)
	if err != nil {
		config.LogError(logger, "statementWorkflow.go", "ComputeStatementLines", "GetCatalogMappings", catalog.ID, err)
		return nil, err
	}

	values := ComputeLineValues(entries, mappings)
	if statement.Type == models.StatementTypeIncomeStatement {
		for key, amount := range SectionTotals(entries) {
			values[key] = amount
		}
	}

	lines, err := models.GetStatementLines(ctx, tx, statement.Type)
	if err != nil {
		config.LogError(logger, "statementWorkflow.go", "ComputeStatementLines", "GetStatementLines", statement.Type, err)
		return nil, err
	}
	names := make(map[string]string, len(lines))
	for _, line := range lines {
		names[line.Key] = line.Name
	}

	if err := models.DeleteStatementValues(ctx, tx, statement.CompanyId, statement.PeriodId, statement.Type); err != nil {
		config.LogError(logger, "statementWorkflow.go", "ComputeStatementLines", "DeleteStatementValues", statementId, err)
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		name, ok := names[key]
		if !ok {
			name = key
		}
		err := models.UpsertStatementValue(ctx, tx, statement.CompanyId, statement.PeriodId, statement.Type, key, name, values[key])
		if err != nil {
			config.LogError(logger, "statementWorkflow.go", "ComputeStatementLines", "UpsertStatementValue", key, err)
			return nil, err
		}
	}
	return values, nil
}
