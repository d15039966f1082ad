package models

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default statement template lines. TOTAL_ASSETS and NET_SALES are the
// vertical-analysis bases of their statements.
type defaultLine struct {
	statement StatementType
	key       string
	name      string
	base      bool
}

var defaultStatementLines = []defaultLine{
	{StatementTypeBalanceSheet, LineKeyTotalAssets, "Total Assets", true},
	{StatementTypeBalanceSheet, LineKeyCurrentAsset, "Current Assets", false},
	{StatementTypeBalanceSheet, LineKeyCurrentLiability, "Current Liabilities", false},
	{StatementTypeBalanceSheet, LineKeyEquity, "Equity", false},
	{StatementTypeIncomeStatement, LineKeyNetSales, "Net Sales", true},
	{StatementTypeIncomeStatement, LineKeyCostOfSales, "Cost of Sales", false},
	{StatementTypeIncomeStatement, LineKeyNetIncome, "Net Income", false},
}

// Default ratio definitions over the canonical keys above.
var defaultRatioDefinitions = []NewRatioDefinition{
	{Key: "CURRENT_RATIO", Name: "Current Ratio", Formula: "(CURRENT_ASSET)/(CURRENT_LIABILITY)", Percentage: false},
	{Key: "INDEBTEDNESS", Name: "Indebtedness", Formula: "(CURRENT_LIABILITY)/(TOTAL_ASSETS)", Percentage: true},
	{Key: "NET_MARGIN", Name: "Net Margin", Formula: "(NET_INCOME)/(NET_SALES)", Percentage: true},
	{Key: "ROA", Name: "Return on Assets (ROA)", Formula: "(NET_INCOME)/(TOTAL_ASSETS)", Percentage: true},
	{Key: "ROE", Name: "Return on Equity (ROE)", Formula: "(NET_INCOME)/(EQUITY)", Percentage: true},
	{Key: "ASSET_TURNOVER", Name: "Asset Turnover", Formula: "(NET_SALES)/(TOTAL_ASSETS)", Percentage: false},
	{Key: "LEVERAGE", Name: "Leverage", Formula: "(TOTAL_ASSETS)/(EQUITY)", Percentage: false},
	{Key: "WORKING_CAPITAL", Name: "Working Capital", Formula: "(CURRENT_ASSET)-(CURRENT_LIABILITY)", Percentage: false},
	{Key: "CURRENT_ASSET_RATIO", Name: "Current Asset Ratio", Formula: "(CURRENT_ASSET)/(TOTAL_ASSETS)", Percentage: true},
	{Key: "EQUITY_RATIO", Name: "Equity Ratio", Formula: "(EQUITY)/(TOTAL_ASSETS)", Percentage: true},
}

// SeedStatementLines creates the default template lines, skipping existing
// keys so re-seeding stays idempotent.
func SeedStatementLines(ctx context.Context, tx *gorm.DB) error {
	for _, d := range defaultStatementLines {
		var count int64
		err := tx.WithContext(ctx).Model(&StatementLine{}).
			Where("`key` = ?", d.key).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		base := d.base
		line := StatementLine{
			Statement:    d.statement,
			Key:          d.key,
			Name:         d.name,
			VerticalBase: &base,
		}
		if err := tx.WithContext(ctx).Create(&line).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedRatioDefinitions creates the default ratios, skipping existing keys.
func SeedRatioDefinitions(ctx context.Context, tx *gorm.DB) error {
	for i := range defaultRatioDefinitions {
		input := defaultRatioDefinitions[i]
		var count int64
		err := tx.WithContext(ctx).Model(&RatioDefinition{}).
			Where("`key` = ?", input.Key).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if _, err := CreateRatioDefinition(ctx, tx, &input); err != nil {
			return err
		}
	}
	return nil
}

type baseAccount struct {
	code    string
	name    string
	group   string
	nature  AccountNature
	bgBlock BalanceSheetBlock
	erBlock IncomeBlock
	tag     string
}

// Base chart of accounts seeded into new catalogs. Tags are the detail-level
// keys the auto-mapper groups by; block-level lines (CURRENT_ASSET and
// friends) are mapped from tags the company assigns when it customizes the
// catalog.
var baseAccounts = []baseAccount{
	{"1101", "Cash", "Current Assets", AccountNatureAsset, BlockCurrentAsset, "", "CASH"},
	{"1102", "Banks", "Current Assets", AccountNatureAsset, BlockCurrentAsset, "", "CASH"},
	{"1103", "Cash Equivalents / Short-Term Investments", "Current Assets", AccountNatureAsset, BlockCurrentAsset, "", "CASH"},
	{"1201", "Trade Accounts Receivable", "Current Assets", AccountNatureAsset, BlockCurrentAsset, "", "ACCOUNTS_RECEIVABLE"},
	{"1202", "Allowance for Doubtful Accounts", "Current Assets", AccountNatureAsset, BlockCurrentAsset, "", ""},
	{"1301", "Inventories", "Current Assets", AccountNatureAsset, BlockCurrentAsset, "", "INVENTORIES"},
	{"1401", "Other Current Assets", "Current Assets", AccountNatureAsset, BlockCurrentAsset, "", ""},
	{"1501", "Property, Plant and Equipment - Cost", "Non-Current Assets", AccountNatureAsset, BlockNonCurrentAsset, "", ""},
	{"1502", "Accumulated Depreciation of PPE", "Non-Current Assets", AccountNatureAsset, BlockNonCurrentAsset, "", "DEPRECIATION"},
	{"1601", "Intangible Assets", "Non-Current Assets", AccountNatureAsset, BlockNonCurrentAsset, "", ""},
	{"1602", "Accumulated Amortization", "Non-Current Assets", AccountNatureAsset, BlockNonCurrentAsset, "", "AMORTIZATION"},
	{"1701", "Other Non-Current Assets", "Non-Current Assets", AccountNatureAsset, BlockNonCurrentAsset, "", ""},
	{"2101", "Trade Accounts Payable", "Current Liabilities", AccountNatureLiability, BlockCurrentLiability, "", ""},
	{"2102", "Other Payables / Accrued Liabilities", "Current Liabilities", AccountNatureLiability, BlockCurrentLiability, "", ""},
	{"2103", "Current Portion of Loans", "Current Liabilities", AccountNatureLiability, BlockCurrentLiability, "", ""},
	{"2104", "Notes Payable", "Current Liabilities", AccountNatureLiability, BlockCurrentLiability, "", ""},
	{"2501", "Long-Term Loans and Obligations", "Non-Current Liabilities", AccountNatureLiability, BlockNonCurrentLiability, "", ""},
	{"3101", "Share Capital", "Equity", AccountNatureEquity, BlockEquity, "", ""},
	{"3102", "Reserves / Other Equity Accounts", "Equity", AccountNatureEquity, BlockEquity, "", ""},
	{"3103", "Retained Earnings", "Equity", AccountNatureEquity, BlockEquity, "", ""},
	{"4101", "Sales", "Revenue", AccountNatureRevenue, "", BlockNetSales, "NET_SALES"},
	{"4102", "Sales Discounts", "Revenue", AccountNatureRevenue, "", BlockNetSales, ""},
	{"4103", "Sales Returns", "Revenue", AccountNatureRevenue, "", BlockNetSales, ""},
	{"4301", "Other Income", "Revenue", AccountNatureRevenue, "", BlockOtherIncome, "OTHER_INCOME"},
	{"5101", "Cost of Sales", "Costs", AccountNatureExpense, "", BlockNetCostOfSales, "COST_OF_SALES"},
	{"5102", "Purchase Returns", "Costs", AccountNatureExpense, "", BlockNetCostOfSales, ""},
	{"5103", "Merchandise Purchases", "Costs", AccountNatureExpense, "", "", "PURCHASES"},
	{"5201", "Operating / Administrative Expenses", "Expenses", AccountNatureExpense, "", BlockOperatingExpenses, "OPERATING_EXPENSES"},
	{"5202", "Selling Expenses", "Expenses", AccountNatureExpense, "", BlockOperatingExpenses, "OPERATING_EXPENSES"},
	{"5203", "General Expenses", "Expenses", AccountNatureExpense, "", BlockOperatingExpenses, "OPERATING_EXPENSES"},
	{"5301", "Other Expenses", "Expenses", AccountNatureExpense, "", BlockOtherExpenses, "OTHER_EXPENSES"},
	{"5401", "Financial Expense / Interest", "Expenses", AccountNatureExpense, "", BlockFinancialExpense, "FINANCIAL_EXPENSE"},
	{"5501", "Income Tax", "Expenses", AccountNatureExpense, "", BlockIncomeTaxExpense, "INCOME_TAX"},
	{"5601", "Depreciation Expense", "Expenses", AccountNatureExpense, "", "", "DEPRECIATION"},
	{"5602", "Amortization Expense", "Expenses", AccountNatureExpense, "", "", "AMORTIZATION"},
	{"5701", "Loan Principal Payments / Debt Service", "Current Liabilities", AccountNatureLiability, BlockCurrentLiability, "", "DEBT_SERVICE"},
}

// CreateBaseCatalog creates a catalog for the company/year pre-populated with
// the base chart of accounts.
func CreateBaseCatalog(ctx context.Context, tx *gorm.DB, companyId uuid.UUID, year int) (*Catalog, error) {
	catalog, err := CreateCatalog(ctx, tx, companyId, year)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*AccountGroup)
	for _, a := range baseAccounts {
		group, ok := groups[a.group]
		if !ok {
			group, err = CreateAccountGroup(ctx, tx, catalog.ID, a.group, a.nature)
			if err != nil {
				return nil, err
			}
			groups[a.group] = group
		}
		_, err := CreateAccount(ctx, tx, &NewAccount{
			GroupId:  group.ID,
			Code:     a.code,
			Name:     a.name,
			BgBlock:  string(a.bgBlock),
			ErBlock:  string(a.erBlock),
			RatioTag: a.tag,
		})
		if err != nil {
			return nil, err
		}
	}
	return catalog, nil
}
