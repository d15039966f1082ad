package models

import "errors"

// AccountNature governs the sign convention of an account's balance:
// Asset/Expense accounts carry debit-natured balances, the rest credit-natured.
type AccountNature string

const (
	AccountNatureAsset     AccountNature = "Asset"
	AccountNatureLiability AccountNature = "Liability"
	AccountNatureEquity    AccountNature = "Equity"
	AccountNatureRevenue   AccountNature = "Revenue"
	AccountNatureExpense   AccountNature = "Expense"
)

func (n AccountNature) Valid() bool {
	switch n {
	case AccountNatureAsset, AccountNatureLiability, AccountNatureEquity,
		AccountNatureRevenue, AccountNatureExpense:
		return true
	}
	return false
}

// IsDebitNature reports whether balance = debit - credit for this nature.
func (n AccountNature) IsDebitNature() bool {
	return n == AccountNatureAsset || n == AccountNatureExpense
}

func ParseAccountNature(s string) (AccountNature, error) {
	n := AccountNature(s)
	if !n.Valid() {
		return "", errors.New("invalid account nature: " + s)
	}
	return n, nil
}

type StatementType string

const (
	StatementTypeBalanceSheet    StatementType = "BALANCE_SHEET"
	StatementTypeIncomeStatement StatementType = "INCOME_STATEMENT"
)

func (t StatementType) Valid() bool {
	return t == StatementTypeBalanceSheet || t == StatementTypeIncomeStatement
}

// BalanceSheetBlock marks the balance-sheet section an account contributes to.
type BalanceSheetBlock string

const (
	BlockCurrentAsset        BalanceSheetBlock = "CURRENT_ASSET"
	BlockNonCurrentAsset     BalanceSheetBlock = "NON_CURRENT_ASSET"
	BlockCurrentLiability    BalanceSheetBlock = "CURRENT_LIABILITY"
	BlockNonCurrentLiability BalanceSheetBlock = "NON_CURRENT_LIABILITY"
	BlockEquity              BalanceSheetBlock = "EQUITY"
)

// IncomeBlock marks the income-statement section an account sums into.
type IncomeBlock string

const (
	BlockNetSales          IncomeBlock = "NET_SALES"
	BlockNetCostOfSales    IncomeBlock = "NET_COST_OF_SALES"
	BlockOperatingExpenses IncomeBlock = "OPERATING_EXPENSES"
	BlockOtherIncome       IncomeBlock = "OTHER_INCOME"
	BlockOtherExpenses     IncomeBlock = "OTHER_EXPENSES"
	BlockFinancialExpense  IncomeBlock = "FINANCIAL_EXPENSE"
	BlockIncomeTaxExpense  IncomeBlock = "INCOME_TAX_EXPENSE"
)

// IncomeBlockOrder is the presentation and cascade order of the income
// statement sections.
var IncomeBlockOrder = []IncomeBlock{
	BlockNetSales,
	BlockNetCostOfSales,
	BlockOperatingExpenses,
	BlockOtherIncome,
	BlockOtherExpenses,
	BlockFinancialExpense,
	BlockIncomeTaxExpense,
}

// Derived income-statement lines. Never mapped directly from accounts.
const (
	LineKeyGrossProfit     = "GROSS_PROFIT"
	LineKeyOperatingProfit = "OPERATING_PROFIT"
	LineKeyNetIncome       = "NET_INCOME"
)

const (
	LineKeyTotalAssets      = "TOTAL_ASSETS"
	LineKeyCurrentAsset     = "CURRENT_ASSET"
	LineKeyCurrentLiability = "CURRENT_LIABILITY"
	LineKeyEquity           = "EQUITY"
	LineKeyNetSales         = "NET_SALES"
	LineKeyCostOfSales      = "COST_OF_SALES"
)

// BenchmarkFlag classifies a ratio against a peer sample.
type BenchmarkFlag string

const (
	BenchmarkFlagHigh BenchmarkFlag = "ALTO"
	BenchmarkFlagLow  BenchmarkFlag = "BAJO"
	BenchmarkFlagOk   BenchmarkFlag = "OK"
	BenchmarkFlagNA   BenchmarkFlag = "NA"
)

// SectorFlag classifies a ratio against a sector reference threshold.
type SectorFlag string

const (
	SectorFlagMeets SectorFlag = "CUMPLE"
	SectorFlagFails SectorFlag = "NO_CUMPLE"
	SectorFlagNA    SectorFlag = "NA"
)
