package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/stela_backend/models"
	"github.com/shopspring/decimal"
)

func entry(accountId int, balance string, nature models.AccountNature, block models.IncomeBlock) *models.LedgerEntry {
	return &models.LedgerEntry{
		AccountId: accountId,
		Balance:   decimal.RequireFromString(balance),
		Account: &models.Account{
			ID:      accountId,
			ErBlock: block,
			Group:   &models.AccountGroup{Nature: nature},
		},
	}
}

func mapping(accountId int, lineKey string, sign int) *models.AccountLineMapping {
	return &models.AccountLineMapping{
		AccountId: accountId,
		Sign:      sign,
		Line:      &models.StatementLine{Key: lineKey},
	}
}

func TestComputeLineValuesSignedAggregation(t *testing.T) {
	entries := []*models.LedgerEntry{
		entry(1, "1000", models.AccountNatureRevenue, ""),
		entry(2, "2000", models.AccountNatureRevenue, ""),
		entry(3, "300", models.AccountNatureRevenue, ""),
	}
	mappings := []*models.AccountLineMapping{
		mapping(1, models.LineKeyNetSales, 1),
		mapping(2, models.LineKeyNetSales, 1),
		mapping(3, models.LineKeyNetSales, -1),
	}
	got := ComputeLineValues(entries, mappings)
	if !got[models.LineKeyNetSales].Equal(decimal.RequireFromString("2700")) {
		t.Fatalf("NET_SALES: got %s, want 2700", got[models.LineKeyNetSales])
	}
}

func TestComputeLineValuesUnmatchedLineIsZero(t *testing.T) {
	mappings := []*models.AccountLineMapping{
		mapping(99, models.LineKeyCurrentAsset, 1),
	}
	got := ComputeLineValues(nil, mappings)
	value, ok := got[models.LineKeyCurrentAsset]
	if !ok {
		t.Fatal("mapped line missing from result")
	}
	if !value.IsZero() {
		t.Fatalf("CURRENT_ASSET: got %s, want 0", value)
	}
}

func TestComputeLineValuesIgnoresUnmappedEntries(t *testing.T) {
	entries := []*models.LedgerEntry{
		entry(1, "500", models.AccountNatureAsset, ""),
		entry(2, "700", models.AccountNatureAsset, ""),
	}
	mappings := []*models.AccountLineMapping{
		mapping(1, models.LineKeyTotalAssets, 1),
	}
	got := ComputeLineValues(entries, mappings)
	if !got[models.LineKeyTotalAssets].Equal(decimal.RequireFromString("500")) {
		t.Fatalf("TOTAL_ASSETS: got %s, want 500", got[models.LineKeyTotalAssets])
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got))
	}
}

func TestSectionTotalsCascade(t *testing.T) {
	entries := []*models.LedgerEntry{
		entry(1, "1000", models.AccountNatureRevenue, models.BlockNetSales),
		// contra revenue: discounts carry a negative signed balance
		entry(2, "-50", models.AccountNatureRevenue, models.BlockNetSales),
		entry(3, "400", models.AccountNatureExpense, models.BlockNetCostOfSales),
		entry(4, "100", models.AccountNatureExpense, models.BlockOperatingExpenses),
		entry(5, "30", models.AccountNatureRevenue, models.BlockOtherIncome),
		entry(6, "20", models.AccountNatureExpense, models.BlockIncomeTaxExpense),
	}
	got := SectionTotals(entries)

	check := func(key string, want string) {
		t.Helper()
		if !got[key].Equal(decimal.RequireFromString(want)) {
			t.Fatalf("%s: got %s, want %s", key, got[key], want)
		}
	}
	check(string(models.BlockNetSales), "950")
	check(string(models.BlockNetCostOfSales), "400")
	check(models.LineKeyGrossProfit, "550")
	check(models.LineKeyOperatingProfit, "450")
	// 450 - 0 + 30 - 0 - 20
	check(models.LineKeyNetIncome, "460")
}

func TestSectionTotalsOmitEmptyBlocks(t *testing.T) {
	got := SectionTotals(nil)
	for _, block := range models.IncomeBlockOrder {
		if _, ok := got[string(block)]; ok {
			t.Fatalf("%s: empty block must be omitted, got %s", block, got[string(block)])
		}
	}
	for _, key := range []string{models.LineKeyGrossProfit, models.LineKeyOperatingProfit, models.LineKeyNetIncome} {
		value, ok := got[key]
		if !ok {
			t.Fatalf("%s: cascade key missing", key)
		}
		if !value.IsZero() {
			t.Fatalf("%s: got %s, want 0", key, value)
		}
	}
}

func TestSectionTotalsMergeKeepsMappedLinesWithoutBlocks(t *testing.T) {
	// Sales accounts carry ratio tags but no er_block, as blocks are
	// optional. The block merge must not zero the mapped aggregate.
	entries := []*models.LedgerEntry{
		entry(1, "1000", models.AccountNatureRevenue, ""),
		entry(2, "2000", models.AccountNatureRevenue, ""),
		entry(3, "300", models.AccountNatureRevenue, ""),
	}
	mappings := []*models.AccountLineMapping{
		mapping(1, models.LineKeyNetSales, 1),
		mapping(2, models.LineKeyNetSales, 1),
		mapping(3, models.LineKeyNetSales, -1),
	}
	values := ComputeLineValues(entries, mappings)
	for key, amount := range SectionTotals(entries) {
		values[key] = amount
	}
	if !values[models.LineKeyNetSales].Equal(decimal.RequireFromString("2700")) {
		t.Fatalf("NET_SALES: got %s, want 2700", values[models.LineKeyNetSales])
	}
	if _, ok := values[models.LineKeyNetIncome]; !ok {
		t.Fatal("NET_INCOME cascade key missing after merge")
	}
}

func TestSectionTotalsCounterNatureReducesBlock(t *testing.T) {
	entries := []*models.LedgerEntry{
		entry(1, "1000", models.AccountNatureRevenue, models.BlockNetSales),
		// expense-nature account sitting in the sales block reduces it
		entry(2, "200", models.AccountNatureExpense, models.BlockNetSales),
		entry(3, "500", models.AccountNatureExpense, models.BlockNetCostOfSales),
		// revenue-nature recovery inside a cost block reduces it
		entry(4, "100", models.AccountNatureRevenue, models.BlockNetCostOfSales),
	}
	got := SectionTotals(entries)
	if !got[string(models.BlockNetSales)].Equal(decimal.RequireFromString("800")) {
		t.Fatalf("NET_SALES: got %s, want 800", got[string(models.BlockNetSales)])
	}
	if !got[string(models.BlockNetCostOfSales)].Equal(decimal.RequireFromString("400")) {
		t.Fatalf("NET_COST_OF_SALES: got %s, want 400", got[string(models.BlockNetCostOfSales)])
	}
	if !got[models.LineKeyGrossProfit].Equal(decimal.RequireFromString("400")) {
		t.Fatalf("GROSS_PROFIT: got %s, want 400", got[models.LineKeyGrossProfit])
	}
}
