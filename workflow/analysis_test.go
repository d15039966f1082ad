package workflow

import (
	"testing"

	"github.com/shopspring/decimal"
)

func line(key string, amount string, base bool) LineValue {
	return LineValue{Key: key, Name: key, Amount: decimal.RequireFromString(amount), Base: base}
}

func TestVerticalAnalysisPercentOfBase(t *testing.T) {
	rows := VerticalAnalysis([]LineValue{
		line("TOTAL_ASSETS", "2000", true),
		line("CURRENT_ASSET", "500", false),
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Percent.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("base percent: got %s, want 100", rows[0].Percent)
	}
	if !rows[1].Percent.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("CURRENT_ASSET percent: got %s, want 25", rows[1].Percent)
	}
}

func TestVerticalAnalysisMissingOrZeroBaseDefaultsToOne(t *testing.T) {
	rows := VerticalAnalysis([]LineValue{
		line("CURRENT_ASSET", "500", false),
	})
	if !rows[0].Percent.Equal(decimal.RequireFromString("50000")) {
		t.Fatalf("no base line: got %s, want 50000", rows[0].Percent)
	}

	rows = VerticalAnalysis([]LineValue{
		line("TOTAL_ASSETS", "0", true),
		line("CURRENT_ASSET", "3", false),
	})
	if !rows[1].Percent.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("zero base: got %s, want 300", rows[1].Percent)
	}
}

func TestHorizontalAnalysisVariance(t *testing.T) {
	rows := HorizontalAnalysis(
		[]LineValue{line("NET_SALES", "1000", false), line("GROSS_PROFIT", "400", false)},
		[]LineValue{line("NET_SALES", "1200", false), line("NET_INCOME", "90", false)},
	)
	if len(rows) != 3 {
		t.Fatalf("expected 3 union rows, got %d", len(rows))
	}
	// rows are sorted by key: GROSS_PROFIT, NET_INCOME, NET_SALES
	grossProfit := rows[0]
	if !grossProfit.Variance.Equal(decimal.RequireFromString("-400")) {
		t.Fatalf("GROSS_PROFIT variance: got %s, want -400", grossProfit.Variance)
	}
	if grossProfit.Percent == nil || !grossProfit.Percent.Equal(decimal.RequireFromString("-100")) {
		t.Fatalf("GROSS_PROFIT percent: got %v, want -100", grossProfit.Percent)
	}
	netIncome := rows[1]
	if !netIncome.Variance.Equal(decimal.RequireFromString("90")) {
		t.Fatalf("NET_INCOME variance: got %s, want 90", netIncome.Variance)
	}
	if netIncome.Percent != nil {
		t.Fatalf("NET_INCOME percent on zero base: got %s, want nil", netIncome.Percent)
	}
	netSales := rows[2]
	if !netSales.Variance.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("NET_SALES variance: got %s, want 200", netSales.Variance)
	}
	if netSales.Percent == nil || !netSales.Percent.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("NET_SALES percent: got %v, want 20", netSales.Percent)
	}
}
