package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/stela_backend/models"
	"github.com/shopspring/decimal"
)

func TestSignedBalanceByNature(t *testing.T) {
	cases := []struct {
		nature models.AccountNature
		debit  string
		credit string
		want   string
	}{
		{models.AccountNatureAsset, "1000", "200", "800"},
		{models.AccountNatureLiability, "100", "500", "400"},
		{models.AccountNatureEquity, "0", "300", "300"},
		{models.AccountNatureRevenue, "50", "1050", "1000"},
		{models.AccountNatureExpense, "700", "100", "600"},
	}
	for _, c := range cases {
		debit := decimal.RequireFromString(c.debit)
		credit := decimal.RequireFromString(c.credit)
		got := SignedBalance(c.nature, debit, credit)
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("%s debit=%s credit=%s: got %s, want %s", c.nature, c.debit, c.credit, got, c.want)
		}
	}
}

func TestSignedBalanceNegativeResult(t *testing.T) {
	got := SignedBalance(models.AccountNatureRevenue, decimal.RequireFromString("900"), decimal.RequireFromString("100"))
	if !got.Equal(decimal.RequireFromString("-800")) {
		t.Fatalf("contra revenue balance: got %s, want -800", got)
	}
}
