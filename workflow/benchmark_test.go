package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/stela_backend/models"
	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"github.com/shopspring/decimal"
)

func sample(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.RequireFromString(v))
	}
	return out
}

func TestMeanStdDevPopulation(t *testing.T) {
	mean, stdev, ok := MeanStdDev(sample("1.2", "1.5", "1.8"))
	if !ok {
		t.Fatal("expected ok for non-empty sample")
	}
	if !mean.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("mean: got %s, want 1.5", mean)
	}
	// population stdev of [1.2 1.5 1.8] = sqrt(0.06) ~= 0.2449
	diff := stdev.Sub(decimal.RequireFromString("0.2449")).Abs()
	if diff.GreaterThan(decimal.RequireFromString("0.0001")) {
		t.Fatalf("stdev: got %s, want ~0.2449", stdev)
	}
}

func TestMeanStdDevSingleValueAndEmpty(t *testing.T) {
	mean, stdev, ok := MeanStdDev(sample("2.5"))
	if !ok || !mean.Equal(decimal.RequireFromString("2.5")) || !stdev.IsZero() {
		t.Fatalf("single value: got mean=%s stdev=%s ok=%v", mean, stdev, ok)
	}
	if _, _, ok := MeanStdDev(nil); ok {
		t.Fatal("empty sample must not be ok")
	}
}

func TestClassifyAgainstPeersBand(t *testing.T) {
	mean, stdev, _ := MeanStdDev(sample("1.2", "1.5", "1.8"))
	k := decimal.NewFromInt(1)

	if flag := ClassifyAgainstPeers(utils.DecimalPtr(decimal.RequireFromString("1.5")), mean, stdev, k); flag != models.BenchmarkFlagOk {
		t.Fatalf("1.5: got %s, want OK", flag)
	}
	if flag := ClassifyAgainstPeers(utils.DecimalPtr(decimal.RequireFromString("2.0")), mean, stdev, k); flag != models.BenchmarkFlagHigh {
		t.Fatalf("2.0: got %s, want ALTO", flag)
	}
	if flag := ClassifyAgainstPeers(utils.DecimalPtr(decimal.RequireFromString("1.0")), mean, stdev, k); flag != models.BenchmarkFlagLow {
		t.Fatalf("1.0: got %s, want BAJO", flag)
	}
}

func TestClassifyAgainstPeersZeroStdev(t *testing.T) {
	mean := decimal.RequireFromString("2")
	zero := decimal.Zero
	k := decimal.NewFromInt(1)

	if flag := ClassifyAgainstPeers(utils.DecimalPtr(decimal.RequireFromString("2")), mean, zero, k); flag != models.BenchmarkFlagOk {
		t.Fatalf("equal: got %s, want OK", flag)
	}
	if flag := ClassifyAgainstPeers(utils.DecimalPtr(decimal.RequireFromString("2.1")), mean, zero, k); flag != models.BenchmarkFlagHigh {
		t.Fatalf("above: got %s, want ALTO", flag)
	}
	if flag := ClassifyAgainstPeers(utils.DecimalPtr(decimal.RequireFromString("1.9")), mean, zero, k); flag != models.BenchmarkFlagLow {
		t.Fatalf("below: got %s, want BAJO", flag)
	}
}

func TestClassifyAgainstPeersNilValue(t *testing.T) {
	if flag := ClassifyAgainstPeers(nil, decimal.Zero, decimal.Zero, decimal.NewFromInt(1)); flag != models.BenchmarkFlagNA {
		t.Fatalf("nil value: got %s, want NA", flag)
	}
}

func TestCompareWithSector(t *testing.T) {
	v := func(s string) *decimal.Decimal { return utils.DecimalPtr(decimal.RequireFromString(s)) }

	// higher is better by default
	if flag := CompareWithSector(v("1.6"), v("1.5"), "CURRENT_RATIO"); flag != models.SectorFlagMeets {
		t.Fatalf("1.6 vs 1.5: got %s, want CUMPLE", flag)
	}
	if flag := CompareWithSector(v("1.4"), v("1.5"), "CURRENT_RATIO"); flag != models.SectorFlagFails {
		t.Fatalf("1.4 vs 1.5: got %s, want NO_CUMPLE", flag)
	}
	// lower is better for indebtedness
	if flag := CompareWithSector(v("50"), v("60"), "INDEBTEDNESS"); flag != models.SectorFlagMeets {
		t.Fatalf("50 vs 60: got %s, want CUMPLE", flag)
	}
	if flag := CompareWithSector(v("70"), v("60"), "INDEBTEDNESS"); flag != models.SectorFlagFails {
		t.Fatalf("70 vs 60: got %s, want NO_CUMPLE", flag)
	}
	// equality meets in both modes
	if flag := CompareWithSector(v("60"), v("60"), "INDEBTEDNESS"); flag != models.SectorFlagMeets {
		t.Fatalf("60 vs 60: got %s, want CUMPLE", flag)
	}
	if flag := CompareWithSector(nil, v("1.5"), "CURRENT_RATIO"); flag != models.SectorFlagNA {
		t.Fatalf("nil value: got %s, want NA", flag)
	}
	if flag := CompareWithSector(v("1.5"), nil, "CURRENT_RATIO"); flag != models.SectorFlagNA {
		t.Fatalf("nil reference: got %s, want NA", flag)
	}
}
