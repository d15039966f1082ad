package config

import (
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// BenchmarkSensitivity returns the k multiplier used by the benchmark
// classifier (current vs mean ± k·stdev).
//
// Set via env:
// - BENCHMARK_SENSITIVITY=1.5
func BenchmarkSensitivity() decimal.Decimal {
	v := strings.TrimSpace(os.Getenv("BENCHMARK_SENSITIVITY"))
	if v == "" {
		return decimal.NewFromInt(1)
	}
	k, err := decimal.NewFromString(v)
	if err != nil || k.IsNegative() {
		return decimal.NewFromInt(1)
	}
	return k
}

// SectorRatioFile returns the path of the static sector reference file.
//
// Set via env:
// - SECTOR_RATIO_FILE=seeders/sector_ratios.json
func SectorRatioFile() string {
	v := strings.TrimSpace(os.Getenv("SECTOR_RATIO_FILE"))
	if v == "" {
		return "seeders/sector_ratios.json"
	}
	return v
}
