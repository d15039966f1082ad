package workflow

import (
	"context"
	"math"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"bitbucket.org/mmdatafocus/stela_backend/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Ratios where a lower value beats the sector reference.
var lowerIsBetterRatios = map[string]bool{
	"INDEBTEDNESS": true,
}

// BenchmarkRow is one ratio classified against a peer sample. Mean and Stdev
// are nil when the sample was empty.
type BenchmarkRow struct {
	Key   string               `json:"key"`
	Name  string               `json:"name"`
	Value *decimal.Decimal     `json:"value"`
	Mean  *decimal.Decimal     `json:"mean"`
	Stdev *decimal.Decimal     `json:"stdev"`
	Flag  models.BenchmarkFlag `json:"flag"`
}

// SectorRow is one ratio compared against the sector's static reference.
type SectorRow struct {
	Key       string            `json:"key"`
	Name      string            `json:"name"`
	Value     *decimal.Decimal  `json:"value"`
	Reference *decimal.Decimal  `json:"reference"`
	Flag      models.SectorFlag `json:"flag"`
}

// MeanStdDev computes the sample mean and population standard deviation
// (divide by N). A single-value sample has stdev 0. ok is false for an empty
// sample.
func MeanStdDev(sample []decimal.Decimal) (decimal.Decimal, decimal.Decimal, bool) {
	if len(sample) == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	sum := decimal.Zero
	for _, v := range sample {
		sum = sum.Add(v)
	}
	n := decimal.NewFromInt(int64(len(sample)))
	mean := sum.Div(n)
	if len(sample) == 1 {
		return mean, decimal.Zero, true
	}
	variance := decimal.Zero
	for _, v := range sample {
		diff := v.Sub(mean)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(n)
	// decimal has no square root; the stdev crosses through float64 here,
	// so it carries float precision while mean stays exact.
	stdev := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
	return mean, stdev, true
}

// ClassifyAgainstPeers flags a ratio value against its peer sample using a
// k·stdev band around the mean.
func ClassifyAgainstPeers(value *decimal.Decimal, mean decimal.Decimal, stdev decimal.Decimal, k decimal.Decimal) models.BenchmarkFlag {
	if value == nil {
		return models.BenchmarkFlagNA
	}
	if stdev.IsZero() {
		if value.Equal(mean) {
			return models.BenchmarkFlagOk
		}
		if value.GreaterThan(mean) {
			return models.BenchmarkFlagHigh
		}
		return models.BenchmarkFlagLow
	}
	band := stdev.Mul(k)
	if value.GreaterThan(mean.Add(band)) {
		return models.BenchmarkFlagHigh
	}
	if value.LessThan(mean.Sub(band)) {
		return models.BenchmarkFlagLow
	}
	return models.BenchmarkFlagOk
}

// CompareWithSector flags a ratio value against the sector reference. For
// lower-is-better ratios meeting means value <= reference, otherwise
// value >= reference.
func CompareWithSector(value *decimal.Decimal, reference *decimal.Decimal, ratioKey string) models.SectorFlag {
	if value == nil || reference == nil {
		return models.SectorFlagNA
	}
	if lowerIsBetterRatios[ratioKey] {
		if value.LessThanOrEqual(*reference) {
			return models.SectorFlagMeets
		}
		return models.SectorFlagFails
	}
	if value.GreaterThanOrEqual(*reference) {
		return models.SectorFlagMeets
	}
	return models.SectorFlagFails
}

// HistoryBenchmark classifies each of a company's period ratios against that
// ratio's values in the company's other periods.
func HistoryBenchmark(ctx context.Context, db *gorm.DB, logger *logrus.Logger, companyId uuid.UUID, periodId int) ([]BenchmarkRow, error) {
	results, err := models.GetRatioResults(ctx, db, companyId, periodId)
	if err != nil {
		config.LogError(logger, "benchmarkWorkflow.go", "HistoryBenchmark", "GetRatioResults", periodId, err)
		return nil, err
	}
	k := config.BenchmarkSensitivity()

	rows := make([]BenchmarkRow, 0, len(results))
	for _, result := range results {
		if result.Ratio == nil {
			continue
		}
		row := BenchmarkRow{
			Key:   result.Ratio.Key,
			Name:  result.Ratio.Name,
			Value: result.Value,
			Flag:  models.BenchmarkFlagNA,
		}
		sample, err := models.GetHistoricalRatioValues(ctx, db, companyId, result.RatioId, periodId)
		if err != nil {
			config.LogError(logger, "benchmarkWorkflow.go", "HistoryBenchmark", "GetHistoricalRatioValues", result.Ratio.Key, err)
			return nil, err
		}
		if mean, stdev, ok := MeanStdDev(sample); ok {
			row.Mean = &mean
			row.Stdev = &stdev
			row.Flag = ClassifyAgainstPeers(result.Value, mean, stdev, k)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SectorBenchmark classifies a company's period ratios against the cohort of
// companies sharing its CIIU code, each measured over the same year/month.
func SectorBenchmark(ctx context.Context, db *gorm.DB, logger *logrus.Logger, companyId uuid.UUID, periodId int) ([]BenchmarkRow, error) {
	company, err := models.GetCompanyById(ctx, db, companyId)
	if err != nil {
		config.LogError(logger, "benchmarkWorkflow.go", "SectorBenchmark", "GetCompanyById", companyId, err)
		return nil, err
	}
	if company.Ciiu == nil {
		return nil, nil
	}
	period, err := models.GetPeriodById(ctx, db, periodId)
	if err != nil {
		config.LogError(logger, "benchmarkWorkflow.go", "SectorBenchmark", "GetPeriodById", periodId, err)
		return nil, err
	}
	cohortIds, err := models.GetSectorCompanyIds(ctx, db, company.Ciiu.Code)
	if err != nil {
		config.LogError(logger, "benchmarkWorkflow.go", "SectorBenchmark", "GetSectorCompanyIds", company.Ciiu.Code, err)
		return nil, err
	}
	periodIds, err := models.GetMatchingPeriodIds(ctx, db, cohortIds, period.Year, period.Month)
	if err != nil {
		config.LogError(logger, "benchmarkWorkflow.go", "SectorBenchmark", "GetMatchingPeriodIds", period.Label(), err)
		return nil, err
	}
	results, err := models.GetRatioResults(ctx, db, companyId, periodId)
	if err != nil {
		config.LogError(logger, "benchmarkWorkflow.go", "SectorBenchmark", "GetRatioResults", periodId, err)
		return nil, err
	}
	k := config.BenchmarkSensitivity()

	rows := make([]BenchmarkRow, 0, len(results))
	for _, result := range results {
		if result.Ratio == nil {
			continue
		}
		row := BenchmarkRow{
			Key:   result.Ratio.Key,
			Name:  result.Ratio.Name,
			Value: result.Value,
			Flag:  models.BenchmarkFlagNA,
		}
		sample, err := models.GetCohortRatioValues(ctx, db, result.RatioId, periodIds)
		if err != nil {
			config.LogError(logger, "benchmarkWorkflow.go", "SectorBenchmark", "GetCohortRatioValues", result.Ratio.Key, err)
			return nil, err
		}
		if mean, stdev, ok := MeanStdDev(sample); ok {
			row.Mean = &mean
			row.Stdev = &stdev
			row.Flag = ClassifyAgainstPeers(result.Value, mean, stdev, k)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SectorComparison compares a company's period ratios against the static
// sector reference table keyed by its CIIU code.
func SectorComparison(ctx context.Context, db *gorm.DB, logger *logrus.Logger, companyId uuid.UUID, periodId int) ([]SectorRow, error) {
	company, err := models.GetCompanyById(ctx, db, companyId)
	if err != nil {
		config.LogError(logger, "benchmarkWorkflow.go", "SectorComparison", "GetCompanyById", companyId, err)
		return nil, err
	}
	results, err := models.GetRatioResults(ctx, db, companyId, periodId)
	if err != nil {
		config.LogError(logger, "benchmarkWorkflow.go", "SectorComparison", "GetRatioResults", periodId, err)
		return nil, err
	}

	rows := make([]SectorRow, 0, len(results))
	for _, result := range results {
		if result.Ratio == nil {
			continue
		}
		var reference *decimal.Decimal
		if company.Ciiu != nil {
			reference = models.GetSectorReference(company.Ciiu.Code, result.Ratio.Key)
		}
		rows = append(rows, SectorRow{
			Key:       result.Ratio.Key,
			Name:      result.Ratio.Name,
			Value:     result.Value,
			Reference: reference,
			Flag:      CompareWithSector(result.Value, reference, result.Ratio.Key),
		})
	}
	return rows, nil
}
