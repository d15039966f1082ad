package workflow

import (
	"context"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"bitbucket.org/mmdatafocus/stela_backend/models"
	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RatioValue is one evaluated ratio of a company/period. Value is nil when
// the formula could not produce a number.
type RatioValue struct {
	Key   string           `json:"key"`
	Name  string           `json:"name"`
	Value *decimal.Decimal `json:"value"`
}

// ComputeRatios evaluates every ratio definition against the merged line
// values of a company/period (both statement types, so cross-statement ratios
// like ROA resolve) and upserts the results.
func ComputeRatios(ctx context.Context, tx *gorm.DB, logger *logrus.Logger, companyId uuid.UUID, periodId int) ([]RatioValue, error) {
	values, err := models.GetPeriodValueMap(ctx, tx, companyId, periodId)
	if err != nil {
		config.LogError(logger, "ratioWorkflow.go", "ComputeRatios", "GetPeriodValueMap", periodId, err)
		return nil, err
	}
	ratios, err := models.GetAllRatioDefinitions(ctx, tx)
	if err != nil {
		config.LogError(logger, "ratioWorkflow.go", "ComputeRatios", "GetAllRatioDefinitions", nil, err)
		return nil, err
	}

	results := make([]RatioValue, 0, len(ratios))
	for _, ratio := range ratios {
		value := EvaluateFormula(ratio.Formula, values, utils.DereferencePtr(ratio.Percentage))
		if err := models.UpsertRatioResult(ctx, tx, companyId, periodId, ratio.ID, value); err != nil {
			config.LogError(logger, "ratioWorkflow.go", "ComputeRatios", "UpsertRatioResult", ratio.Key, err)
			return nil, err
		}
		results = append(results, RatioValue{Key: ratio.Key, Name: ratio.Name, Value: value})
	}
	return results, nil
}
