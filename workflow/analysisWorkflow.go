package workflow

import (
	"context"
	"sort"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"bitbucket.org/mmdatafocus/stela_backend/models"
	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

// LineValue is one statement line as consumed by the analyzers.
type LineValue struct {
	Key    string          `json:"key"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Base   bool            `json:"base"`
}

// VerticalRow expresses one line as a percentage of the statement's base line.
type VerticalRow struct {
	Key     string          `json:"key"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// HorizontalRow is one line's period-over-period variance. Percent is nil
// when the base amount is zero.
type HorizontalRow struct {
	Key      string           `json:"key"`
	Name     string           `json:"name"`
	Base     decimal.Decimal  `json:"base"`
	Actual   decimal.Decimal  `json:"actual"`
	Variance decimal.Decimal  `json:"variance"`
	Percent  *decimal.Decimal `json:"percent"`
}

// VerticalAnalysis computes percentage-of-base rows. When no line carries the
// base flag, or the base amount is zero, the base defaults to 1 so the rows
// stay defined.
func VerticalAnalysis(lines []LineValue) []VerticalRow {
	base := decimal.NewFromInt(1)
	for _, line := range lines {
		if line.Base {
			if !line.Amount.IsZero() {
				base = line.Amount
			}
			break
		}
	}
	rows := make([]VerticalRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, VerticalRow{
			Key:     line.Key,
			Name:    line.Name,
			Amount:  line.Amount,
			Percent: line.Amount.Div(base).Mul(oneHundred),
		})
	}
	return rows
}

// HorizontalAnalysis computes the variance between two periods' line sets
// over the union of their keys, sorted by key.
func HorizontalAnalysis(baseLines []LineValue, actualLines []LineValue) []HorizontalRow {
	baseByKey := make(map[string]LineValue, len(baseLines))
	for _, line := range baseLines {
		baseByKey[line.Key] = line
	}
	actualByKey := make(map[string]LineValue, len(actualLines))
	for _, line := range actualLines {
		actualByKey[line.Key] = line
	}
	keySet := make(map[string]struct{}, len(baseByKey)+len(actualByKey))
	for key := range baseByKey {
		keySet[key] = struct{}{}
	}
	for key := range actualByKey {
		keySet[key] = struct{}{}
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]HorizontalRow, 0, len(keys))
	for _, key := range keys {
		b := baseByKey[key]
		a := actualByKey[key]
		name := a.Name
		if name == "" {
			name = b.Name
		}
		if name == "" {
			name = key
		}
		variance := a.Amount.Sub(b.Amount)
		var percent *decimal.Decimal
		if !b.Amount.IsZero() {
			percent = utils.DecimalPtr(variance.Div(b.Amount).Mul(oneHundred))
		}
		rows = append(rows, HorizontalRow{
			Key:      key,
			Name:     name,
			Base:     b.Amount,
			Actual:   a.Amount,
			Variance: variance,
			Percent:  percent,
		})
	}
	return rows
}

// GetStatementLineValues loads one statement type's computed values merged
// with the line template, so template lines with no data appear as 0.
// Duplicate keys are summed.
func GetStatementLineValues(ctx context.Context, db *gorm.DB, companyId uuid.UUID, periodId int, statementType models.StatementType) ([]LineValue, error) {
	values, err := models.GetStatementValues(ctx, db, companyId, periodId, statementType)
	if err != nil {
		return nil, err
	}
	templateLines, err := models.GetStatementLines(ctx, db, statementType)
	if err != nil {
		return nil, err
	}

	byKey := map[string]*LineValue{}
	order := []string{}
	for _, value := range values {
		line, ok := byKey[value.LineKey]
		if !ok {
			line = &LineValue{Key: value.LineKey, Name: value.Name}
			byKey[value.LineKey] = line
			order = append(order, value.LineKey)
		}
		line.Amount = line.Amount.Add(value.Amount)
	}
	for _, template := range templateLines {
		line, ok := byKey[template.Key]
		if !ok {
			line = &LineValue{Key: template.Key, Name: template.Name}
			byKey[template.Key] = line
			order = append(order, template.Key)
		}
		if line.Name == "" {
			line.Name = template.Name
		}
		line.Base = utils.DereferencePtr(template.VerticalBase)
	}

	lines := make([]LineValue, 0, len(order))
	for _, key := range order {
		lines = append(lines, *byKey[key])
	}
	return lines, nil
}

// VerticalAnalysisForStatement runs the vertical analysis of one statement
// type for a company/period.
func VerticalAnalysisForStatement(ctx context.Context, db *gorm.DB, logger *logrus.Logger, companyId uuid.UUID, periodId int, statementType models.StatementType) ([]VerticalRow, error) {
	lines, err := GetStatementLineValues(ctx, db, companyId, periodId, statementType)
	if err != nil {
		config.LogError(logger, "analysisWorkflow.go", "VerticalAnalysisForStatement", "GetStatementLineValues", periodId, err)
		return nil, err
	}
	return VerticalAnalysis(lines), nil
}

// HorizontalAnalysisForStatements compares two periods of the same statement
// type for one company.
func HorizontalAnalysisForStatements(ctx context.Context, db *gorm.DB, logger *logrus.Logger, companyId uuid.UUID, basePeriodId int, actualPeriodId int, statementType models.StatementType) ([]HorizontalRow, error) {
	baseLines, err := GetStatementLineValues(ctx, db, companyId, basePeriodId, statementType)
	if err != nil {
		config.LogError(logger, "analysisWorkflow.go", "HorizontalAnalysisForStatements", "GetStatementLineValues base", basePeriodId, err)
		return nil, err
	}
	actualLines, err := GetStatementLineValues(ctx, db, companyId, actualPeriodId, statementType)
	if err != nil {
		config.LogError(logger, "analysisWorkflow.go", "HorizontalAnalysisForStatements", "GetStatementLineValues actual", actualPeriodId, err)
		return nil, err
	}
	return HorizontalAnalysis(baseLines, actualLines), nil
}
