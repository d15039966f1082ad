package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RatioDefinition is a declarative formula over canonical line keys,
// e.g. (CURRENT_ASSET)/(CURRENT_LIABILITY). Percentage multiplies the result
// by 100 on evaluation.
type RatioDefinition struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Key        string    `gorm:"uniqueIndex;size:64;not null" json:"key"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Formula    string    `gorm:"type:text;not null" json:"formula"`
	Percentage *bool     `gorm:"not null;default:false" json:"percentage"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RatioResult stores one evaluated ratio per (company, period, ratio).
// Value is nil when the formula could not be evaluated (missing data,
// division by zero): downstream renders it as N/A.
type RatioResult struct {
	ID        int              `gorm:"primary_key" json:"id"`
	CompanyId uuid.UUID        `gorm:"type:char(36);uniqueIndex:idx_result_company_period_ratio;not null" json:"company_id"`
	PeriodId  int              `gorm:"uniqueIndex:idx_result_company_period_ratio;not null" json:"period_id"`
	RatioId   int              `gorm:"uniqueIndex:idx_result_company_period_ratio;not null" json:"ratio_id"`
	Ratio     *RatioDefinition `json:"ratio,omitempty"`
	Value     *decimal.Decimal `gorm:"type:decimal(18,4)" json:"value"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRatioDefinition struct {
	Key        string `json:"key" validate:"required,max=64"`
	Name       string `json:"name" validate:"required,max=255"`
	Formula    string `json:"formula" validate:"required"`
	Percentage bool   `json:"percentage"`
}

func CreateRatioDefinition(ctx context.Context, tx *gorm.DB, input *NewRatioDefinition) (*RatioDefinition, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[RatioDefinition](ctx, tx, "`key`", input.Key, 0); err != nil {
		return nil, err
	}
	percentage := input.Percentage
	ratio := RatioDefinition{
		Key:        input.Key,
		Name:       input.Name,
		Formula:    input.Formula,
		Percentage: &percentage,
	}
	if err := tx.WithContext(ctx).Create(&ratio).Error; err != nil {
		return nil, err
	}
	return &ratio, nil
}

func GetAllRatioDefinitions(ctx context.Context, db *gorm.DB) ([]*RatioDefinition, error) {
	var ratios []*RatioDefinition
	if err := db.WithContext(ctx).Order("id ASC").Find(&ratios).Error; err != nil {
		return nil, err
	}
	return ratios, nil
}

// UpsertRatioResult idempotently replaces the (company, period, ratio) row.
func UpsertRatioResult(ctx context.Context, tx *gorm.DB, companyId uuid.UUID, periodId int, ratioId int, value *decimal.Decimal) error {
	var result RatioResult
	err := tx.WithContext(ctx).
		Where("company_id = ? AND period_id = ? AND ratio_id = ?", companyId, periodId, ratioId).
		First(&result).Error
	if err != nil {
		result = RatioResult{
			CompanyId: companyId,
			PeriodId:  periodId,
			RatioId:   ratioId,
			Value:     value,
		}
		return tx.WithContext(ctx).Create(&result).Error
	}
	result.Value = value
	return tx.WithContext(ctx).Save(&result).Error
}

// GetRatioResults returns all results of a company/period with definitions
// preloaded, ordered by ratio id.
func GetRatioResults(ctx context.Context, db *gorm.DB, companyId uuid.UUID, periodId int) ([]*RatioResult, error) {
	var results []*RatioResult
	err := db.WithContext(ctx).Preload("Ratio").
		Where("company_id = ? AND period_id = ?", companyId, periodId).
		Order("ratio_id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetHistoricalRatioValues returns the non-null values of one ratio across a
// company's other periods: the peer sample for historical benchmarking.
func GetHistoricalRatioValues(ctx context.Context, db *gorm.DB, companyId uuid.UUID, ratioId int, excludePeriodId int) ([]decimal.Decimal, error) {
	var results []*RatioResult
	err := db.WithContext(ctx).
		Where("company_id = ? AND ratio_id = ? AND period_id != ?", companyId, ratioId, excludePeriodId).
		Order("period_id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	values := make([]decimal.Decimal, 0, len(results))
	for _, r := range results {
		if r.Value != nil {
			values = append(values, *r.Value)
		}
	}
	return values, nil
}

// GetCohortRatioValues returns the non-null values of one ratio across a set
// of periods (one per cohort company): the peer sample for sector
// benchmarking.
func GetCohortRatioValues(ctx context.Context, db *gorm.DB, ratioId int, periodIds []int) ([]decimal.Decimal, error) {
	if len(periodIds) == 0 {
		return nil, nil
	}
	var results []*RatioResult
	err := db.WithContext(ctx).
		Where("ratio_id = ? AND period_id IN ?", ratioId, periodIds).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	values := make([]decimal.Decimal, 0, len(results))
	for _, r := range results {
		if r.Value != nil {
			values = append(values, *r.Value)
		}
	}
	return values, nil
}
