package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Period is one reporting interval: a year, optionally narrowed to a month.
type Period struct {
	ID        int        `gorm:"primary_key" json:"id"`
	CompanyId uuid.UUID  `gorm:"type:char(36);uniqueIndex:idx_period_company_year_month;not null" json:"company_id"`
	Year      int        `gorm:"uniqueIndex:idx_period_company_year_month;not null" json:"year"`
	Month     *int       `gorm:"uniqueIndex:idx_period_company_year_month" json:"month"`
	ClosedAt  *time.Time `json:"closed_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Label renders "2024" or "2024-03".
func (p *Period) Label() string {
	if p.Month != nil {
		return fmt.Sprintf("%d-%02d", p.Year, *p.Month)
	}
	return fmt.Sprintf("%d", p.Year)
}

func GetOrCreatePeriod(ctx context.Context, tx *gorm.DB, companyId uuid.UUID, year int, month *int) (*Period, error) {
	var period Period
	dbCtx := tx.WithContext(ctx).Where("company_id = ? AND year = ?", companyId, year)
	if month != nil {
		dbCtx = dbCtx.Where("month = ?", *month)
	} else {
		dbCtx = dbCtx.Where("month IS NULL")
	}
	err := dbCtx.First(&period).Error
	if err == nil {
		return &period, nil
	}
	period = Period{CompanyId: companyId, Year: year, Month: month}
	if err := tx.WithContext(ctx).Create(&period).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

// may return RecordNotFound
func GetPeriod(ctx context.Context, db *gorm.DB, companyId uuid.UUID, year int, month *int) (*Period, error) {
	var period Period
	dbCtx := db.WithContext(ctx).Where("company_id = ? AND year = ?", companyId, year)
	if month != nil {
		dbCtx = dbCtx.Where("month = ?", *month)
	} else {
		dbCtx = dbCtx.Where("month IS NULL")
	}
	if err := dbCtx.First(&period).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &period, nil
}

// may return RecordNotFound
func GetPeriodById(ctx context.Context, db *gorm.DB, periodId int) (*Period, error) {
	return utils.FetchSingleModel[Period](ctx, db, periodId)
}

// GetCompanyPeriods returns all periods of a company ordered oldest first.
func GetCompanyPeriods(ctx context.Context, db *gorm.DB, companyId uuid.UUID) ([]*Period, error) {
	var periods []*Period
	err := db.WithContext(ctx).Where("company_id = ?", companyId).
		Order("year ASC, month ASC").Find(&periods).Error
	if err != nil {
		return nil, err
	}
	return periods, nil
}

// GetMatchingPeriodIds resolves, for every given company, the period with the
// same year/month shape. Companies without that period are skipped.
func GetMatchingPeriodIds(ctx context.Context, db *gorm.DB, companyIds []uuid.UUID, year int, month *int) ([]int, error) {
	if len(companyIds) == 0 {
		return nil, nil
	}
	var ids []int
	dbCtx := db.WithContext(ctx).Model(&Period{}).
		Where("company_id IN ? AND year = ?", companyIds, year)
	if month != nil {
		dbCtx = dbCtx.Where("month = ?", *month)
	} else {
		dbCtx = dbCtx.Where("month IS NULL")
	}
	if err := dbCtx.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
