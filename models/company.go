package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Name      string    `gorm:"index;size:180;not null" json:"name"`
	TaxId     string    `gorm:"index;size:30" json:"tax_id"`
	CiiuId    int       `gorm:"index" json:"ciiu_id"`
	Ciiu      *Ciiu     `json:"ciiu,omitempty"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCompany struct {
	Name   string `json:"name" validate:"required,max=180"`
	TaxId  string `json:"tax_id" validate:"max=30"`
	CiiuId int    `json:"ciiu_id"`
}

var validate = validator.New()

func CreateCompany(ctx context.Context, db *gorm.DB, input *NewCompany) (*Company, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.CiiuId > 0 {
		if err := utils.ValidateResourceId[Ciiu](ctx, db, input.CiiuId); err != nil {
			return nil, errors.New("ciiu not found")
		}
	}

	company := Company{
		ID:       uuid.New(),
		Name:     input.Name,
		TaxId:    input.TaxId,
		CiiuId:   input.CiiuId,
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// may return RecordNotFound
func GetCompanyById(ctx context.Context, db *gorm.DB, companyId uuid.UUID) (*Company, error) {
	var company Company
	err := db.WithContext(ctx).Preload("Ciiu").Where("id = ?", companyId).First(&company).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &company, nil
}

// GetSectorCompanyIds returns the ids of all active companies sharing a CIIU
// code: the cohort used for sector benchmarking.
func GetSectorCompanyIds(ctx context.Context, db *gorm.DB, ciiuCode string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&Company{}).
		Joins("JOIN ciius ON ciius.id = companies.ciiu_id").
		Where("ciius.code = ? AND companies.is_active = true", ciiuCode).
		Pluck("companies.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
