package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"gorm.io/gorm"
)

// Ciiu is an economic activity sector code (ISIC revision 4 local adaptation).
type Ciiu struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:10;not null" json:"code"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func CreateCiiu(ctx context.Context, db *gorm.DB, code string, description string) (*Ciiu, error) {
	if err := utils.ValidateUnique[Ciiu](ctx, db, "code", code, 0); err != nil {
		return nil, err
	}
	ciiu := Ciiu{Code: code, Description: description}
	if err := db.WithContext(ctx).Create(&ciiu).Error; err != nil {
		return nil, err
	}
	return &ciiu, nil
}

// may return RecordNotFound
func GetCiiuByCode(ctx context.Context, db *gorm.DB, code string) (*Ciiu, error) {
	var ciiu Ciiu
	if err := db.WithContext(ctx).Where("code = ?", code).First(&ciiu).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &ciiu, nil
}
