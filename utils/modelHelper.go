package utils

import (
	"context"

	"gorm.io/gorm"
)

/* DB fetching */

// fetch model from db by primary key
// (may return RecordNotFound)
func FetchSingleModel[T any](ctx context.Context, db *gorm.DB, id int, associations ...string) (*T, error) {

	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

func ResourceCountWhere[T any](ctx context.Context, db *gorm.DB, cond string, values ...interface{}) (int64, error) {
	var count int64
	var model T
	err := db.WithContext(ctx).Model(&model).Where(cond, values...).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// check if id exists, return RecordNotFound error otherwise
func ValidateResourceId[T any](ctx context.Context, db *gorm.DB, id interface{}) error {
	count, err := ResourceCountWhere[T](ctx, db, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

// check uniqueness of a column value, excluding id (id = 0 for create)
func ValidateUnique[T any](ctx context.Context, db *gorm.DB, column string, value interface{}, id int) error {
	count, err := ResourceCountWhere[T](ctx, db, column+" = ? AND id != ?", value, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrorDuplicateValue(column)
	}
	return nil
}
