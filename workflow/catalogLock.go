package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireCatalogMappingLock serializes mapping rewrites per catalog across
// instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that will run the mapping transaction.
func AcquireCatalogMappingLock(tx *gorm.DB, catalogId int) error {
	lockName := fmt.Sprintf("catalogmap:%d", catalogId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire mapping lock for catalog_id=%d", catalogId)
	}
	return nil
}

func ReleaseCatalogMappingLock(tx *gorm.DB, catalogId int) {
	lockName := fmt.Sprintf("catalogmap:%d", catalogId)
	var ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&ok).Error
}
