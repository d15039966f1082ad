package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"gorm.io/gorm"
)

// StatementLine is a canonical line of a statement template. Key doubles as
// the identifier inside ratio formulas. VerticalBase marks the denominator of
// the vertical analysis for its statement type.
type StatementLine struct {
	ID           int           `gorm:"primary_key" json:"id"`
	Statement    StatementType `gorm:"index;size:20;not null" json:"statement"`
	Key          string        `gorm:"uniqueIndex;size:64;not null" json:"key"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	VerticalBase *bool         `gorm:"not null;default:false" json:"vertical_base"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// AccountLineMapping assigns one account's signed balance to one line.
// Many accounts may map to the same line; Sign is +1 or -1.
type AccountLineMapping struct {
	ID        int            `gorm:"primary_key" json:"id"`
	AccountId int            `gorm:"uniqueIndex:idx_mapping_account_line;not null" json:"account_id"`
	Account   *Account       `json:"account,omitempty"`
	LineId    int            `gorm:"uniqueIndex:idx_mapping_account_line;not null" json:"line_id"`
	Line      *StatementLine `json:"line,omitempty"`
	Sign      int            `gorm:"not null;default:1" json:"sign"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// may return RecordNotFound
func GetStatementLineByKey(ctx context.Context, db *gorm.DB, key string) (*StatementLine, error) {
	var line StatementLine
	if err := db.WithContext(ctx).Where("`key` = ?", key).First(&line).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &line, nil
}

// GetStatementLines returns the template lines of one statement type.
func GetStatementLines(ctx context.Context, db *gorm.DB, statementType StatementType) ([]*StatementLine, error) {
	var lines []*StatementLine
	err := db.WithContext(ctx).Where("statement = ?", statementType).
		Order("id ASC").Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// StatementLineKeyExists reports whether a canonical key is defined.
func StatementLineKeyExists(ctx context.Context, db *gorm.DB, key string) (bool, error) {
	count, err := utils.ResourceCountWhere[StatementLine](ctx, db, "`key` = ?", key)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteCatalogLineMappings removes all mappings of one line whose accounts
// belong to the given catalog. Used by the auto-mapper's idempotent replace.
func DeleteCatalogLineMappings(ctx context.Context, tx *gorm.DB, lineId int, catalogId int) error {
	return tx.WithContext(ctx).
		Where("line_id = ? AND account_id IN (?)", lineId,
			tx.Model(&Account{}).Select("accounts.id").
				Joins("JOIN account_groups ON account_groups.id = accounts.group_id").
				Where("account_groups.catalog_id = ?", catalogId),
		).
		Delete(&AccountLineMapping{}).Error
}

// GetCatalogMappings returns all mappings whose accounts belong to a catalog,
// with lines preloaded.
func GetCatalogMappings(ctx context.Context, db *gorm.DB, catalogId int) ([]*AccountLineMapping, error) {
	var mappings []*AccountLineMapping
	err := db.WithContext(ctx).Preload("Line").Preload("Account").
		Joins("JOIN accounts ON accounts.id = account_line_mappings.account_id").
		Joins("JOIN account_groups ON account_groups.id = accounts.group_id").
		Where("account_groups.catalog_id = ?", catalogId).
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}
