package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statement is one imported trial balance slice: the ledger entries of a
// company/period for one statement type.
type Statement struct {
	ID        int           `gorm:"primary_key" json:"id"`
	CompanyId uuid.UUID     `gorm:"type:char(36);uniqueIndex:idx_statement_company_period_type;not null" json:"company_id"`
	PeriodId  int           `gorm:"uniqueIndex:idx_statement_company_period_type;not null" json:"period_id"`
	Period    *Period       `json:"period,omitempty"`
	Type      StatementType `gorm:"uniqueIndex:idx_statement_company_period_type;size:20;not null" json:"type"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// LedgerEntry holds the raw debit/credit of one account in one statement and
// the signed balance derived from them.
type LedgerEntry struct {
	ID          int             `gorm:"primary_key" json:"id"`
	StatementId int             `gorm:"uniqueIndex:idx_entry_statement_account;not null" json:"statement_id"`
	AccountId   int             `gorm:"uniqueIndex:idx_entry_statement_account;not null" json:"account_id"`
	Account     *Account        `json:"account,omitempty"`
	Debit       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"debit"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"credit"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// StatementValue is one computed canonical line amount of a company/period.
// Rows are idempotently replaced on recomputation.
type StatementValue struct {
	ID            int             `gorm:"primary_key" json:"id"`
	CompanyId     uuid.UUID       `gorm:"type:char(36);uniqueIndex:idx_value_company_period_type_key;not null" json:"company_id"`
	PeriodId      int             `gorm:"uniqueIndex:idx_value_company_period_type_key;not null" json:"period_id"`
	StatementType StatementType   `gorm:"uniqueIndex:idx_value_company_period_type_key;size:20;not null" json:"statement_type"`
	LineKey       string          `gorm:"uniqueIndex:idx_value_company_period_type_key;size:64;not null" json:"line_key"`
	Name          string          `gorm:"size:255" json:"name"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"amount"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetOrCreateStatement(ctx context.Context, tx *gorm.DB, companyId uuid.UUID, periodId int, statementType StatementType) (*Statement, error) {
	if !statementType.Valid() {
		return nil, errors.New("invalid statement type: " + string(statementType))
	}
	var statement Statement
	err := tx.WithContext(ctx).
		Where("company_id = ? AND period_id = ? AND type = ?", companyId, periodId, statementType).
		First(&statement).Error
	if err == nil {
		return &statement, nil
	}
	statement = Statement{CompanyId: companyId, PeriodId: periodId, Type: statementType}
	if err := tx.WithContext(ctx).Create(&statement).Error; err != nil {
		return nil, err
	}
	return &statement, nil
}

// may return RecordNotFound
func GetStatement(ctx context.Context, db *gorm.DB, companyId uuid.UUID, periodId int, statementType StatementType) (*Statement, error) {
	var statement Statement
	err := db.WithContext(ctx).Preload("Period").
		Where("company_id = ? AND period_id = ? AND type = ?", companyId, periodId, statementType).
		First(&statement).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &statement, nil
}

// may return RecordNotFound
func GetStatementById(ctx context.Context, db *gorm.DB, statementId int) (*Statement, error) {
	return utils.FetchSingleModel[Statement](ctx, db, statementId, "Period")
}

// UpsertLedgerEntry creates or overwrites the (statement, account) entry.
// The signed balance is recomputed by the balance workflow afterwards.
func UpsertLedgerEntry(ctx context.Context, tx *gorm.DB, statementId int, accountId int, debit decimal.Decimal, credit decimal.Decimal) (*LedgerEntry, error) {
	if debit.IsNegative() || credit.IsNegative() {
		return nil, errors.New("debit and credit must be non-negative")
	}
	var entry LedgerEntry
	err := tx.WithContext(ctx).
		Where("statement_id = ? AND account_id = ?", statementId, accountId).
		First(&entry).Error
	if err != nil {
		entry = LedgerEntry{
			StatementId: statementId,
			AccountId:   accountId,
			Debit:       debit,
			Credit:      credit,
		}
		if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil
	}
	entry.Debit = debit
	entry.Credit = credit
	if err := tx.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetStatementEntries returns all entries with accounts and groups preloaded.
func GetStatementEntries(ctx context.Context, db *gorm.DB, statementId int) ([]*LedgerEntry, error) {
	var entries []*LedgerEntry
	err := db.WithContext(ctx).Preload("Account").Preload("Account.Group").
		Where("statement_id = ?", statementId).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertStatementValue idempotently replaces one computed line amount.
func UpsertStatementValue(ctx context.Context, tx *gorm.DB, companyId uuid.UUID, periodId int, statementType StatementType, lineKey string, name string, amount decimal.Decimal) error {
	var value StatementValue
	err := tx.WithContext(ctx).
		Where("company_id = ? AND period_id = ? AND statement_type = ? AND line_key = ?",
			companyId, periodId, statementType, lineKey).
		First(&value).Error
	if err != nil {
		value = StatementValue{
			CompanyId:     companyId,
			PeriodId:      periodId,
			StatementType: statementType,
			LineKey:       lineKey,
			Name:          name,
			Amount:        amount,
		}
		return tx.WithContext(ctx).Create(&value).Error
	}
	value.Name = name
	value.Amount = amount
	return tx.WithContext(ctx).Save(&value).Error
}

// DeleteStatementValues removes all computed line amounts of one statement
// type so a recomputation never leaves stale keys behind.
func DeleteStatementValues(ctx context.Context, tx *gorm.DB, companyId uuid.UUID, periodId int, statementType StatementType) error {
	return tx.WithContext(ctx).
		Where("company_id = ? AND period_id = ? AND statement_type = ?", companyId, periodId, statementType).
		Delete(&StatementValue{}).Error
}

// GetStatementValues returns the computed line values of one statement type.
func GetStatementValues(ctx context.Context, db *gorm.DB, companyId uuid.UUID, periodId int, statementType StatementType) ([]*StatementValue, error) {
	var values []*StatementValue
	err := db.WithContext(ctx).
		Where("company_id = ? AND period_id = ? AND statement_type = ?", companyId, periodId, statementType).
		Order("line_key ASC").
		Find(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// GetPeriodValueMap returns {line_key: amount} across both statement types of
// a period. Duplicate keys across types are summed, mirroring the aggregation
// of duplicate rows in a single statement.
func GetPeriodValueMap(ctx context.Context, db *gorm.DB, companyId uuid.UUID, periodId int) (map[string]decimal.Decimal, error) {
	var values []*StatementValue
	err := db.WithContext(ctx).
		Where("company_id = ? AND period_id = ?", companyId, periodId).
		Find(&values).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(values))
	for _, v := range values {
		out[v.LineKey] = out[v.LineKey].Add(v.Amount)
	}
	return out, nil
}
