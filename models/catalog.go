package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog is one company's chart of accounts for a year.
type Catalog struct {
	ID        int       `gorm:"primary_key" json:"id"`
	CompanyId uuid.UUID `gorm:"type:char(36);uniqueIndex:idx_catalog_company_year;not null" json:"company_id"`
	Year      int       `gorm:"uniqueIndex:idx_catalog_company_year;not null" json:"year"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AccountGroup carries the classification nature shared by its accounts.
type AccountGroup struct {
	ID        int           `gorm:"primary_key" json:"id"`
	CatalogId int           `gorm:"index;not null" json:"catalog_id"`
	Name      string        `gorm:"size:120;not null" json:"name"`
	Nature    AccountNature `gorm:"type:enum('Asset','Liability','Equity','Revenue','Expense');size:10;not null" json:"nature"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// Account is one catalog account. RatioTag is the canonical line key the
// auto-mapper groups by; a leading '-' marks the balance as subtracted.
type Account struct {
	ID               int               `gorm:"primary_key" json:"id"`
	GroupId          int               `gorm:"uniqueIndex:idx_account_group_code;not null" json:"group_id"`
	Group            *AccountGroup     `json:"group,omitempty"`
	Code             string            `gorm:"uniqueIndex:idx_account_group_code;size:30;not null" json:"code"`
	Name             string            `gorm:"size:180;not null" json:"name"`
	BgBlock          BalanceSheetBlock `gorm:"index;size:30" json:"bg_block"`
	ErBlock          IncomeBlock       `gorm:"index;size:30" json:"er_block"`
	RatioTag         string            `gorm:"index;size:64" json:"ratio_tag"`
	ShowsInStatement *bool             `gorm:"not null;default:true" json:"shows_in_statement"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TagBody strips the negation marker from the account's ratio tag.
// Returns the cleaned tag and the mapping sign (+1, or -1 when negated).
func (a *Account) TagBody() (string, int) {
	tag := strings.TrimSpace(a.RatioTag)
	if tag == "" {
		return "", 1
	}
	if strings.HasPrefix(tag, "-") {
		return strings.TrimLeft(tag, "-"), -1
	}
	return tag, 1
}

type NewAccount struct {
	GroupId  int    `json:"group_id" validate:"required"`
	Code     string `json:"code" validate:"required,max=30"`
	Name     string `json:"name" validate:"required,max=180"`
	BgBlock  string `json:"bg_block" validate:"max=30"`
	ErBlock  string `json:"er_block" validate:"max=30"`
	RatioTag string `json:"ratio_tag" validate:"max=64"`
}

func CreateCatalog(ctx context.Context, tx *gorm.DB, companyId uuid.UUID, year int) (*Catalog, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&Catalog{}).
		Where("company_id = ? AND year = ?", companyId, year).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("catalog already exists for this year")
	}
	catalog := Catalog{CompanyId: companyId, Year: year}
	if err := tx.WithContext(ctx).Create(&catalog).Error; err != nil {
		return nil, err
	}
	return &catalog, nil
}

func CreateAccountGroup(ctx context.Context, tx *gorm.DB, catalogId int, name string, nature AccountNature) (*AccountGroup, error) {
	if !nature.Valid() {
		return nil, errors.New("invalid account nature: " + string(nature))
	}
	if err := utils.ValidateResourceId[Catalog](ctx, tx, catalogId); err != nil {
		return nil, errors.New("catalog not found")
	}
	group := AccountGroup{CatalogId: catalogId, Name: name, Nature: nature}
	if err := tx.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func CreateAccount(ctx context.Context, tx *gorm.DB, input *NewAccount) (*Account, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[AccountGroup](ctx, tx, input.GroupId); err != nil {
		return nil, errors.New("account group not found")
	}
	var count int64
	err := tx.WithContext(ctx).Model(&Account{}).
		Where("group_id = ? AND code = ?", input.GroupId, input.Code).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("account code already exists in this group")
	}

	account := Account{
		GroupId:          input.GroupId,
		Code:             input.Code,
		Name:             input.Name,
		BgBlock:          BalanceSheetBlock(input.BgBlock),
		ErBlock:          IncomeBlock(input.ErBlock),
		RatioTag:         input.RatioTag,
		ShowsInStatement: utils.NewTrue(),
	}
	if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// may return RecordNotFound
func GetCatalog(ctx context.Context, db *gorm.DB, companyId uuid.UUID, year int) (*Catalog, error) {
	var catalog Catalog
	err := db.WithContext(ctx).
		Where("company_id = ? AND year = ?", companyId, year).First(&catalog).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &catalog, nil
}

// GetCatalogAccounts returns all accounts of a catalog with groups preloaded.
func GetCatalogAccounts(ctx context.Context, db *gorm.DB, catalogId int) ([]*Account, error) {
	var accounts []*Account
	err := db.WithContext(ctx).Preload("Group").
		Joins("JOIN account_groups ON account_groups.id = accounts.group_id").
		Where("account_groups.catalog_id = ?", catalogId).
		Order("accounts.code ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccountByCode resolves an account code within a catalog.
// may return RecordNotFound
func GetAccountByCode(ctx context.Context, db *gorm.DB, catalogId int, code string) (*Account, error) {
	var account Account
	err := db.WithContext(ctx).Preload("Group").
		Joins("JOIN account_groups ON account_groups.id = accounts.group_id").
		Where("account_groups.catalog_id = ? AND accounts.code = ?", catalogId, code).
		First(&account).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &account, nil
}
