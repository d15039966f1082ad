package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"bitbucket.org/mmdatafocus/stela_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Canonical keys whose template lines must exist before auto-mapping runs.
var requiredLineKeys = []string{
	models.LineKeyTotalAssets,
	models.LineKeyCurrentAsset,
	models.LineKeyCurrentLiability,
	models.LineKeyNetSales,
	models.LineKeyNetIncome,
}

// Tag bodies whose accounts are left out of the total-assets union. Accounts
// tagged with these already contribute to the total through another path.
var totalAssetsExcludedTags = map[string]bool{
	models.LineKeyCurrentAsset: true,
	models.LineKeyTotalAssets:  true,
	"FIXED_ASSET_NET":          true,
}

type mappingTarget struct {
	accountId int
	sign      int
}

// AutoMapCatalog rebuilds the account-to-line mappings of one catalog from
// account ratio tags. Accounts are grouped by tag body; each group resolves
// the StatementLine whose key equals the body, and unresolved tags are
// skipped. Per resolved line the catalog's old mappings are deleted and
// recreated, so repeated runs are idempotent. The total-assets line is
// populated separately from the asset blocks. Net income is never mapped
// here. Returns {line key: mapping count}.
func AutoMapCatalog(ctx context.Context, tx *gorm.DB, logger *logrus.Logger, catalogId int) (map[string]int, error) {
	var missing []string
	for _, key := range requiredLineKeys {
		exists, err := models.StatementLineKeyExists(ctx, tx, key)
		if err != nil {
			config.LogError(logger, "autoMapWorkflow.go", "AutoMapCatalog", "StatementLineKeyExists", key, err)
			return nil, err
		}
		if !exists {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		err := fmt.Errorf("statement template is missing required lines: %s", strings.Join(missing, ", "))
		config.LogError(logger, "autoMapWorkflow.go", "AutoMapCatalog", "ValidateRequiredLines", missing, err)
		return nil, err
	}

	accounts, err := models.GetCatalogAccounts(ctx, tx, catalogId)
	if err != nil {
		config.LogError(logger, "autoMapWorkflow.go", "AutoMapCatalog", "GetCatalogAccounts", catalogId, err)
		return nil, err
	}

	grouped := map[string][]mappingTarget{}
	for _, account := range accounts {
		tag, sign := account.TagBody()
		if tag == "" || tag == models.LineKeyNetIncome {
			continue
		}
		grouped[tag] = append(grouped[tag], mappingTarget{accountId: account.ID, sign: sign})
	}

	// Total assets is the union of all asset-nature accounts in the asset
	// blocks, always with sign +1. Accounts tagged with a summary tag are
	// skipped so summary rows don't double the total.
	for _, account := range accounts {
		if account.Group == nil || account.Group.Nature != models.AccountNatureAsset {
			continue
		}
		if account.BgBlock != models.BlockCurrentAsset && account.BgBlock != models.BlockNonCurrentAsset {
			continue
		}
		if totalAssetsExcludedTags[strings.TrimSpace(account.RatioTag)] {
			continue
		}
		grouped[models.LineKeyTotalAssets] = append(grouped[models.LineKeyTotalAssets],
			mappingTarget{accountId: account.ID, sign: 1})
	}

	tags := make([]string, 0, len(grouped))
	for tag := range grouped {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	summary := map[string]int{}
	for _, tag := range tags {
		line, err := models.GetStatementLineByKey(ctx, tx, tag)
		if err != nil {
			// Tag without a template line: not an error, just unmapped.
			continue
		}
		if err := models.DeleteCatalogLineMappings(ctx, tx, line.ID, catalogId); err != nil {
			config.LogError(logger, "autoMapWorkflow.go", "AutoMapCatalog", "DeleteCatalogLineMappings", tag, err)
			return nil, err
		}
		for _, target := range grouped[tag] {
			mapping := models.AccountLineMapping{
				AccountId: target.accountId,
				LineId:    line.ID,
				Sign:      target.sign,
			}
			if err := tx.WithContext(ctx).Create(&mapping).Error; err != nil {
				config.LogError(logger, "autoMapWorkflow.go", "AutoMapCatalog", "CreateMapping", tag, err)
				return nil, err
			}
		}
		summary[tag] = len(grouped[tag])
	}
	return summary, nil
}
