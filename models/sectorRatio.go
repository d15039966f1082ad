package models

import (
	"encoding/json"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/stela_backend/config"
	"github.com/shopspring/decimal"
)

// SectorRatioTable maps CIIU code -> ratio key -> reference value.
// It is static seed data maintained alongside the sector seeders.
type SectorRatioTable map[string]map[string]decimal.Decimal

const sectorRatioCacheKey = "sectorRatios:v1"
const sectorRatioCacheTTL = 12 * time.Hour

// LoadSectorRatiosFromFile parses the sector reference file. A missing or
// malformed file yields an empty table, never an error: sector comparison
// simply reports NA for every ratio.
func LoadSectorRatiosFromFile(path string) SectorRatioTable {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SectorRatioTable{}
	}
	var parsed map[string]map[string]json.Number
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return SectorRatioTable{}
	}
	table := make(SectorRatioTable, len(parsed))
	for ciiuCode, ratios := range parsed {
		row := make(map[string]decimal.Decimal, len(ratios))
		for ratioKey, num := range ratios {
			value, err := decimal.NewFromString(num.String())
			if err != nil {
				continue
			}
			row[ratioKey] = value
		}
		table[ciiuCode] = row
	}
	return table
}

// GetSectorRatios returns the reference table, Redis-cached when available.
func GetSectorRatios() SectorRatioTable {
	table := SectorRatioTable{}
	exists, err := config.GetRedisObject(sectorRatioCacheKey, &table)
	if err == nil && exists {
		return table
	}
	table = LoadSectorRatiosFromFile(config.SectorRatioFile())
	if len(table) > 0 {
		_ = config.SetRedisObject(sectorRatioCacheKey, &table, sectorRatioCacheTTL)
	}
	return table
}

// InvalidateSectorRatioCache drops the cached table so the next read reloads
// the reference file. Called after reseeding sector data.
func InvalidateSectorRatioCache() error {
	return config.DeleteRedisKey(sectorRatioCacheKey)
}

// GetSectorReference returns the sector's reference value for a ratio, or nil
// when the sector or ratio has no parameter.
func GetSectorReference(ciiuCode string, ratioKey string) *decimal.Decimal {
	ratios, ok := GetSectorRatios()[ciiuCode]
	if !ok {
		return nil
	}
	value, ok := ratios[ratioKey]
	if !ok {
		return nil
	}
	return &value
}
