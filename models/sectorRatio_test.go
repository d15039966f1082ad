package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadSectorRatiosFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sector_ratios.json")
	content := `{"4711": {"CURRENT_RATIO": 1.2, "INDEBTEDNESS": 65.0}, "6201": {"ROA": 10}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table := LoadSectorRatiosFromFile(path)
	if len(table) != 2 {
		t.Fatalf("expected 2 sectors, got %d", len(table))
	}
	if !table["4711"]["CURRENT_RATIO"].Equal(decimal.RequireFromString("1.2")) {
		t.Fatalf("CURRENT_RATIO: got %s, want 1.2", table["4711"]["CURRENT_RATIO"])
	}
	if !table["6201"]["ROA"].Equal(decimal.RequireFromString("10")) {
		t.Fatalf("ROA: got %s, want 10", table["6201"]["ROA"])
	}
}

func TestLoadSectorRatiosMissingFileIsEmpty(t *testing.T) {
	table := LoadSectorRatiosFromFile(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if len(table) != 0 {
		t.Fatalf("expected empty table, got %d sectors", len(table))
	}
}

func TestLoadSectorRatiosMalformedFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	table := LoadSectorRatiosFromFile(path)
	if len(table) != 0 {
		t.Fatalf("expected empty table, got %d sectors", len(table))
	}
}
