package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Method != "normal" {
		t.Errorf("expected method normal, got %s", cfg.Method)
	}
	if cfg.Format != "text" {
		t.Errorf("expected format text, got %s", cfg.Format)
	}
	if cfg.Scan.Trait != "0" {
		t.Errorf("expected trait 0, got %s", cfg.Scan.Trait)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sems.yaml")
	data := `genotype: geno.txt
phenotype: pheno.txt
method: qr
scan:
  trait: height
  markers: 25
expect:
  individuals: 500
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Genotype != "geno.txt" || cfg.Phenotype != "pheno.txt" {
		t.Errorf("unexpected inputs: %+v", cfg)
	}
	if cfg.Method != "qr" || cfg.Scan.Trait != "height" || cfg.Scan.Markers != 25 {
		t.Errorf("unexpected scan settings: %+v", cfg)
	}
	if cfg.Format != "text" {
		t.Errorf("expected default format to survive, got %s", cfg.Format)
	}
	if cfg.Expect.Individuals != 500 {
		t.Errorf("expected 500 individuals, got %d", cfg.Expect.Individuals)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sems.yaml")
	cfg := GetPreset("full")
	cfg.Genotype = "g.txt"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("legacy")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scan.Markers != 100 || cfg.Scan.Trait != "0" {
		t.Errorf("expected 100 markers against trait 0, got %+v", cfg.Scan)
	}

	cfg.Scan.Markers = 1
	if Presets["legacy"].Scan.Markers != 100 {
		t.Error("preset mutated through returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}
