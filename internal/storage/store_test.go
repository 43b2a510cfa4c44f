package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/san-kum/sems/internal/scan"
)

func testResult() *scan.Result {
	return &scan.Result{
		Method:      "normal",
		Markers:     2,
		Traits:      1,
		Individuals: 4,
		Elapsed:     3 * time.Millisecond,
		Fits: []scan.Fit{
			{Marker: 0, MarkerName: "rs1", TraitName: "h", Slope: 1.5, Intercept: 0.25, R2: 0.9, RSS: 0.1},
			{Marker: 1, MarkerName: "rs2", TraitName: "h", Slope: math.NaN(), Intercept: math.NaN(), R2: math.NaN(), RSS: math.NaN(), Err: "singular"},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res := testResult()
	runID, err := st.Save("geno.txt", "pheno.txt", res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Method != "normal" || meta.Genotype != "geno.txt" || meta.Individuals != 4 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Metrics["failed"] != 1 {
		t.Errorf("expected 1 failed fit, got %f", meta.Metrics["failed"])
	}

	fits, err := st.LoadFits(runID)
	if err != nil {
		t.Fatalf("load fits failed: %v", err)
	}
	if diff := cmp.Diff(res.Fits, fits, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("fits mismatch (-want +got):\n%s", diff)
	}

	_, loaded, err := st.LoadResult(runID)
	if err != nil {
		t.Fatalf("load result failed: %v", err)
	}
	if loaded.Elapsed != res.Elapsed {
		t.Errorf("expected elapsed %v, got %v", res.Elapsed, loaded.Elapsed)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save("g", "p", testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save("g", "p", testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct run ids, got %s twice", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save("g", "p", testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "fits.csv")); os.IsNotExist(err) {
		t.Error("fits.csv not created")
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFits("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save("g", "p", testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export json failed: %v", err)
	}
	var doc struct {
		Method string `json:"method"`
		Fits   []struct {
			MarkerName string   `json:"marker_name"`
			Slope      *float64 `json:"slope"`
		} `json:"fits"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.Method != "normal" || len(doc.Fits) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Fits[0].Slope == nil || *doc.Fits[0].Slope != 1.5 {
		t.Errorf("expected slope 1.5, got %v", doc.Fits[0].Slope)
	}
	if doc.Fits[1].Slope != nil {
		t.Errorf("expected null slope for failed fit, got %v", *doc.Fits[1].Slope)
	}

	buf.Reset()
	if err := st.ExportCSV(&buf, runID); err != nil {
		t.Fatalf("export csv failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("marker,marker_name")) {
		t.Errorf("unexpected csv: %q", buf.String())
	}
}

func TestStoreRejectsEscapingRunIDs(t *testing.T) {
	base := t.TempDir()
	st := New(filepath.Join(base, "runs"))
	if _, err := st.Save("g", "p", testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, metadataFile), []byte(`{"id":"outside"}`), 0644); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"", ".", "..", "../x", "a/b", `a\b`, "/etc"} {
		if _, err := st.Load(id); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("Load(%q): expected ErrInvalidRunID, got %v", id, err)
		}
		if _, err := st.LoadFits(id); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("LoadFits(%q): expected ErrInvalidRunID, got %v", id, err)
		}
	}
	if err := st.ExportJSON(&bytes.Buffer{}, ".."); !errors.Is(err, ErrInvalidRunID) {
		t.Errorf("expected ErrInvalidRunID from export, got %v", err)
	}
}

func TestStoreSaveCleansUpOnFailure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	orig := newRunID
	newRunID = func(time.Time) string { return "scan_fixed" }
	defer func() { newRunID = orig }()

	// a directory where fits.csv should go makes the csv write fail
	if err := os.MkdirAll(filepath.Join(tmpDir, "scan_fixed", fitsFile), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Save("g", "p", testResult()); err == nil {
		t.Fatal("expected save to fail")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "scan_fixed")); !os.IsNotExist(err) {
		t.Errorf("expected run directory removed, got %v", err)
	}
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
