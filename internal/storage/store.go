package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/sems/internal/report"
	"github.com/san-kum/sems/internal/scan"
)

const (
	metadataFile = "metadata.json"
	fitsFile     = "fits.csv"
)

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrInvalidRunID = errors.New("storage: invalid run id")
)

var newRunID = func(now time.Time) string {
	return fmt.Sprintf("scan_%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8])
}

// checkRunID keeps run IDs to a single path element inside the store.
func checkRunID(runID string) error {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) || runID != filepath.Base(runID) {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Genotype    string             `json:"genotype"`
	Phenotype   string             `json:"phenotype"`
	Method      string             `json:"method"`
	Offset      int                `json:"offset"`
	Markers     int                `json:"markers"`
	Traits      int                `json:"traits"`
	Individuals int                `json:"individuals"`
	Metrics     map[string]float64 `json:"metrics"`
}

func (s *Store) Save(genotype, phenotype string, res *scan.Result) (runID string, err error) {
	now := time.Now()
	runID = newRunID(now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	metrics := make(map[string]float64)
	for k, v := range res.Metrics() {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			metrics[k] = v
		}
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   now,
		Genotype:    genotype,
		Phenotype:   phenotype,
		Method:      res.Method,
		Offset:      res.Offset,
		Markers:     res.Markers,
		Traits:      res.Traits,
		Individuals: res.Individuals,
		Metrics:     metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, fitsFile))
	if err != nil {
		return "", err
	}
	if err := report.WriteCSV(csvFile, res.Fits); err != nil {
		csvFile.Close()
		return "", err
	}
	if err := csvFile.Close(); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadFits(runID string) ([]scan.Fit, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, fitsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	fits, err := report.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	return fits, nil
}

// LoadResult rebuilds the scan result of a stored run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *scan.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	fits, err := s.LoadFits(runID)
	if err != nil {
		return nil, nil, err
	}

	res := &scan.Result{
		Method:      meta.Method,
		Offset:      meta.Offset,
		Markers:     meta.Markers,
		Traits:      meta.Traits,
		Individuals: meta.Individuals,
		Fits:        fits,
		Elapsed:     time.Duration(meta.Metrics["elapsed_ms"] * float64(time.Millisecond)),
	}
	return meta, res, nil
}
