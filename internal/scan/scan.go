// Package scan fits every selected marker against the selected traits and
// collects one slope/intercept pair per marker and trait.
package scan

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sems/internal/genome"
	"github.com/san-kum/sems/internal/ols"
)

type Config struct {
	// Trait is the phenotype column to regress on; ignored when AllTraits is set.
	Trait     int
	AllTraits bool
	// Markers limits the scan to this many markers starting at Offset; 0 scans to the end.
	Markers int
	Offset  int
	Workers int
}

// Fit is the regression of one trait on one marker. Failed fits carry NaN
// coefficients and the error text.
type Fit struct {
	Marker     int
	MarkerName string
	Trait      int
	TraitName  string
	Slope      float64
	Intercept  float64
	R2         float64
	RSS        float64
	Err        string
}

func (f Fit) Failed() bool {
	return f.Err != ""
}

type Result struct {
	Method      string
	Offset      int
	Markers     int
	Traits      int
	Individuals int
	Fits        []Fit
	Elapsed     time.Duration
}

type Option func(*Scan)

func WithLogger(l *zap.Logger) Option {
	return func(s *Scan) { s.logger = l }
}

type Scan struct {
	cfg    Config
	logger *zap.Logger

	geno    *genome.Genotype
	pheno   *genome.Phenotype
	solver  ols.Solver
	traits  []int
	markers int
	workers int
}

func New(cfg Config, opts ...Option) *Scan {
	s := &Scan{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scan) Setup(g *genome.Genotype, p *genome.Phenotype, solver ols.Solver) error {
	if g == nil || p == nil || solver == nil {
		return fmt.Errorf("scan: setup requires genotype, phenotype and solver")
	}
	if g.NumIndividuals() != p.NumIndividuals() {
		return fmt.Errorf("%w: %d genotyped, %d phenotyped", ErrIndividualMismatch, g.NumIndividuals(), p.NumIndividuals())
	}
	if mismatched := countIDMismatches(g.Individuals, p.Individuals); mismatched > 0 {
		s.logger.Warn("individual IDs differ between tables, matching by position",
			zap.Int("mismatched", mismatched),
			zap.Int("individuals", g.NumIndividuals()))
	}

	if s.cfg.AllTraits {
		s.traits = make([]int, p.NumTraits())
		for i := range s.traits {
			s.traits[i] = i
		}
	} else {
		if s.cfg.Trait < 0 || s.cfg.Trait >= p.NumTraits() {
			return fmt.Errorf("%w: %d (traits: %d)", ErrTraitRange, s.cfg.Trait, p.NumTraits())
		}
		s.traits = []int{s.cfg.Trait}
	}

	if s.cfg.Offset < 0 || s.cfg.Offset >= g.NumMarkers() || s.cfg.Markers < 0 {
		return fmt.Errorf("%w: offset %d, count %d (markers: %d)", ErrMarkerRange, s.cfg.Offset, s.cfg.Markers, g.NumMarkers())
	}
	s.markers = g.NumMarkers() - s.cfg.Offset
	if s.cfg.Markers > 0 && s.cfg.Markers < s.markers {
		s.markers = s.cfg.Markers
	} else if s.cfg.Markers > s.markers {
		s.logger.Warn("marker count exceeds table, scanning to the end",
			zap.Int("requested", s.cfg.Markers),
			zap.Int("available", s.markers))
	}

	s.workers = s.cfg.Workers
	if s.workers <= 0 {
		s.workers = runtime.NumCPU()
	}

	s.geno, s.pheno, s.solver = g, p, solver
	return nil
}

func (s *Scan) Run(ctx context.Context) (*Result, error) {
	if s.solver == nil {
		return nil, ErrNotSetup
	}
	start := time.Now()

	n := s.pheno.NumIndividuals()
	ys := mat.NewDense(n, len(s.traits), nil)
	for j, t := range s.traits {
		ys.SetCol(j, s.pheno.Trait(t))
	}

	s.logger.Debug("scan started",
		zap.String("method", s.solver.Name()),
		zap.Int("markers", s.markers),
		zap.Int("traits", len(s.traits)),
		zap.Int("workers", s.workers))

	perMarker := make([][]Fit, s.markers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for k := 0; k < s.markers; k++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perMarker[k] = s.fitMarker(s.cfg.Offset+k, ys)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Method:      s.solver.Name(),
		Offset:      s.cfg.Offset,
		Markers:     s.markers,
		Traits:      len(s.traits),
		Individuals: n,
		Fits:        make([]Fit, 0, s.markers*len(s.traits)),
	}
	for _, fits := range perMarker {
		res.Fits = append(res.Fits, fits...)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

func (s *Scan) fitMarker(m int, ys *mat.Dense) []Fit {
	x := s.geno.Marker(m)
	fits := make([]Fit, len(s.traits))
	for j, t := range s.traits {
		fits[j] = Fit{
			Marker:     m,
			MarkerName: s.geno.Markers[m],
			Trait:      t,
			TraitName:  s.pheno.Traits[t],
		}
	}

	z, err := s.solver.Solve(mat.NewDense(len(x), 1, x), ys)
	var lines []ols.Line
	if err == nil {
		lines, err = ols.Lines(z)
	}
	if err != nil {
		s.logger.Warn("marker fit failed",
			zap.Int("marker", m),
			zap.String("name", s.geno.Markers[m]),
			zap.Error(err))
		for j := range fits {
			fits[j].Slope, fits[j].Intercept = math.NaN(), math.NaN()
			fits[j].R2, fits[j].RSS = math.NaN(), math.NaN()
			fits[j].Err = err.Error()
		}
		return fits
	}

	for j, t := range s.traits {
		st := ols.Evaluate(x, s.pheno.Trait(t), lines[j])
		fits[j].Slope = lines[j].Slope
		fits[j].Intercept = lines[j].Intercept
		fits[j].R2 = st.R2
		fits[j].RSS = st.RSS
	}
	return fits
}

func countIDMismatches(a, b []string) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}
