package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/sems/internal/config"
	"github.com/san-kum/sems/internal/genome"
	"github.com/san-kum/sems/internal/report"
	"github.com/san-kum/sems/internal/scan"
	"github.com/san-kum/sems/internal/storage"
	"github.com/san-kum/sems/internal/viz"
)

var (
	errMissingInput = errors.New("genotype (-g) and phenotype (-p) files are required")
	errSizeMismatch = errors.New("table size differs from expected")
	errUnknownTrait = errors.New("unknown trait")
)

type scanOptions struct {
	flags      config.Config
	configFile string
	preset     string
	saveConfig string
	noSave     bool
	quiet      bool
}

func (a *app) newScanCmd() *cobra.Command {
	o := &scanOptions{flags: *config.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "scan -g GENOTYPE -p PHENOTYPE [-o OUTPUT]",
		Short: "fit every marker against the selected traits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.flags.Genotype, "genotype", "g", "", "genotype table")
	f.StringVarP(&o.flags.Phenotype, "phenotype", "p", "", "phenotype table")
	f.StringVarP(&o.flags.Output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&o.flags.Format, "format", o.flags.Format, fmt.Sprintf("output format %v", report.Formats()))
	f.StringVar(&o.flags.Method, "method", o.flags.Method, fmt.Sprintf("solver %v", scan.NewRegistry().ListSolvers()))
	f.StringVar(&o.flags.Scan.Trait, "trait", o.flags.Scan.Trait, "trait index or name")
	f.BoolVar(&o.flags.Scan.AllTraits, "all-traits", false, "fit every trait")
	f.IntVar(&o.flags.Scan.Markers, "markers", 0, "number of markers to fit (0 = all)")
	f.IntVar(&o.flags.Scan.Offset, "offset", 0, "first marker to fit")
	f.IntVar(&o.flags.Scan.Workers, "workers", 0, "parallel fits (0 = number of CPUs)")
	f.IntVarP(&o.flags.Expect.Individuals, "individuals", "n", 0, "expected number of individuals")
	f.IntVarP(&o.flags.Expect.Markers, "marker-count", "m", 0, "expected number of markers")
	f.IntVarP(&o.flags.Expect.Traits, "trait-count", "r", 0, "expected number of traits")
	f.StringVar(&o.configFile, "config", "", "config file path (yaml)")
	f.StringVar(&o.preset, "preset", "", fmt.Sprintf("use preset configuration %v", config.ListPresets()))
	f.StringVar(&o.saveConfig, "save-config", "", "write the effective configuration to this path")
	f.BoolVar(&o.noSave, "no-save", false, "do not store the run")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "do not print the run summary")

	return cmd
}

// resolveConfig layers defaults, preset, config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command, o *scanOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.preset != "" {
		cfg = config.GetPreset(o.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", o.preset, config.ListPresets())
		}
	}
	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	fl := &o.flags
	set := map[string]func(){
		"genotype":     func() { cfg.Genotype = fl.Genotype },
		"phenotype":    func() { cfg.Phenotype = fl.Phenotype },
		"output":       func() { cfg.Output = fl.Output },
		"format":       func() { cfg.Format = fl.Format },
		"method":       func() { cfg.Method = fl.Method },
		"trait":        func() { cfg.Scan.Trait = fl.Scan.Trait },
		"all-traits":   func() { cfg.Scan.AllTraits = fl.Scan.AllTraits },
		"markers":      func() { cfg.Scan.Markers = fl.Scan.Markers },
		"offset":       func() { cfg.Scan.Offset = fl.Scan.Offset },
		"workers":      func() { cfg.Scan.Workers = fl.Scan.Workers },
		"individuals":  func() { cfg.Expect.Individuals = fl.Expect.Individuals },
		"marker-count": func() { cfg.Expect.Markers = fl.Expect.Markers },
		"trait-count":  func() { cfg.Expect.Traits = fl.Expect.Traits },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	// naming a trait on the command line overrides an all-traits preset
	if cmd.Flags().Changed("trait") && !cmd.Flags().Changed("all-traits") {
		cfg.Scan.AllTraits = false
	}
	return cfg, nil
}

func (a *app) runScan(cmd *cobra.Command, o *scanOptions) error {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}
	if cfg.Genotype == "" || cfg.Phenotype == "" {
		return errMissingInput
	}
	if o.saveConfig != "" {
		if err := config.Save(o.saveConfig, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	solver, err := scan.NewRegistry().GetSolver(cfg.Method)
	if err != nil {
		return err
	}

	g, err := genome.LoadGenotype(cfg.Genotype)
	if err != nil {
		return err
	}
	a.logger.Info("genotype loaded",
		zap.String("path", cfg.Genotype),
		zap.Int("markers", g.NumMarkers()),
		zap.Int("individuals", g.NumIndividuals()))

	p, err := genome.LoadPhenotype(cfg.Phenotype)
	if err != nil {
		return err
	}
	a.logger.Info("phenotype loaded",
		zap.String("path", cfg.Phenotype),
		zap.Int("traits", p.NumTraits()),
		zap.Int("individuals", p.NumIndividuals()))

	if err := checkExpected(cfg.Expect, g, p); err != nil {
		return err
	}

	trait := 0
	if !cfg.Scan.AllTraits {
		if trait, err = resolveTrait(p, cfg.Scan.Trait); err != nil {
			return err
		}
	}

	s := scan.New(scan.Config{
		Trait:     trait,
		AllTraits: cfg.Scan.AllTraits,
		Markers:   cfg.Scan.Markers,
		Offset:    cfg.Scan.Offset,
		Workers:   cfg.Scan.Workers,
	}, scan.WithLogger(a.logger))
	if err := s.Setup(g, p, solver); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	res, err := s.Run(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if err := writeReport(cmd.OutOrStdout(), cfg.Output, format, res); err != nil {
		return err
	}

	title := "scan (not saved)"
	if !o.noSave {
		st := storage.New(a.dataDir)
		runID, err := st.Save(cfg.Genotype, cfg.Phenotype, res)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		a.logger.Info("run saved", zap.String("id", runID), zap.String("dir", a.dataDir))
		title = runID
	}

	if !o.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), viz.RenderSummary(title, res, viz.ThemeMinimal))
	}
	return nil
}

func writeReport(stdout io.Writer, path string, format report.Format, res *scan.Result) error {
	if path == "" {
		return report.Write(stdout, format, res)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, format, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func checkExpected(e config.ExpectConfig, g *genome.Genotype, p *genome.Phenotype) error {
	checks := []struct {
		name      string
		want, got int
	}{
		{"individuals", e.Individuals, g.NumIndividuals()},
		{"markers", e.Markers, g.NumMarkers()},
		{"traits", e.Traits, p.NumTraits()},
	}
	for _, c := range checks {
		if c.want > 0 && c.want != c.got {
			return fmt.Errorf("%w: %s expected %d, found %d", errSizeMismatch, c.name, c.want, c.got)
		}
	}
	return nil
}

// resolveTrait accepts a trait index or a trait name.
func resolveTrait(p *genome.Phenotype, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	if i, ok := p.TraitIndex(s); ok {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %q (traits: %v)", errUnknownTrait, s, p.Traits)
}
