package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/sems/internal/genome"
)

func (a *app) newGenerateCmd() *cobra.Command {
	var (
		cfg                 = genome.DefaultSynthConfig()
		genoPath, phenoPath string
	)
	cmd := &cobra.Command{
		Use:   "generate -g GENOTYPE -p PHENOTYPE",
		Short: "write a random data set with planted marker effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if genoPath == "" || phenoPath == "" {
				return errMissingInput
			}
			g, p, err := genome.Synthesize(cfg)
			if err != nil {
				return err
			}
			if err := genome.SaveGenotype(genoPath, g); err != nil {
				return err
			}
			if err := genome.SavePhenotype(phenoPath, p); err != nil {
				return err
			}
			a.logger.Info("data set written",
				zap.String("genotype", genoPath),
				zap.String("phenotype", phenoPath),
				zap.Int("individuals", cfg.Individuals),
				zap.Int("markers", cfg.Markers),
				zap.Int("traits", cfg.Traits),
				zap.Ints("causal", cfg.CausalMarkers()))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&genoPath, "genotype", "g", "", "genotype table to write")
	f.StringVarP(&phenoPath, "phenotype", "p", "", "phenotype table to write")
	f.IntVarP(&cfg.Individuals, "individuals", "n", cfg.Individuals, "number of individuals")
	f.IntVarP(&cfg.Markers, "marker-count", "m", cfg.Markers, "number of markers")
	f.IntVarP(&cfg.Traits, "trait-count", "r", cfg.Traits, "number of traits")
	f.IntVar(&cfg.Causal, "causal", cfg.Causal, "markers with an effect")
	f.Float64Var(&cfg.Effect, "effect", cfg.Effect, "effect per allele")
	f.Float64Var(&cfg.Noise, "noise", cfg.Noise, "standard deviation of the trait noise")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	return cmd
}
