package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/sems/internal/config"
	"github.com/san-kum/sems/internal/storage"
	"github.com/san-kum/sems/internal/viz"
)

// maxPlots bounds the charts drawn for a multi-trait run unless --trait is set.
const maxPlots = 6

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(a.dataDir).List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tMETHOD\tMARKERS\tTRAITS\tINDIVIDUALS\tFAILED")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.0f\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Method,
					run.Markers,
					run.Traits,
					run.Individuals,
					run.Metrics["failed"],
				)
			}
			return w.Flush()
		},
	}
}

func (a *app) newShowCmd() *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarize a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, res, err := storage.New(a.dataDir).LoadResult(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, viz.RenderSummary(meta.ID, res, viz.GetTheme(theme)))
			fmt.Fprintf(out, "genotype:  %s\nphenotype: %s\ncreated:   %s\n",
				meta.Genotype, meta.Phenotype, meta.Timestamp.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "minimal", fmt.Sprintf("color theme %v", viz.ThemeNames()))
	return cmd
}

func (a *app) newPlotCmd() *cobra.Command {
	var (
		trait int
		value string
		opts  = viz.DefaultPlotOptions()
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart a coefficient across markers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := viz.ParseValue(value)
			if err != nil {
				return err
			}
			fits, err := storage.New(a.dataDir).LoadFits(args[0])
			if err != nil {
				return err
			}

			traits := viz.TraitsIn(fits)
			if cmd.Flags().Changed("trait") {
				traits = []int{trait}
			} else if len(traits) > maxPlots {
				a.logger.Warn("too many traits, plotting the first ones",
					zap.Int("traits", len(traits)),
					zap.Int("plotted", maxPlots))
				traits = traits[:maxPlots]
			}

			out := cmd.OutOrStdout()
			for i, t := range traits {
				graph, err := viz.EffectPlot(fits, t, v, opts)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, graph)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&trait, "trait", 0, "trait index to plot (default every trait)")
	cmd.Flags().StringVar(&value, "value", string(viz.ValueSlope), fmt.Sprintf("value to plot %v", viz.Values()))
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "plot width")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "plot height")
	return cmd
}

func (a *app) newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the fits of a run as csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(a.dataDir).ExportCSV(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run as a json document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(a.dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) newBrowseCmd() *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "browse [run_id]",
		Short: "page through the fits of a run interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fits, err := storage.New(a.dataDir).LoadFits(args[0])
			if err != nil {
				return err
			}
			return viz.RunBrowser(args[0], fits, viz.GetTheme(theme))
		},
	}
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))
	return cmd
}

func (a *app) newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list scan presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMETHOD\tFORMAT\tTRAITS\tMARKERS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				traits := "trait " + p.Scan.Trait
				if p.Scan.AllTraits {
					traits = "all"
				}
				markers := "all"
				if p.Scan.Markers > 0 {
					markers = fmt.Sprint(p.Scan.Markers)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, p.Method, p.Format, traits, markers)
			}
			return w.Flush()
		},
	}
}
