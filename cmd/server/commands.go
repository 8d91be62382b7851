package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warp/workforce-engine/analysis"
	"github.com/warp/workforce-engine/company"
	"github.com/warp/workforce-engine/config"
	"github.com/warp/workforce-engine/dataset"
	"github.com/warp/workforce-engine/resume"
	"github.com/warp/workforce-engine/simulation"
	"github.com/warp/workforce-engine/store/sqlite"
)

// =============================================================================
// SIMULATE
// =============================================================================

type simulateOptions struct {
	industry string
	year     int
	deltas   simulation.DeltaSet
}

// simulateOutput is what the simulate command prints.
type simulateOutput struct {
	Industry    string                  `json:"industry"`
	Year        int                     `json:"year"`
	Deltas      simulation.DeltaSet     `json:"deltas"`
	Result      simulation.Result       `json:"result"`
	Comparison  simulation.Comparison   `json:"comparison"`
	OutOfBounds []simulation.DeltaField `json:"out_of_bounds,omitempty"`
}

func newSimulateCmd(flags *globalFlags) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one what-if simulation against the stored dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runSimulate(cmd.Context(), cfg, *opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.industry, "industry", "", "Industry name")
	f.IntVar(&opts.year, "year", 0, "Year to simulate (defaults to the forecast year)")
	f.Float64Var(&opts.deltas.InternshipDelta, "internship", 0, "Internship intake delta in percent")
	f.Float64Var(&opts.deltas.ConversionDelta, "conversion", 0, "Conversion rate delta in percent")
	f.Float64Var(&opts.deltas.AttritionDelta, "attrition", 0, "Attrition rate delta in percent")
	f.Float64Var(&opts.deltas.GrowthDelta, "growth", 0, "Growth rate delta in percent")
	cmd.MarkFlagRequired("industry")

	return cmd
}

func runSimulate(ctx context.Context, cfg *config.Config, opts simulateOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.year == 0 {
		opts.year = cfg.ForecastYear
	}
	if err := simulation.ValidateDeltas(opts.deltas); err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	model, err := analysis.Load(ctx, store, cfg.AnalysisOptions())
	if err != nil {
		return err
	}
	dash, err := model.Dashboard(opts.industry, opts.year)
	if err != nil {
		return err
	}

	engine := simulation.NewEngine(cfg.ForecastYear)
	result := engine.Compute(dash.SimulationContext, opts.deltas, opts.year)

	outOfBounds := simulation.OutOfBounds(opts.deltas)
	if len(outOfBounds) > 0 {
		logrus.WithField("fields", outOfBounds).Warn("deltas outside slider bounds")
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(simulateOutput{
		Industry:    opts.industry,
		Year:        opts.year,
		Deltas:      opts.deltas,
		Result:      result,
		Comparison:  simulation.Compare(result, dash.Metrics.BaselineMetrics(), opts.deltas),
		OutOfBounds: outOfBounds,
	})
}

// =============================================================================
// SEED
// =============================================================================

var errSeedSource = errors.New("exactly one of --demo or --file is required")

func newSeedCmd(flags *globalFlags) *cobra.Command {
	var demo, file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored dataset with a demo or a YAML/JSON file",
		Long: "Replace the stored dataset with a demo or a YAML/JSON file.\n\nDemos:\n" +
			demoList(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg, demo, file, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&demo, "demo", "", "Built-in demo dataset name")
	cmd.Flags().StringVar(&file, "file", "", "Dataset file (.yaml, .yml or .json)")
	return cmd
}

func runSeed(ctx context.Context, cfg *config.Config, demo, file string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if (demo == "") == (file == "") {
		return errSeedSource
	}

	var (
		doc  *dataset.Document
		name string
		err  error
	)
	if demo != "" {
		name = demo
		doc, err = dataset.LoadDemo(demo)
	} else {
		name = filepath.Base(file)
		doc, err = dataset.ParseFile(file)
	}
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	records := doc.Records()
	if err := store.ReplaceDataset(ctx, name, records, doc.Catalog(company.DefaultCatalog), doc.Jobs(resume.DefaultJobs)); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"dataset": name,
		"records": len(records),
		"db":      cfg.DBPath,
	}).Info("dataset seeded")
	fmt.Fprintf(out, "loaded %q: %d records across %d industries\n", name, len(records), len(doc.Industries))
	return nil
}

func demoList() string {
	var b strings.Builder
	for _, d := range dataset.Demos() {
		fmt.Fprintf(&b, "  %-18s %s\n", d.Name, d.Description)
	}
	return b.String()
}
