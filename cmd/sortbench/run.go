package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/history"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/report"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/spec"
	"github.com/DjordjeVuckovic/sortbench/internal/storage"
	"github.com/DjordjeVuckovic/sortbench/internal/storage/factory"
)

type runOptions struct {
	seed        int64
	sizes       []int
	datasets    []string
	algorithms  []string
	repeat      int
	number      int
	warmup      int
	verify      bool
	outDir      string
	history     bool
	historyPath string
	sinks       []string
	quiet       bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark grid and write results, report and metrics",
		Long: `Runs every dataset × size × algorithm cell of the bench spec. Flags
override the matching spec keys. Artifacts are written to the output dir;
history and sinks are optional and configured in the spec or by flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := root.loadSpec()
			if err != nil {
				return err
			}
			o.apply(cmd, bs)
			return runBenchmark(cmd.Context(), cmd.OutOrStdout(), bs, o.quiet)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&o.seed, "seed", runner.DefaultSeed, "dataset seed")
	f.IntSliceVar(&o.sizes, "sizes", nil, "dataset sizes, e.g. 100,300,1000")
	f.StringSliceVar(&o.datasets, "datasets", nil, "dataset kinds to run")
	f.StringSliceVar(&o.algorithms, "algorithms", nil, "algorithms to run")
	f.IntVar(&o.repeat, "repeat", 0, "timed trials per cell")
	f.IntVar(&o.number, "number", 0, "sort calls per trial")
	f.IntVar(&o.warmup, "warmup", 0, "untimed calls before the trials")
	f.BoolVar(&o.verify, "verify", true, "check every algorithm's output before timing it")
	f.StringVarP(&o.outDir, "out", "o", "", "output directory (default "+spec.DefaultOutputDir+")")
	f.BoolVar(&o.history, "history", false, "store the run in the history database and compare with the previous run")
	f.StringVar(&o.historyPath, "history-path", "", "history database path (default "+spec.DefaultHistoryPath+")")
	f.StringSliceVar(&o.sinks, "sinks", nil, "extra result sinks: pg, es, in_mem")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "do not print the results table")

	return cmd
}

// apply copies flags the user set onto the spec.
func (o *runOptions) apply(cmd *cobra.Command, bs *spec.BenchSpec) {
	f := cmd.Flags()
	if f.Changed("seed") {
		bs.Seed = &o.seed
	}
	if f.Changed("sizes") {
		bs.Sizes = o.sizes
	}
	if f.Changed("datasets") {
		bs.Datasets = o.datasets
	}
	if f.Changed("algorithms") {
		bs.Algorithms = o.algorithms
	}
	if f.Changed("repeat") {
		bs.Runs.Repeat = &o.repeat
	}
	if f.Changed("number") {
		bs.Runs.Number = &o.number
	}
	if f.Changed("warmup") {
		bs.Runs.Warmup = o.warmup
	}
	if f.Changed("verify") {
		bs.Runs.VerifyOutput = &o.verify
	}
	if f.Changed("out") {
		bs.Output.Dir = o.outDir
	}
	if f.Changed("history") {
		bs.History.Enabled = o.history
	}
	if f.Changed("history-path") {
		bs.History.Path = o.historyPath
	}
	if f.Changed("sinks") {
		bs.Sinks = o.sinks
	}
}

func runBenchmark(ctx context.Context, out io.Writer, bs *spec.BenchSpec, quiet bool) error {
	cfg, err := bs.Config()
	if err != nil {
		return err
	}

	// sinks are opened first so a bad connection fails before measuring
	storers, err := openSinks(ctx, bs.Sinks)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.CloseAll(storers); err != nil {
			slog.Warn("Failed to close sinks", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	collector := metrics.NewCollector()
	run, err := runner.New(cfg, runner.WithObserver(collector)).Run(ctx)
	if err != nil {
		return err
	}
	collector.ObserveRun(run)

	if _, err := writeArtifacts(run, bs.Output, collector); err != nil {
		return err
	}

	if !quiet {
		report.WriteTable(run, out)
	}

	var errs []error
	if bs.History.Enabled {
		if err := recordHistory(ctx, out, bs.History, run); err != nil {
			slog.Error("Failed to record history", "error", err)
			errs = append(errs, err)
		}
	}
	if len(storers) > 0 {
		if err := storage.SaveAll(ctx, storers, run); err != nil {
			slog.Error("Failed to store run in sinks", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openSinks(ctx context.Context, names []string) ([]storage.Storer, error) {
	if len(names) == 0 {
		return nil, nil
	}
	types := make([]storage.Type, len(names))
	for i, n := range names {
		types[i] = storage.Type(n)
	}

	cfg, err := factory.LoadEnv(types)
	if err != nil {
		return nil, err
	}
	return factory.NewStorers(ctx, cfg)
}

func recordHistory(ctx context.Context, out io.Writer, hc spec.HistoryConfig, run *runner.Run) error {
	store, err := history.Open(hc.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	prev, prevErr := store.Latest(ctx)

	if err := store.Save(ctx, run); err != nil {
		return err
	}
	slog.Info("Run saved to history", "id", run.ID, "path", hc.Path)

	if errors.Is(prevErr, apperr.ErrNotFound) {
		slog.Info("No previous run to compare with")
		return nil
	}
	if prevErr != nil {
		return fmt.Errorf("load previous run: %w", prevErr)
	}

	deltas := history.Compare(prev.Rows, run.Rows, hc.Threshold())
	fmt.Fprintf(out, "\nCompared with run %s:\n", prev.ID)
	writeDeltas(out, deltas)

	if n := len(history.Regressions(deltas)); n > 0 {
		slog.Warn("Regressions detected", "count", n, "threshold_pct", hc.Threshold())
	}
	return nil
}
