package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/history"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

var errRegressions = errors.New("regressions detected")

type compareOptions struct {
	against          string
	threshold        float64
	historyPath      string
	failOnRegression bool
}

func newCompareCmd(root *rootOptions) *cobra.Command {
	o := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare [run-id|latest]",
		Short: "Compare a stored run's medians with an earlier run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := root.loadSpec()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("history-path") {
				bs.History.Path = o.historyPath
			}
			if !cmd.Flags().Changed("threshold") {
				o.threshold = bs.History.Threshold()
			}

			store, err := history.Open(bs.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			ref := latestRef
			if len(args) == 1 {
				ref = args[0]
			}
			curr, err := resolveRun(ctx, store, ref)
			if err != nil {
				return err
			}

			var prev *runner.Run
			if o.against != "" {
				prev, err = resolveRun(ctx, store, o.against)
			} else {
				prev, err = store.Previous(ctx, curr.ID)
			}
			if err != nil {
				return fmt.Errorf("baseline %w", err)
			}

			deltas := history.Compare(prev.Rows, curr.Rows, o.threshold)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s vs %s (regression threshold %.1f%%)\n\n", shortID(curr.ID), shortID(prev.ID), o.threshold)
			writeDeltas(out, deltas)

			regressed := history.Regressions(deltas)
			fmt.Fprintf(out, "\n%d of %d cells regressed\n", len(regressed), len(deltas))
			if o.failOnRegression && len(regressed) > 0 {
				return errRegressions
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.against, "against", "", "baseline run id (default: the run stored before it)")
	f.Float64Var(&o.threshold, "threshold", history.DefaultRegressionThreshold, "median slowdown in percent flagged as a regression")
	f.StringVar(&o.historyPath, "history-path", "", "history database path")
	f.BoolVar(&o.failOnRegression, "fail-on-regression", false, "exit non-zero when any cell regressed")

	return cmd
}

func writeDeltas(w io.Writer, deltas []history.Delta) {
	if len(deltas) == 0 {
		fmt.Fprintln(w, "No cells measured in both runs.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "dataset\tsize\talgorithm\tprev median (s)\tcurr median (s)\tchange\t\t")
	for _, d := range deltas {
		mark := ""
		if d.Regression {
			mark = "REGRESSION"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.6f\t%.6f\t%+.2f%%\t%s\t\n",
			d.Dataset, d.Size, d.Algorithm, d.PrevMedian, d.CurrMedian, d.ChangePct, mark)
	}
	_ = tw.Flush()
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
