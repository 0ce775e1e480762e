package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/history"
	"github.com/DjordjeVuckovic/sortbench/pkg/pagination"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		page        pagination.OffsetRequest
		historyPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored benchmark runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := root.loadSpec()
			if err != nil {
				return err
			}
			if historyPath != "" {
				bs.History.Path = historyPath
			}
			_ = page.Validate()

			store, err := history.Open(bs.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, total, err := store.List(cmd.Context(), page.Size, page.Offset())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if total == 0 {
				fmt.Fprintln(out, "No runs stored yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tGO\tMEASURED\tSKIPPED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
					r.ID,
					r.StartedAt.Local().Format(time.DateTime),
					r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
					r.Env.GoVersion,
					r.Measured,
					r.Skipped)
			}
			_ = tw.Flush()

			res := pagination.NewOffsetResult(runs, total, page.Page, page.Size)
			fmt.Fprintf(out, "\npage %d, %d of %d runs", res.Page, len(res.Items), res.Total)
			if res.HasMore {
				fmt.Fprintf(out, ", more with --page %d", res.Page+1)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&page.Page, "page", 1, "page number")
	f.IntVar(&page.Size, "limit", pagination.PageDefaultSize, "runs per page")
	f.StringVar(&historyPath, "history-path", "", "history database path")

	return cmd
}
