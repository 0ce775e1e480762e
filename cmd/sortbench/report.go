package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/history"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/report"
)

type reportOptions struct {
	file        string
	raw         bool
	width       int
	outDir      string
	historyPath string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	o := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report [run-id|latest]",
		Short: "Show the report of a stored run in the terminal",
		Long: `Renders the Markdown report of a stored run for the terminal. With --file
an existing report document is rendered instead. With --out the run's
artifacts are written again to the given directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var markdown []byte

			if o.file != "" {
				data, err := os.ReadFile(o.file)
				if err != nil {
					return fmt.Errorf("read report %q: %w", o.file, err)
				}
				markdown = data
			} else {
				bs, err := root.loadSpec()
				if err != nil {
					return err
				}
				if o.historyPath != "" {
					bs.History.Path = o.historyPath
				}

				store, err := history.Open(bs.History.Path)
				if err != nil {
					return err
				}
				defer store.Close()

				ref := latestRef
				if len(args) == 1 {
					ref = args[0]
				}
				run, err := resolveRun(cmd.Context(), store, ref)
				if err != nil {
					return err
				}

				if o.outDir != "" {
					bs.Output.Dir = o.outDir
					if _, err := writeArtifacts(run, bs.Output, nil); err != nil {
						return err
					}
				}

				var buf bytes.Buffer
				if err := report.WriteDocument(&buf, run); err != nil {
					return err
				}
				markdown = buf.Bytes()
			}

			out := cmd.OutOrStdout()
			if o.raw {
				_, err := out.Write(markdown)
				return err
			}

			rendered, err := report.RenderTerminal(string(markdown), o.width)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", "", "render this Markdown report instead of a stored run")
	f.BoolVar(&o.raw, "raw", false, "print plain Markdown")
	f.IntVar(&o.width, "width", report.DefaultWrapWidth, "word wrap width")
	f.StringVarP(&o.outDir, "out", "o", "", "also write the run's artifacts to this directory")
	f.StringVar(&o.historyPath, "history-path", "", "history database path")

	return cmd
}
