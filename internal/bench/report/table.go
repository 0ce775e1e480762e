package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

const placeholder = "–"

// sortedForDisplay orders rows by dataset name, then size, then algorithm.
func sortedForDisplay(rows []runner.Row) []runner.Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b runner.Row) int {
		return cmp.Or(
			cmp.Compare(a.Dataset, b.Dataset),
			cmp.Compare(a.Size, b.Size),
			cmp.Compare(a.Algorithm, b.Algorithm),
		)
	})
	return out
}

// MarkdownTable renders rows grouped by (dataset, size). Skipped rows keep
// their place with placeholder timings.
func MarkdownTable(rows []runner.Row) string {
	var b strings.Builder
	b.WriteString("| Dataset | N | Algorithm | min (s) | median (s) | max (s) |\n")
	b.WriteString("|---|---:|---|---:|---:|---:|")
	for _, row := range sortedForDisplay(rows) {
		minS, medS, maxS, ok := row.Seconds()
		if !ok {
			fmt.Fprintf(&b, "\n| %s | %d | %s |  %s  |  %s  |  %s  |",
				row.Dataset, row.Size, row.Algorithm, placeholder, placeholder, placeholder)
			continue
		}
		fmt.Fprintf(&b, "\n| %s | %d | %s | %s | %s | %s |",
			row.Dataset, row.Size, row.Algorithm, fmtSeconds(minS), fmtSeconds(medS), fmtSeconds(maxS))
	}
	return b.String()
}

// WriteTable prints an aligned console table of the run.
func WriteTable(run *runner.Run, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	ok, skipped := run.Counts()
	fmt.Fprintf(tw, "\n=== Sorting Benchmark %s ===\n", run.ID)
	fmt.Fprintf(tw, "%d measured, %d skipped, took %s\n\n", ok, skipped, run.Duration().Round(time.Millisecond))

	header := []string{"Dataset", "N", "Algorithm", "min", "median", "max", "repeat×number", "Status"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, row := range sortedForDisplay(run.Rows) {
		cells := []string{string(row.Dataset), fmt.Sprintf("%d", row.Size), string(row.Algorithm)}
		if row.OK() {
			cells = append(cells,
				fmtDuration(row.Timing.Min),
				fmtDuration(row.Timing.Median),
				fmtDuration(row.Timing.Max),
				fmt.Sprintf("%d×%d", row.Params.Repeat, row.Params.Number),
			)
		} else {
			cells = append(cells, "-", "-", "-", "-")
		}
		cells = append(cells, strings.ToUpper(string(row.Status)))
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	fmt.Fprintln(tw)
	tw.Flush()
}
