package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

var csvHeader = []string{"dataset", "size", "algorithm", "min_s", "median_s", "max_s", "status"}

// WriteCSV writes rows in the order given. Timings use six decimals and are
// empty for skipped rows.
func WriteCSV(w io.Writer, rows []runner.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{string(row.Dataset), strconv.Itoa(row.Size), string(row.Algorithm), "", "", "", string(row.Status)}
		if minS, medS, maxS, ok := row.Seconds(); ok {
			rec[3], rec[4], rec[5] = fmtSeconds(minS), fmtSeconds(medS), fmtSeconds(maxS)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func SaveCSV(path string, rows []runner.Row) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		return WriteCSV(w, rows)
	})
	if err != nil {
		return fmt.Errorf("write results csv %q: %w", path, err)
	}
	return nil
}

func fmtSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 6, 64)
}
