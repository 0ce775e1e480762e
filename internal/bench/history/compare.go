package history

import (
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/sortbench/pkg/utils"
)

const DefaultRegressionThreshold = 10.0

// Delta is the change of one cell's median between two runs.
type Delta struct {
	Dataset    dataset.Kind `json:"dataset"`
	Size       int          `json:"size"`
	Algorithm  algo.Name    `json:"algorithm"`
	PrevMedian float64      `json:"prev_median_s"`
	CurrMedian float64      `json:"curr_median_s"`
	ChangePct  float64      `json:"change_pct"`
	Regression bool         `json:"regression"`
}

// Compare matches cells measured in both runs and reports the change of
// their medians in curr order. A cell regressed when its median grew by
// more than thresholdPct percent.
func Compare(prev, curr []runner.Row, thresholdPct float64) []Delta {
	type key struct {
		ds   dataset.Kind
		size int
		name algo.Name
	}

	before := make(map[key]float64, len(prev))
	for _, row := range prev {
		if m, ok := row.MedianSeconds(); ok {
			before[key{row.Dataset, row.Size, row.Algorithm}] = m
		}
	}

	var deltas []Delta
	for _, row := range curr {
		m, ok := row.MedianSeconds()
		if !ok {
			continue
		}
		p, ok := before[key{row.Dataset, row.Size, row.Algorithm}]
		if !ok {
			continue
		}
		change := utils.RoundDecimal(utils.PercentChange(p, m), 2)
		deltas = append(deltas, Delta{
			Dataset:    row.Dataset,
			Size:       row.Size,
			Algorithm:  row.Algorithm,
			PrevMedian: p,
			CurrMedian: m,
			ChangePct:  change,
			Regression: change > thresholdPct,
		})
	}
	return deltas
}

// Regressions filters deltas down to the regressed cells.
func Regressions(deltas []Delta) []Delta {
	var out []Delta
	for _, d := range deltas {
		if d.Regression {
			out = append(out, d)
		}
	}
	return out
}
