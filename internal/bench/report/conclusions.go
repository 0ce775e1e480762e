package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

// Finding is the measured outcome of one configured algorithm pair on one
// dataset at its largest tested size.
type Finding struct {
	Dataset      dataset.Kind `json:"dataset"`
	Size         int          `json:"size"`
	Faster       algo.Name    `json:"faster"`
	Slower       algo.Name    `json:"slower"`
	FasterMedian float64      `json:"faster_median_s"`
	SlowerMedian float64      `json:"slower_median_s"`
	// Ratio is SlowerMedian/FasterMedian, zero when the faster median is zero.
	Ratio float64 `json:"ratio"`
	Tie   bool    `json:"tie"`
}

type remark struct {
	dataset dataset.Kind
	faster  algo.Name
	slower  algo.Name
	text    string
}

// remarks explain a finding; each is only emitted when the measured
// direction matches.
var remarks = []remark{
	{
		dataset: dataset.Random, faster: algo.Merge, slower: algo.Insertion,
		text: "On random input merge sort's O(n log n) beats the O(n²) of insertion sort, as theory predicts.",
	},
	{
		dataset: dataset.Random, faster: algo.Reference, slower: algo.Insertion,
		text: "On random input the reference sort leaves quadratic insertion sort far behind.",
	},
	{
		dataset: dataset.NearlySorted, faster: algo.Reference, slower: algo.Merge,
		text: "On nearly sorted data the reference sort beats merge sort by reusing the natural runs already in the input, staying close to O(n).",
	},
	{
		dataset: dataset.NearlySorted, faster: algo.Insertion, slower: algo.Merge,
		text: "Insertion sort only shifts the few displaced elements of nearly sorted data, which is why it overtakes merge sort here.",
	},
	{
		dataset: dataset.Sorted, faster: algo.Reference, slower: algo.Merge,
		text: "Already sorted data is one long run for the reference sort, so a single linear pass suffices.",
	},
	{
		dataset: dataset.Sorted, faster: algo.Insertion, slower: algo.Merge,
		text: "Insertion sort is linear on sorted input and overtakes merge sort, which still splits and merges everything.",
	},
	{
		dataset: dataset.Reversed, faster: algo.Reference, slower: algo.Merge,
		text: "Reversed data is a single descending run that the reference sort flips in linear time.",
	},
	{
		dataset: dataset.ManyDups, faster: algo.Reference, slower: algo.Merge,
		text: "With many duplicates the reference sort profits from equal-key runs and galloping merges.",
	},
}

// Compare evaluates every configured pair at each dataset's largest tested
// size. Pairs where either side was skipped or not run produce no finding.
func Compare(rows []runner.Row, cfg runner.Config) []Finding {
	medians := medianIndex(rows)

	var findings []Finding
	for _, ds := range datasetOrder(rows, cfg) {
		size, ok := largestSize(rows, ds)
		if !ok {
			continue
		}
		for _, pair := range cfg.Comparisons {
			a, okA := medians[cellKey{ds, size, pair.A}]
			b, okB := medians[cellKey{ds, size, pair.B}]
			if !okA || !okB {
				continue
			}
			findings = append(findings, newFinding(ds, size, pair.A, a, pair.B, b))
		}
	}
	return findings
}

func newFinding(ds dataset.Kind, size int, nameA algo.Name, a float64, nameB algo.Name, b float64) Finding {
	f := Finding{Dataset: ds, Size: size}
	switch {
	case a == b:
		f.Faster, f.Slower, f.FasterMedian, f.SlowerMedian, f.Tie = nameA, nameB, a, b, true
	case a < b:
		f.Faster, f.Slower, f.FasterMedian, f.SlowerMedian = nameA, nameB, a, b
	default:
		f.Faster, f.Slower, f.FasterMedian, f.SlowerMedian = nameB, nameA, b, a
	}
	if f.FasterMedian > 0 {
		f.Ratio = f.SlowerMedian / f.FasterMedian
	}
	return f
}

// Conclusions renders the findings as Markdown bullets. Every claim in the
// text is backed by the measured medians in rows.
func Conclusions(rows []runner.Row, cfg runner.Config) string {
	findings := Compare(rows, cfg)
	if len(findings) == 0 {
		return "- Not enough measured data to compare the configured algorithm pairs."
	}

	var lines []string
	for i, f := range findings {
		lines = append(lines, "- "+statement(f))
		last := i == len(findings)-1 || findings[i+1].Dataset != f.Dataset
		if last {
			for _, text := range remarksFor(findings, f.Dataset) {
				lines = append(lines, "  - "+text)
			}
		}
	}

	if closing, ok := closingRemark(rows, cfg); ok {
		lines = append(lines, "", closing)
	}
	return strings.Join(lines, "\n")
}

func statement(f Finding) string {
	prefix := fmt.Sprintf("`%s` (n=%d): ", f.Dataset, f.Size)
	switch {
	case f.Tie:
		return prefix + fmt.Sprintf("**%s** and **%s** have equal medians (%s s).",
			f.Faster, f.Slower, fmtSeconds(f.FasterMedian))
	case f.Ratio == 0:
		return prefix + fmt.Sprintf("**%s** is faster than **%s** (median %s s vs %s s).",
			f.Faster, f.Slower, fmtSeconds(f.FasterMedian), fmtSeconds(f.SlowerMedian))
	default:
		return prefix + fmt.Sprintf("**%s** is %.2f× faster than **%s** (median %s s vs %s s).",
			f.Faster, f.Ratio, f.Slower, fmtSeconds(f.FasterMedian), fmtSeconds(f.SlowerMedian))
	}
}

func remarksFor(findings []Finding, ds dataset.Kind) []string {
	var out []string
	for _, r := range remarks {
		if r.dataset != ds {
			continue
		}
		supported := slices.ContainsFunc(findings, func(f Finding) bool {
			return f.Dataset == ds && !f.Tie && f.Faster == r.faster && f.Slower == r.slower
		})
		if supported {
			out = append(out, r.text)
		}
	}
	return out
}

// closingRemark is emitted only when the reference sort had the lowest
// median in most dataset categories with at least two measured algorithms.
func closingRemark(rows []runner.Row, cfg runner.Config) (string, bool) {
	medians := medianIndex(rows)

	categories, wins := 0, 0
	for _, ds := range datasetOrder(rows, cfg) {
		size, ok := largestSize(rows, ds)
		if !ok {
			continue
		}
		var best algo.Name
		bestMedian, measured := 0.0, 0
		for _, row := range rows {
			if row.Dataset != ds || row.Size != size {
				continue
			}
			m, ok := medians[cellKey{ds, size, row.Algorithm}]
			if !ok {
				continue
			}
			if measured == 0 || m < bestMedian {
				best, bestMedian = row.Algorithm, m
			}
			measured++
		}
		if measured < 2 {
			continue
		}
		categories++
		if best == algo.Reference {
			wins++
		}
	}

	if categories == 0 || 2*wins <= categories {
		return "", false
	}
	return fmt.Sprintf("**Conclusion:** the reference sort was the fastest algorithm in %d of %d dataset categories. "+
		"Run detection and galloping merges make an adaptive library sort the practical default, "+
		"so hand-written classic sorts rarely pay off.", wins, categories), true
}

type cellKey struct {
	dataset   dataset.Kind
	size      int
	algorithm algo.Name
}

func medianIndex(rows []runner.Row) map[cellKey]float64 {
	out := make(map[cellKey]float64, len(rows))
	for _, row := range rows {
		if m, ok := row.MedianSeconds(); ok {
			out[cellKey{row.Dataset, row.Size, row.Algorithm}] = m
		}
	}
	return out
}

func largestSize(rows []runner.Row, ds dataset.Kind) (int, bool) {
	size, found := 0, false
	for _, row := range rows {
		if row.Dataset == ds && (!found || row.Size > size) {
			size, found = row.Size, true
		}
	}
	return size, found
}

// datasetOrder follows the config, then appends datasets only seen in rows.
func datasetOrder(rows []runner.Row, cfg runner.Config) []dataset.Kind {
	order := slices.Clone(cfg.Datasets)
	for _, row := range rows {
		if !slices.Contains(order, row.Dataset) {
			order = append(order, row.Dataset)
		}
	}
	return order
}
