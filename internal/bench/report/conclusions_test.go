package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

func TestCompare_SkippedRowsProduceNoFinding(t *testing.T) {
	rows := []runner.Row{
		okRow(dataset.Random, 3000, algo.Insertion, 10, 10, 10),
		okRow(dataset.Random, 3000, algo.Merge, 1, 1, 1),
		skippedRow(dataset.Random, 10000, algo.Insertion),
		okRow(dataset.Random, 10000, algo.Merge, 4, 4, 4),
		okRow(dataset.Random, 10000, algo.Reference, 2, 2, 2),
	}

	findings := Compare(rows, runner.DefaultConfig())

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, dataset.Random, f.Dataset)
	assert.Equal(t, 10000, f.Size)
	assert.Equal(t, algo.Reference, f.Faster)
	assert.Equal(t, algo.Merge, f.Slower)
	assert.InDelta(t, 2.0, f.Ratio, 1e-9)

	text := Conclusions(rows, runner.DefaultConfig())
	assert.NotContains(t, text, "insertion_sort")
	assert.NotContains(t, text, "O(n²)")
}

func TestConclusions_ReportsMeasuredDirection(t *testing.T) {
	// merge beats reference here, so no nearly-sorted remark may appear
	rows := []runner.Row{
		okRow(dataset.NearlySorted, 1000, algo.Insertion, 3, 3, 3),
		okRow(dataset.NearlySorted, 1000, algo.Merge, 1, 1, 1),
		okRow(dataset.NearlySorted, 1000, algo.Reference, 2, 2, 2),
	}

	text := Conclusions(rows, runner.DefaultConfig())

	assert.Contains(t, text, "**merge_sort** is 3.00× faster than **insertion_sort**")
	assert.Contains(t, text, "**merge_sort** is 2.00× faster than **reference_sort**")
	assert.Contains(t, text, "**reference_sort** is 1.50× faster than **insertion_sort**")
	assert.NotContains(t, text, "natural runs")
	assert.NotContains(t, text, "**Conclusion:**")
}

func TestConclusions_RemarksNeedSupportingDirection(t *testing.T) {
	rows := []runner.Row{
		okRow(dataset.NearlySorted, 1000, algo.Merge, 5, 5, 5),
		okRow(dataset.NearlySorted, 1000, algo.Reference, 1, 1, 1),
		okRow(dataset.Sorted, 1000, algo.Merge, 5, 5, 5),
		okRow(dataset.Sorted, 1000, algo.Reference, 1, 1, 1),
	}

	text := Conclusions(rows, runner.DefaultConfig())

	assert.Contains(t, text, "natural runs")
	assert.Contains(t, text, "one long run")
	assert.Contains(t, text, "**Conclusion:** the reference sort was the fastest algorithm in 2 of 2 dataset categories.")
}

func TestConclusions_UsesLargestSizeOnly(t *testing.T) {
	rows := []runner.Row{
		okRow(dataset.Sorted, 100, algo.Merge, 1, 1, 1),
		okRow(dataset.Sorted, 100, algo.Reference, 9, 9, 9),
		okRow(dataset.Sorted, 1000, algo.Merge, 9, 9, 9),
		okRow(dataset.Sorted, 1000, algo.Reference, 1, 1, 1),
	}

	findings := Compare(rows, runner.DefaultConfig())

	require.Len(t, findings, 1)
	assert.Equal(t, 1000, findings[0].Size)
	assert.Equal(t, algo.Reference, findings[0].Faster)
}

func TestConclusions_Tie(t *testing.T) {
	rows := []runner.Row{
		okRow(dataset.ManyDups, 100, algo.Merge, 1, 1, 1),
		okRow(dataset.ManyDups, 100, algo.Reference, 1, 1, 1),
	}

	text := Conclusions(rows, runner.DefaultConfig())

	assert.Contains(t, text, "have equal medians")
	assert.NotContains(t, text, "galloping merges.")
}

func TestConclusions_ClosingNeedsMajority(t *testing.T) {
	rows := []runner.Row{
		okRow(dataset.Random, 100, algo.Merge, 1, 1, 1),
		okRow(dataset.Random, 100, algo.Reference, 2, 2, 2),
		okRow(dataset.Sorted, 100, algo.Merge, 2, 2, 2),
		okRow(dataset.Sorted, 100, algo.Reference, 1, 1, 1),
	}

	text := Conclusions(rows, runner.DefaultConfig())
	assert.NotContains(t, text, "**Conclusion:**")
}

func TestConclusions_NoData(t *testing.T) {
	text := Conclusions([]runner.Row{skippedRow(dataset.Random, 100, algo.Insertion)}, runner.DefaultConfig())
	assert.True(t, strings.HasPrefix(text, "- Not enough measured data"))
}

func TestConclusions_OnlyConfiguredPairs(t *testing.T) {
	s := runner.DefaultSettings()
	s.Comparisons = []runner.Comparison{{A: algo.Insertion, B: algo.Merge}}
	cfg, err := runner.NewConfig(s)
	require.NoError(t, err)

	rows := []runner.Row{
		okRow(dataset.Random, 100, algo.Insertion, 1, 1, 1),
		okRow(dataset.Random, 100, algo.Merge, 2, 2, 2),
		okRow(dataset.Random, 100, algo.Reference, 3, 3, 3),
	}

	findings := Compare(rows, cfg)
	require.Len(t, findings, 1)
	assert.Equal(t, algo.Insertion, findings[0].Faster)
}
