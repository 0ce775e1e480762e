package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/timing"
)

func sampleRun() *runner.Run {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &runner.Run{
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Rows: []runner.Row{
			{
				Dataset: dataset.Random, Size: 100, Algorithm: algo.Merge, Status: runner.StatusOK,
				Timing: &timing.Timing{
					Min: 1 * time.Millisecond, Median: 2 * time.Millisecond, Max: 4 * time.Millisecond,
					Samples: []time.Duration{1 * time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond},
				},
			},
			{Dataset: dataset.Random, Size: 10000, Algorithm: algo.Insertion, Status: runner.StatusSkipped},
		},
	}
}

func TestNewCollector(t *testing.T) {
	c := NewCollector()

	assert.NotNil(t, c.Cells)
	assert.NotNil(t, c.MedianSeconds)
	assert.NotNil(t, c.TrialSeconds)
	assert.NotNil(t, c.Registry())

	// a second collector must not collide with the first
	assert.NotPanics(t, func() { _ = NewCollector() })
}

func TestCollector_Replay(t *testing.T) {
	c := NewCollector()
	c.Replay(sampleRun())

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Cells.WithLabelValues("random", "merge_sort", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Cells.WithLabelValues("random", "insertion_sort", "skipped")))
	assert.InDelta(t, 0.002, testutil.ToFloat64(c.MedianSeconds.WithLabelValues("random", "100", "merge_sort")), 1e-12)
	assert.InDelta(t, 0.004, testutil.ToFloat64(c.MaxSeconds.WithLabelValues("random", "100", "merge_sort")), 1e-12)
	assert.Equal(t, 90.0, testutil.ToFloat64(c.RunDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(c.TrialSeconds))

	// skipped cells never get a timing series
	assert.Equal(t, 1, testutil.CollectAndCount(c.MedianSeconds))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.Replay(sampleRun())

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sortbench_median_seconds{algorithm="merge_sort",dataset="random",size="100"} 0.002`)
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector()
	c.Replay(sampleRun())

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sortbench_cells_total")
	assert.Contains(t, string(data), "sortbench_run_duration_seconds 90")

	err = c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "metrics.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics.prom")
}
