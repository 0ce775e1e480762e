package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/timing"
	pgtesting "github.com/DjordjeVuckovic/sortbench/pkg/testing"
)

func TestStorer_SaveRun(t *testing.T) {
	if os.Getenv("SORTBENCH_INTEGRATION") != "1" {
		t.Skip("set SORTBENCH_INTEGRATION=1 to run postgres integration tests")
	}

	ctx := context.Background()
	container := pgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := NewConnectionPool(ctx, PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)

	s, err := NewStorer(ctx, pool)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.True(t, NewHealthChecker(pool).Healthy(ctx))

	now := time.Now().UTC()
	run := &runner.Run{
		ID:         uuid.New(),
		StartedAt:  now,
		FinishedAt: now.Add(time.Second),
		Env:        runner.NewEnvironment(),
		Config:     runner.DefaultConfig(),
		Rows: []runner.Row{
			{
				Dataset: dataset.Random, Size: 100, Algorithm: algo.Merge, Status: runner.StatusOK,
				Params: timing.Params{Repeat: 5, Number: 3},
				Timing: &timing.Timing{Min: time.Millisecond, Median: 2 * time.Millisecond, Max: 3 * time.Millisecond},
			},
			{Dataset: dataset.Random, Size: 10000, Algorithm: algo.Insertion, Status: runner.StatusSkipped},
		},
	}
	require.NoError(t, s.SaveRun(ctx, run))

	var count, skipped int
	err = pool.GetConn().QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE median_s IS NULL) FROM bench_measurements WHERE run_id = $1`,
		run.ID).Scan(&count, &skipped)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, skipped)

	var median float64
	err = pool.GetConn().QueryRow(ctx,
		`SELECT median_s FROM bench_measurements WHERE run_id = $1 AND position = 0`, run.ID).Scan(&median)
	require.NoError(t, err)
	assert.InDelta(t, 0.002, median, 1e-12)
}
