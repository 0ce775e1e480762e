package history

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/timing"
)

func okRow(ds dataset.Kind, size int, name algo.Name, median time.Duration) runner.Row {
	return runner.Row{
		Dataset:   ds,
		Size:      size,
		Algorithm: name,
		Status:    runner.StatusOK,
		Params:    timing.Params{Repeat: 5, Number: 3},
		Timing:    &timing.Timing{Min: median / 2, Median: median, Max: median * 2},
	}
}

func newRun(t *testing.T, started time.Time, rows ...runner.Row) *runner.Run {
	t.Helper()
	return &runner.Run{
		ID:         uuid.New(),
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Env:        runner.NewEnvironment(),
		Config:     runner.DefaultConfig(),
		Rows:       rows,
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	run := newRun(t, started,
		okRow(dataset.Random, 100, algo.Merge, 40*time.Microsecond),
		runner.Row{Dataset: dataset.Random, Size: 10000, Algorithm: algo.Insertion, Status: runner.StatusSkipped},
	)
	require.NoError(t, s.Save(ctx, run))

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, run.Env, got.Env)
	assert.Equal(t, run.Config.Settings, got.Config.Settings)
	assert.Equal(t, run.Rows, got.Rows)
}

func TestStore_KeepsSamplesAndStddev(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	row := okRow(dataset.Reversed, 300, algo.Reference, 0)
	tm := timing.NewTiming([]time.Duration{30 * time.Microsecond, 10 * time.Microsecond, 20 * time.Microsecond})
	row.Timing = &tm

	run := newRun(t, time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC), row)
	require.NoError(t, s.Save(ctx, run))

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	require.NotNil(t, got.Rows[0].Timing)
	assert.Equal(t, []time.Duration{30 * time.Microsecond, 10 * time.Microsecond, 20 * time.Microsecond}, got.Rows[0].Timing.Samples)
	assert.Equal(t, 10*time.Microsecond, got.Rows[0].Timing.Stddev)
	assert.Equal(t, tm, *got.Rows[0].Timing)
}

func TestOpen_AddsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`
CREATE TABLE runs (
	id TEXT PRIMARY KEY, started_at INTEGER NOT NULL, finished_at INTEGER NOT NULL,
	go_version TEXT NOT NULL, os TEXT NOT NULL, arch TEXT NOT NULL, num_cpu INTEGER NOT NULL, settings TEXT NOT NULL
);
CREATE TABLE measurements (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE, position INTEGER NOT NULL,
	dataset TEXT NOT NULL, size INTEGER NOT NULL, algorithm TEXT NOT NULL, status TEXT NOT NULL,
	repeat INTEGER NOT NULL, number INTEGER NOT NULL, warmup INTEGER NOT NULL, disable_gc INTEGER NOT NULL,
	min_ns INTEGER, median_ns INTEGER, max_ns INTEGER,
	PRIMARY KEY (run_id, position)
);`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	run := newRun(t, time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC), okRow(dataset.Sorted, 100, algo.Merge, time.Millisecond))
	require.NoError(t, s.Save(ctx, run))

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Rows, got.Rows)
}

func TestStore_GetUnknown(t *testing.T) {
	s := openStore(t)

	_, err := s.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = s.Latest(context.Background())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestStore_ListLatestPrevious(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	first := newRun(t, base, okRow(dataset.Sorted, 100, algo.Merge, time.Millisecond))
	second := newRun(t, base.Add(time.Hour),
		okRow(dataset.Sorted, 100, algo.Merge, time.Millisecond),
		runner.Row{Dataset: dataset.Random, Size: 10000, Algorithm: algo.Insertion, Status: runner.StatusSkipped},
	)
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	summaries, total, err := s.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, summaries, 2)
	assert.Equal(t, second.ID, summaries[0].ID)
	assert.Equal(t, 1, summaries[0].Measured)
	assert.Equal(t, 1, summaries[0].Skipped)
	assert.Equal(t, first.ID, summaries[1].ID)

	page, total, err := s.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	prev, err := s.Previous(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, prev.ID)

	_, err = s.Previous(ctx, first.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCompare(t *testing.T) {
	prev := []runner.Row{
		okRow(dataset.Random, 100, algo.Merge, 100*time.Microsecond),
		okRow(dataset.Random, 100, algo.Reference, 100*time.Microsecond),
		okRow(dataset.Random, 300, algo.Merge, 100*time.Microsecond),
	}
	curr := []runner.Row{
		okRow(dataset.Random, 100, algo.Merge, 125*time.Microsecond),
		okRow(dataset.Random, 100, algo.Reference, 105*time.Microsecond),
		{Dataset: dataset.Random, Size: 300, Algorithm: algo.Merge, Status: runner.StatusSkipped},
		okRow(dataset.Sorted, 100, algo.Merge, time.Millisecond),
	}

	deltas := Compare(prev, curr, DefaultRegressionThreshold)
	require.Len(t, deltas, 2)

	assert.Equal(t, algo.Merge, deltas[0].Algorithm)
	assert.InDelta(t, 25.0, deltas[0].ChangePct, 1e-9)
	assert.True(t, deltas[0].Regression)

	assert.Equal(t, algo.Reference, deltas[1].Algorithm)
	assert.InDelta(t, 5.0, deltas[1].ChangePct, 1e-9)
	assert.False(t, deltas[1].Regression)

	regressed := Regressions(deltas)
	require.Len(t, regressed, 1)
	assert.Equal(t, algo.Merge, regressed[0].Algorithm)
}
