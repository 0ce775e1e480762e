package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/timing"
)

var ErrUnsortedOutput = errors.New("algorithm returned unsorted output")

// Observer is notified of every row in the order rows are produced.
type Observer interface {
	ObserveRow(Row)
}

type ObserverFunc func(Row)

func (f ObserverFunc) ObserveRow(r Row) { f(r) }

type Runner struct {
	config    Config
	harness   *timing.Harness
	observers []Observer
	now       func() time.Time
}

type Option func(*Runner)

func WithHarness(h *timing.Harness) Option {
	return func(r *Runner) {
		r.harness = h
	}
}

func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, o)
	}
}

func New(cfg Config, opts ...Option) *Runner {
	r := &Runner{
		config:  cfg,
		harness: timing.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run measures every dataset × size × algorithm cell in config order. Each
// dataset is generated once per size and shared read-only by the algorithms.
func (r *Runner) Run(ctx context.Context) (*Run, error) {
	cfg := r.config
	run := &Run{
		ID:        uuid.New(),
		StartedAt: r.now(),
		Env:       NewEnvironment(),
		Config:    cfg,
		Rows:      make([]Row, 0, cfg.Cells()),
	}

	slog.Info("benchmark started", "run_id", run.ID, "cells", cfg.Cells(), "seed", cfg.Seed)

	for _, ds := range cfg.ResolvedDatasets() {
		for _, size := range cfg.Sizes {
			data := ds.Generate(size, cfg.Seed)
			params := cfg.ParamsFor(ds.Kind, size)

			for _, a := range cfg.ResolvedAlgorithms() {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("benchmark interrupted: %w", err)
				}

				row, err := r.measure(a, ds.Kind, size, data, params)
				if err != nil {
					return nil, err
				}
				run.Rows = append(run.Rows, row)
				r.notify(row)
			}
		}
		slog.Info("dataset done", "dataset", ds.Kind)
	}

	run.FinishedAt = r.now()
	ok, skipped := run.Counts()
	slog.Info("benchmark finished", "run_id", run.ID, "measured", ok, "skipped", skipped, "duration", run.Duration())

	return run, nil
}

func (r *Runner) measure(a algo.Algorithm, ds dataset.Kind, size int, data []int, params timing.Params) (Row, error) {
	row := Row{Dataset: ds, Size: size, Algorithm: a.Name}

	if _, skip := r.config.Skipped(a.Name, ds, size); skip {
		row.Status = StatusSkipped
		slog.Debug("cell skipped", "dataset", ds, "size", size, "algorithm", a.Name)
		return row, nil
	}

	if r.config.VerifyOutput {
		if out := a.Sort(data); len(out) != len(data) || !algo.IsSorted(out) {
			return Row{}, fmt.Errorf("%s on %s n=%d: %w", a.Name, ds, size, ErrUnsortedOutput)
		}
	}

	t, err := r.harness.Time(a.Sort, data, params)
	if err != nil {
		return Row{}, fmt.Errorf("time %s on %s n=%d: %w", a.Name, ds, size, err)
	}

	row.Status = StatusOK
	row.Params = params
	row.Timing = &t
	slog.Debug("cell measured", "dataset", ds, "size", size, "algorithm", a.Name, "median", t.Median)
	return row, nil
}

func (r *Runner) notify(row Row) {
	for _, o := range r.observers {
		o.ObserveRow(row)
	}
}
