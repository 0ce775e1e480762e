package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

const schema = `
CREATE TABLE IF NOT EXISTS bench_runs (
    id          UUID PRIMARY KEY,
    started_at  TIMESTAMPTZ NOT NULL,
    finished_at TIMESTAMPTZ NOT NULL,
    go_version  TEXT NOT NULL,
    os          TEXT NOT NULL,
    arch        TEXT NOT NULL,
    num_cpu     INTEGER NOT NULL,
    settings    JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS bench_measurements (
    run_id    UUID NOT NULL REFERENCES bench_runs (id) ON DELETE CASCADE,
    position  INTEGER NOT NULL,
    dataset   TEXT NOT NULL,
    size      INTEGER NOT NULL,
    algorithm TEXT NOT NULL,
    status    TEXT NOT NULL,
    repeat    INTEGER NOT NULL,
    number    INTEGER NOT NULL,
    min_s     DOUBLE PRECISION,
    median_s  DOUBLE PRECISION,
    max_s     DOUBLE PRECISION,
    PRIMARY KEY (run_id, position)
);
`

var measurementColumns = []string{
	"run_id", "position", "dataset", "size", "algorithm", "status",
	"repeat", "number", "min_s", "median_s", "max_s",
}

type Storer struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

// NewStorer creates the tables on first use.
func NewStorer(ctx context.Context, pool *ConnectionPool) (*Storer, error) {
	s := &Storer{pool: pool, db: pool.conn}
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storer) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveRun inserts the run and bulk copies its rows in one transaction.
func (s *Storer) SaveRun(ctx context.Context, run *runner.Run) error {
	settingsJSON, err := json.Marshal(run.Config.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmd := `
        INSERT INTO bench_runs (id, started_at, finished_at, go_version, os, arch, num_cpu, settings)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err = tx.Exec(ctx, cmd,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.Env.GoVersion,
		run.Env.OS,
		run.Env.Arch,
		run.Env.NumCPU,
		settingsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	rows := make([][]any, len(run.Rows))
	for i, r := range run.Rows {
		var minS, medS, maxS *float64
		if lo, med, hi, ok := r.Seconds(); ok {
			minS, medS, maxS = &lo, &med, &hi
		}
		rows[i] = []any{
			run.ID,
			i,
			string(r.Dataset),
			r.Size,
			string(r.Algorithm),
			string(r.Status),
			r.Params.Repeat,
			r.Params.Number,
			minS,
			medS,
			maxS,
		}
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"bench_measurements"}, measurementColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to bulk insert measurements: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}

	slog.Info("run stored in postgres", "id", run.ID, "measurements", copied)
	return nil
}

func (s *Storer) Close() error {
	s.pool.Close()
	return nil
}
