// Package history keeps past benchmark runs in a local SQLite database so
// runs can be listed and compared with each other.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/timing"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	go_version  TEXT NOT NULL,
	os          TEXT NOT NULL,
	arch        TEXT NOT NULL,
	num_cpu     INTEGER NOT NULL,
	settings    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS measurements (
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	dataset   TEXT NOT NULL,
	size      INTEGER NOT NULL,
	algorithm TEXT NOT NULL,
	status    TEXT NOT NULL,
	repeat    INTEGER NOT NULL,
	number    INTEGER NOT NULL,
	warmup    INTEGER NOT NULL,
	disable_gc INTEGER NOT NULL,
	min_ns    INTEGER,
	median_ns INTEGER,
	max_ns    INTEGER,
	stddev_ns INTEGER,
	samples_ns TEXT,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// columns added after the first release, created on databases that lack them
var addedColumns = []struct{ table, name, decl string }{
	{"measurements", "stddev_ns", "INTEGER"},
	{"measurements", "samples_ns", "TEXT"},
}

// Summary describes a stored run without its rows.
type Summary struct {
	ID         uuid.UUID          `json:"id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Env        runner.Environment `json:"environment"`
	Measured   int                `json:"measured"`
	Skipped    int                `json:"skipped"`
}

type Store struct {
	db *sql.DB
}

// Open creates the database file and its parent directory when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %q: %w", path, err)
	}
	// one writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history db %q: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	for _, c := range addedColumns {
		var n int
		err := s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, c.table, c.name).Scan(&n)
		if err != nil {
			return fmt.Errorf("inspect %s.%s: %w", c.table, c.name, err)
		}
		if n > 0 {
			continue
		}
		if _, err := s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.name, c.decl)); err != nil {
			return fmt.Errorf("add column %s.%s: %w", c.table, c.name, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, run *runner.Run) error {
	settings, err := json.Marshal(run.Config.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, go_version, os, arch, num_cpu, settings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
		run.Env.GoVersion, run.Env.OS, run.Env.Arch, run.Env.NumCPU, string(settings),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO measurements (run_id, position, dataset, size, algorithm, status, repeat, number, warmup, disable_gc,
		                           min_ns, median_ns, max_ns, stddev_ns, samples_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare measurement insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range run.Rows {
		var (
			minNs, medNs, maxNs, sdNs sql.NullInt64
			samples                   sql.NullString
		)
		if row.OK() {
			minNs = sql.NullInt64{Int64: int64(row.Timing.Min), Valid: true}
			medNs = sql.NullInt64{Int64: int64(row.Timing.Median), Valid: true}
			maxNs = sql.NullInt64{Int64: int64(row.Timing.Max), Valid: true}
			sdNs = sql.NullInt64{Int64: int64(row.Timing.Stddev), Valid: true}
			if samples, err = encodeSamples(row.Timing.Samples); err != nil {
				return fmt.Errorf("encode samples of measurement %d: %w", i, err)
			}
		}
		_, err := stmt.ExecContext(ctx,
			run.ID.String(), i, string(row.Dataset), row.Size, string(row.Algorithm), string(row.Status),
			row.Params.Repeat, row.Params.Number, row.Params.Warmup, row.Params.DisableGC,
			minNs, medNs, maxNs, sdNs, samples,
		)
		if err != nil {
			return fmt.Errorf("insert measurement %d of run %s: %w", i, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

const summarySelect = `
SELECT r.id, r.started_at, r.finished_at, r.go_version, r.os, r.arch, r.num_cpu,
       COALESCE(SUM(CASE WHEN m.status = 'ok' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN m.status = 'skipped' THEN 1 ELSE 0 END), 0)
FROM runs r
LEFT JOIN measurements m ON m.run_id = r.id
GROUP BY r.id
ORDER BY r.started_at DESC, r.rowid DESC
LIMIT ? OFFSET ?`

// List returns run summaries, newest first, and the total number of runs.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Summary, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, summarySelect, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0, limit)
	for rows.Next() {
		var (
			sum               Summary
			id                string
			started, finished int64
		)
		err := rows.Scan(&id, &started, &finished,
			&sum.Env.GoVersion, &sum.Env.OS, &sum.Env.Arch, &sum.Env.NumCPU,
			&sum.Measured, &sum.Skipped)
		if err != nil {
			return nil, 0, fmt.Errorf("scan run summary: %w", err)
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, 0, fmt.Errorf("parse run id %q: %w", id, err)
		}
		sum.StartedAt = time.Unix(0, started).UTC()
		sum.FinishedAt = time.Unix(0, finished).UTC()
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}
	return summaries, total, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*runner.Run, error) {
	return s.loadRun(ctx, "SELECT id, started_at, finished_at, go_version, os, arch, num_cpu, settings FROM runs WHERE id = ?", id.String())
}

func (s *Store) Latest(ctx context.Context) (*runner.Run, error) {
	return s.loadRun(ctx, `SELECT id, started_at, finished_at, go_version, os, arch, num_cpu, settings
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)
}

// Previous returns the run that started most recently before run id.
func (s *Store) Previous(ctx context.Context, id uuid.UUID) (*runner.Run, error) {
	return s.loadRun(ctx, `SELECT id, started_at, finished_at, go_version, os, arch, num_cpu, settings
		FROM runs
		WHERE started_at < (SELECT started_at FROM runs WHERE id = ?)
		ORDER BY started_at DESC, rowid DESC LIMIT 1`, id.String())
}

func (s *Store) loadRun(ctx context.Context, query string, args ...any) (*runner.Run, error) {
	var (
		run               runner.Run
		id, settingsJSON  string
		started, finished int64
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&id, &started, &finished,
		&run.Env.GoVersion, &run.Env.OS, &run.Env.Arch, &run.Env.NumCPU, &settingsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", id, err)
	}
	run.StartedAt = time.Unix(0, started).UTC()
	run.FinishedAt = time.Unix(0, finished).UTC()

	var settings runner.Settings
	if err := json.Unmarshal([]byte(settingsJSON), &settings); err != nil {
		return nil, fmt.Errorf("decode settings of run %s: %w", id, err)
	}
	if run.Config, err = runner.NewConfig(settings); err != nil {
		return nil, fmt.Errorf("resolve settings of run %s: %w", id, err)
	}

	if run.Rows, err = s.loadRows(ctx, id); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *Store) loadRows(ctx context.Context, runID string) ([]runner.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dataset, size, algorithm, status, repeat, number, warmup, disable_gc,
		        min_ns, median_ns, max_ns, stddev_ns, samples_ns
		 FROM measurements WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("load measurements of run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []runner.Row
	for rows.Next() {
		var (
			row                       runner.Row
			ds, name, status          string
			minNs, medNs, maxNs, sdNs sql.NullInt64
			samples                   sql.NullString
		)
		err := rows.Scan(&ds, &row.Size, &name, &status,
			&row.Params.Repeat, &row.Params.Number, &row.Params.Warmup, &row.Params.DisableGC,
			&minNs, &medNs, &maxNs, &sdNs, &samples)
		if err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		row.Dataset = dataset.Kind(ds)
		row.Algorithm = algo.Name(name)
		row.Status = runner.Status(status)
		if medNs.Valid {
			row.Timing = &timing.Timing{
				Min:    time.Duration(minNs.Int64),
				Median: time.Duration(medNs.Int64),
				Max:    time.Duration(maxNs.Int64),
				Stddev: time.Duration(sdNs.Int64),
			}
			if row.Timing.Samples, err = decodeSamples(samples); err != nil {
				return nil, fmt.Errorf("decode samples of run %s: %w", runID, err)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load measurements of run %s: %w", runID, err)
	}
	return out, nil
}

// samples are stored as a JSON array of nanoseconds
func encodeSamples(samples []time.Duration) (sql.NullString, error) {
	if len(samples) == 0 {
		return sql.NullString{}, nil
	}
	ns := make([]int64, len(samples))
	for i, d := range samples {
		ns[i] = int64(d)
	}
	data, err := json.Marshal(ns)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeSamples(s sql.NullString) ([]time.Duration, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var ns []int64
	if err := json.Unmarshal([]byte(s.String), &ns); err != nil {
		return nil, err
	}
	out := make([]time.Duration, len(ns))
	for i, v := range ns {
		out[i] = time.Duration(v)
	}
	return out, nil
}

// Healthy reports whether the database still answers.
func (s *Store) Healthy(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}
