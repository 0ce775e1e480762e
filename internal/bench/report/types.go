package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

const Version = "1"

// Report is the machine-readable form of a run.
type Report struct {
	Meta     Meta            `json:"meta"`
	Config   runner.Settings `json:"config"`
	Rows     []Entry         `json:"rows"`
	Findings []Finding       `json:"findings"`
}

type Meta struct {
	Version         string             `json:"version"`
	RunID           uuid.UUID          `json:"run_id"`
	StartedAt       time.Time          `json:"started_at"`
	FinishedAt      time.Time          `json:"finished_at"`
	DurationSeconds float64            `json:"duration_seconds"`
	Environment     runner.Environment `json:"environment"`
}

// Entry mirrors one CSV line; timings are null for skipped cells.
type Entry struct {
	Dataset   string   `json:"dataset"`
	Size      int      `json:"size"`
	Algorithm string   `json:"algorithm"`
	MinS      *float64 `json:"min_s"`
	MedianS   *float64 `json:"median_s"`
	MaxS      *float64 `json:"max_s"`
	StddevS   *float64 `json:"stddev_s"`
	Status    string   `json:"status"`
	Repeat    int      `json:"repeat,omitempty"`
	Number    int      `json:"number,omitempty"`
}

func Generate(run *runner.Run) *Report {
	r := &Report{
		Meta: Meta{
			Version:         Version,
			RunID:           run.ID,
			StartedAt:       run.StartedAt,
			FinishedAt:      run.FinishedAt,
			DurationSeconds: run.Duration().Seconds(),
			Environment:     run.Env,
		},
		Config:   run.Config.Settings,
		Rows:     make([]Entry, 0, len(run.Rows)),
		Findings: Compare(run.Rows, run.Config),
	}

	for _, row := range run.Rows {
		e := Entry{
			Dataset:   string(row.Dataset),
			Size:      row.Size,
			Algorithm: string(row.Algorithm),
			Status:    string(row.Status),
		}
		if minS, medS, maxS, ok := row.Seconds(); ok {
			stddevS := row.Timing.Stddev.Seconds()
			e.MinS, e.MedianS, e.MaxS, e.StddevS = &minS, &medS, &maxS, &stddevS
			e.Repeat, e.Number = row.Params.Repeat, row.Params.Number
		}
		r.Rows = append(r.Rows, e)
	}

	return r
}
