package runner

import (
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/timing"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
)

// Row is one (dataset, size, algorithm) measurement. Skipped rows have a nil
// Timing and zero Params.
type Row struct {
	Dataset   dataset.Kind   `json:"dataset"`
	Size      int            `json:"size"`
	Algorithm algo.Name      `json:"algorithm"`
	Status    Status         `json:"status"`
	Params    timing.Params  `json:"params"`
	Timing    *timing.Timing `json:"timing,omitempty"`
}

func (r Row) OK() bool {
	return r.Status == StatusOK && r.Timing != nil
}

// Seconds returns min, median and max per-call cost in seconds; ok is false
// for rows without a measurement.
func (r Row) Seconds() (minS, medianS, maxS float64, ok bool) {
	if !r.OK() {
		return 0, 0, 0, false
	}
	return r.Timing.Min.Seconds(), r.Timing.Median.Seconds(), r.Timing.Max.Seconds(), true
}

func (r Row) MedianSeconds() (float64, bool) {
	_, med, _, ok := r.Seconds()
	return med, ok
}

type Environment struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironment() Environment {
	return Environment{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type Run struct {
	ID         uuid.UUID   `json:"id"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Env        Environment `json:"environment"`
	Config     Config      `json:"config"`
	Rows       []Row       `json:"rows"`
}

func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Counts returns how many rows were measured and how many were skipped.
func (r *Run) Counts() (ok, skipped int) {
	for _, row := range r.Rows {
		if row.OK() {
			ok++
		} else {
			skipped++
		}
	}
	return ok, skipped
}
