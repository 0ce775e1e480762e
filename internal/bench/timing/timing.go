// Package timing measures how long a sort takes on a dataset.
//
// A measurement is Repeat trials. Each trial makes Number consecutive calls,
// every call on its own copy of the data, and records the trial's total wall
// time divided by Number. The result is the min, median and max of those
// per-call costs.
package timing

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
)

const (
	DefaultRepeat = 5
	DefaultNumber = 3
	DefaultWarmup = 0
)

type Params struct {
	Repeat    int  `json:"repeat" yaml:"repeat"`
	Number    int  `json:"number" yaml:"number"`
	Warmup    int  `json:"warmup" yaml:"warmup"`
	DisableGC bool `json:"disable_gc" yaml:"disable_gc"`
}

func DefaultParams() Params {
	return Params{
		Repeat:    DefaultRepeat,
		Number:    DefaultNumber,
		Warmup:    DefaultWarmup,
		DisableGC: true,
	}
}

func (p Params) Validate() error {
	if p.Repeat < 1 {
		return apperr.NewFieldValidation("repeat", "must be at least 1")
	}
	if p.Number < 1 {
		return apperr.NewFieldValidation("number", "must be at least 1")
	}
	if p.Warmup < 0 {
		return apperr.NewFieldValidation("warmup", "must not be negative")
	}
	return nil
}

// Timing holds per-call costs. Samples keeps one entry per trial in trial order.
type Timing struct {
	Min     time.Duration   `json:"min"`
	Median  time.Duration   `json:"median"`
	Max     time.Duration   `json:"max"`
	Stddev  time.Duration   `json:"stddev"`
	Samples []time.Duration `json:"samples,omitempty"`
}

// NewTiming summarises trial samples.
func NewTiming(samples []time.Duration) Timing {
	stats := ComputeStats(samples)
	return Timing{
		Min:     stats.Min,
		Median:  stats.Median,
		Max:     stats.Max,
		Stddev:  stats.Stddev,
		Samples: samples,
	}
}

// Clock must be monotonic; time.Now readings are.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Harness struct {
	clock Clock
}

type Option func(*Harness)

func WithClock(c Clock) Option {
	return func(h *Harness) {
		h.clock = c
	}
}

func New(opts ...Option) *Harness {
	h := &Harness{clock: systemClock{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Time measures fn on data with the system clock.
func Time(fn algo.Func, data []int, p Params) (Timing, error) {
	return New().Time(fn, data, p)
}

// Time never hands data itself to fn.
func (h *Harness) Time(fn algo.Func, data []int, p Params) (Timing, error) {
	if err := p.Validate(); err != nil {
		return Timing{}, err
	}

	buf := make([]int, len(data))
	for range p.Warmup {
		copy(buf, data)
		_ = fn(buf)
	}

	if p.DisableGC {
		prev := debug.SetGCPercent(-1)
		defer debug.SetGCPercent(prev)
	}

	samples := make([]time.Duration, 0, p.Repeat)
	for range p.Repeat {
		if p.DisableGC {
			runtime.GC()
		}
		samples = append(samples, h.trial(fn, data, buf, p.Number))
	}

	return NewTiming(samples), nil
}

func (h *Harness) trial(fn algo.Func, data, buf []int, number int) time.Duration {
	start := h.clock.Now()
	for range number {
		copy(buf, data)
		_ = fn(buf)
	}
	elapsed := h.clock.Now().Sub(start)
	return elapsed / time.Duration(number)
}
