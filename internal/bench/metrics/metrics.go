// Package metrics exposes benchmark measurements as Prometheus collectors.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

const namespace = "sortbench"

// Collector records rows as they are measured. It owns its registry, so
// several collectors can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	Cells         *prometheus.CounterVec
	MedianSeconds *prometheus.GaugeVec
	MinSeconds    *prometheus.GaugeVec
	MaxSeconds    *prometheus.GaugeVec
	TrialSeconds  *prometheus.HistogramVec
	RunDuration   prometheus.Gauge
	RunTimestamp  prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.Cells = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_total",
			Help:      "Benchmark cells processed, by status",
		},
		[]string{"dataset", "algorithm", "status"},
	)

	cellLabels := []string{"dataset", "size", "algorithm"}
	c.MedianSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "median_seconds",
			Help:      "Median per-call sort time of the last measured run",
		},
		cellLabels,
	)
	c.MinSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "min_seconds",
			Help:      "Fastest per-call sort time of the last measured run",
		},
		cellLabels,
	)
	c.MaxSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_seconds",
			Help:      "Slowest per-call sort time of the last measured run",
		},
		cellLabels,
	)

	c.TrialSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_seconds",
			Help:      "Per-call cost of every timed trial",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
		[]string{"algorithm"},
	)

	c.RunDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last benchmark run",
		},
	)
	c.RunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_finished_timestamp_seconds",
			Help:      "Unix time the last benchmark run finished",
		},
	)

	c.registry.MustRegister(
		c.Cells,
		c.MedianSeconds,
		c.MinSeconds,
		c.MaxSeconds,
		c.TrialSeconds,
		c.RunDuration,
		c.RunTimestamp,
	)

	return c
}

// ObserveRow implements runner.Observer.
func (c *Collector) ObserveRow(row runner.Row) {
	c.Cells.WithLabelValues(string(row.Dataset), string(row.Algorithm), string(row.Status)).Inc()

	minS, medS, maxS, ok := row.Seconds()
	if !ok {
		return
	}
	size := strconv.Itoa(row.Size)
	c.MedianSeconds.WithLabelValues(string(row.Dataset), size, string(row.Algorithm)).Set(medS)
	c.MinSeconds.WithLabelValues(string(row.Dataset), size, string(row.Algorithm)).Set(minS)
	c.MaxSeconds.WithLabelValues(string(row.Dataset), size, string(row.Algorithm)).Set(maxS)

	hist := c.TrialSeconds.WithLabelValues(string(row.Algorithm))
	for _, s := range row.Timing.Samples {
		hist.Observe(s.Seconds())
	}
}

// ObserveRun records run-level gauges. Rows are expected to have been
// observed already.
func (c *Collector) ObserveRun(run *runner.Run) {
	c.RunDuration.Set(run.Duration().Seconds())
	c.RunTimestamp.Set(float64(run.FinishedAt.Unix()))
}

// Replay feeds a stored run through the collector, e.g. when serving
// metrics for a run measured by another process.
func (c *Collector) Replay(run *runner.Run) {
	for _, row := range run.Rows {
		c.ObserveRow(row)
	}
	c.ObserveRun(run)
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the exposition format for a node-exporter textfile
// collector. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics %q: %w", path, err)
	}
	return nil
}
