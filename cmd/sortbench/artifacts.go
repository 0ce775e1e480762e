package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/report"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/spec"
)

type artifactPaths struct {
	CSV     string
	Report  string
	JSON    string
	Metrics string
}

func outputPaths(out spec.OutputConfig) artifactPaths {
	join := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(out.Dir, name)
	}
	return artifactPaths{
		CSV:     join(out.CSV),
		Report:  join(out.Report),
		JSON:    join(out.JSON),
		Metrics: join(out.Metrics),
	}
}

// writeArtifacts writes every output file of run. A collector that did not
// observe the run live is fed by replaying it.
func writeArtifacts(run *runner.Run, out spec.OutputConfig, collector *metrics.Collector) (artifactPaths, error) {
	paths := outputPaths(out)

	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return paths, fmt.Errorf("create output dir %q: %w", out.Dir, err)
	}

	if err := report.SaveCSV(paths.CSV, run.Rows); err != nil {
		return paths, err
	}
	slog.Info("Results written", "path", paths.CSV)

	if err := report.SaveDocument(paths.Report, run); err != nil {
		return paths, err
	}
	slog.Info("Report written", "path", paths.Report)

	if err := report.WriteJSON(report.Generate(run), paths.JSON); err != nil {
		return paths, err
	}
	slog.Info("JSON report written", "path", paths.JSON)

	if collector == nil {
		collector = metrics.NewCollector()
		collector.Replay(run)
	}
	if err := collector.WriteTextfile(paths.Metrics); err != nil {
		return paths, err
	}
	slog.Info("Metrics written", "path", paths.Metrics)

	return paths, nil
}
