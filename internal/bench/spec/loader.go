package spec

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/timing"
)

const (
	DefaultOutputDir     = "bench_out"
	DefaultCSVFile       = "results.csv"
	DefaultReportFile    = "REPORT.md"
	DefaultJSONFile      = "report.json"
	DefaultMetricsFile   = "metrics.prom"
	DefaultHistoryPath   = ".sortbench/history.db"
	DefaultRegressionPct = 10.0
)

func LoadFromFile(path string) (*BenchSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file %q: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*BenchSpec, error) {
	var s BenchSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, apperr.NewValidationWrap("parse spec YAML", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default is the spec used when no file is given. It reproduces the standard
// benchmark grid.
func Default() *BenchSpec {
	s := &BenchSpec{}
	applyDefaults(s)
	return s
}

func validate(s *BenchSpec) error {
	if err := validateStruct(s); err != nil {
		return err
	}
	applyDefaults(s)
	return nil
}

// applyDefaults fills keys that were left out. An explicitly empty list,
// e.g. "adaptive: []", is kept empty.
func applyDefaults(s *BenchSpec) {
	d := runner.DefaultSettings()

	if s.Seed == nil {
		seed := d.Seed
		s.Seed = &seed
	}
	if s.Sizes == nil {
		s.Sizes = slices.Clone(d.Sizes)
	}
	if s.Datasets == nil {
		s.Datasets = kindsToStrings(d.Datasets)
	}
	if s.Algorithms == nil {
		s.Algorithms = namesToStrings(d.Algorithms)
	}
	if s.Runs.Repeat == nil {
		repeat := d.Base.Repeat
		s.Runs.Repeat = &repeat
	}
	if s.Runs.Number == nil {
		number := d.Base.Number
		s.Runs.Number = &number
	}
	if s.Runs.DisableGC == nil {
		disable := d.Base.DisableGC
		s.Runs.DisableGC = &disable
	}
	if s.Runs.VerifyOutput == nil {
		verify := d.VerifyOutput
		s.Runs.VerifyOutput = &verify
	}
	if s.Adaptive == nil {
		for _, r := range d.Adaptive {
			s.Adaptive = append(s.Adaptive, AdaptiveRule{
				Datasets: kindsToStrings(r.Datasets),
				MinSize:  r.MinSize,
				Repeat:   r.Repeat,
				Number:   r.Number,
			})
		}
	}
	if s.Skip == nil {
		for _, r := range d.Skip {
			s.Skip = append(s.Skip, SkipRule{
				Algorithm: string(r.Algorithm),
				Datasets:  kindsToStrings(r.Datasets),
				AboveSize: r.AboveSize,
			})
		}
	}
	if s.Conclusions.Comparisons == nil {
		for _, c := range d.Comparisons {
			s.Conclusions.Comparisons = append(s.Conclusions.Comparisons, []string{string(c.A), string(c.B)})
		}
	}

	if s.Output.Dir == "" {
		s.Output.Dir = DefaultOutputDir
	}
	if s.Output.CSV == "" {
		s.Output.CSV = DefaultCSVFile
	}
	if s.Output.Report == "" {
		s.Output.Report = DefaultReportFile
	}
	if s.Output.JSON == "" {
		s.Output.JSON = DefaultJSONFile
	}
	if s.Output.Metrics == "" {
		s.Output.Metrics = DefaultMetricsFile
	}
	if s.History.Path == "" {
		s.History.Path = DefaultHistoryPath
	}
	if s.History.RegressionThreshold == nil {
		threshold := DefaultRegressionPct
		s.History.RegressionThreshold = &threshold
	}
}

// Settings converts the spec into runner settings. Call after defaults are applied.
func (s *BenchSpec) Settings() runner.Settings {
	out := runner.Settings{
		Sizes:      slices.Clone(s.Sizes),
		Datasets:   stringsToKinds(s.Datasets),
		Algorithms: stringsToNames(s.Algorithms),
		Base: timing.Params{
			Warmup: s.Runs.Warmup,
		},
	}
	if s.Seed != nil {
		out.Seed = *s.Seed
	}
	if s.Runs.Repeat != nil {
		out.Base.Repeat = *s.Runs.Repeat
	}
	if s.Runs.Number != nil {
		out.Base.Number = *s.Runs.Number
	}
	if s.Runs.DisableGC != nil {
		out.Base.DisableGC = *s.Runs.DisableGC
	}
	if s.Runs.VerifyOutput != nil {
		out.VerifyOutput = *s.Runs.VerifyOutput
	}
	for _, r := range s.Adaptive {
		out.Adaptive = append(out.Adaptive, runner.AdaptiveRule{
			Datasets: stringsToKinds(r.Datasets),
			MinSize:  r.MinSize,
			Repeat:   r.Repeat,
			Number:   r.Number,
		})
	}
	for _, r := range s.Skip {
		out.Skip = append(out.Skip, runner.SkipRule{
			Algorithm: algo.Name(r.Algorithm),
			Datasets:  stringsToKinds(r.Datasets),
			AboveSize: r.AboveSize,
		})
	}
	for _, c := range s.Conclusions.Comparisons {
		out.Comparisons = append(out.Comparisons, runner.Comparison{A: algo.Name(c[0]), B: algo.Name(c[1])})
	}
	return out
}

// Config resolves the spec into a validated runner configuration.
func (s *BenchSpec) Config() (runner.Config, error) {
	return runner.NewConfig(s.Settings())
}

func kindsToStrings(kinds []dataset.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func namesToStrings(names []algo.Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func stringsToKinds(in []string) []dataset.Kind {
	out := make([]dataset.Kind, len(in))
	for i, s := range in {
		out[i] = dataset.Kind(s)
	}
	return out
}

func stringsToNames(in []string) []algo.Name {
	out := make([]algo.Name, len(in))
	for i, s := range in {
		out[i] = algo.Name(s)
	}
	return out
}
