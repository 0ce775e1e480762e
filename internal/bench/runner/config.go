package runner

import (
	"fmt"
	"slices"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/timing"
)

var DefaultSizes = []int{100, 300, 1000, 3000, 10000}

const (
	DefaultSeed = 42

	DefaultAdaptiveMinSize = 10000
	DefaultAdaptiveRepeat  = 3
	DefaultAdaptiveNumber  = 1

	DefaultSkipAboveSize = 3000
)

// AdaptiveRule lowers the trial counts for expensive cells. The first rule
// matching a cell wins; warmup and GC settings stay those of the base params.
type AdaptiveRule struct {
	Datasets []dataset.Kind `json:"datasets"`
	MinSize  int            `json:"min_size"`
	Repeat   int            `json:"repeat"`
	Number   int            `json:"number"`
}

func (r AdaptiveRule) matches(ds dataset.Kind, size int) bool {
	return size >= r.MinSize && slices.Contains(r.Datasets, ds)
}

// SkipRule marks cells that are not measured at all.
type SkipRule struct {
	Algorithm algo.Name      `json:"algorithm"`
	Datasets  []dataset.Kind `json:"datasets"`
	AboveSize int            `json:"above_size"`
}

func (r SkipRule) matches(a algo.Name, ds dataset.Kind, size int) bool {
	return a == r.Algorithm && size > r.AboveSize && slices.Contains(r.Datasets, ds)
}

// Comparison is an algorithm pair the conclusions weigh against each other.
type Comparison struct {
	A algo.Name `json:"a"`
	B algo.Name `json:"b"`
}

// Settings is the serialisable form of a benchmark configuration.
type Settings struct {
	Seed         int64          `json:"seed"`
	Sizes        []int          `json:"sizes"`
	Datasets     []dataset.Kind `json:"datasets"`
	Algorithms   []algo.Name    `json:"algorithms"`
	Base         timing.Params  `json:"base"`
	Adaptive     []AdaptiveRule `json:"adaptive"`
	Skip         []SkipRule     `json:"skip"`
	Comparisons  []Comparison   `json:"comparisons"`
	VerifyOutput bool           `json:"verify_output"`
}

func DefaultSettings() Settings {
	return Settings{
		Seed:       DefaultSeed,
		Sizes:      slices.Clone(DefaultSizes),
		Datasets:   dataset.Names(),
		Algorithms: algo.DefaultNames(),
		Base:       timing.DefaultParams(),
		Adaptive: []AdaptiveRule{{
			Datasets: []dataset.Kind{dataset.Random, dataset.Reversed},
			MinSize:  DefaultAdaptiveMinSize,
			Repeat:   DefaultAdaptiveRepeat,
			Number:   DefaultAdaptiveNumber,
		}},
		Skip: []SkipRule{{
			Algorithm: algo.Insertion,
			Datasets:  []dataset.Kind{dataset.Random, dataset.Reversed},
			AboveSize: DefaultSkipAboveSize,
		}},
		Comparisons:  DefaultComparisons(),
		VerifyOutput: true,
	}
}

func DefaultComparisons() []Comparison {
	return []Comparison{
		{A: algo.Insertion, B: algo.Merge},
		{A: algo.Merge, B: algo.Reference},
		{A: algo.Insertion, B: algo.Reference},
	}
}

// Config is a validated Settings with every dataset and algorithm name
// resolved to its implementation.
type Config struct {
	Settings

	datasets   []dataset.Distribution
	algorithms []algo.Algorithm
}

func DefaultConfig() Config {
	cfg, err := NewConfig(DefaultSettings())
	if err != nil {
		panic(fmt.Sprintf("runner: default settings are invalid: %v", err))
	}
	return cfg
}

func NewConfig(s Settings) (Config, error) {
	if err := s.validate(); err != nil {
		return Config{}, err
	}

	cfg := Config{Settings: s}
	for _, kind := range s.Datasets {
		d, err := dataset.Lookup(string(kind))
		if err != nil {
			return Config{}, err
		}
		cfg.datasets = append(cfg.datasets, d)
	}
	for _, name := range s.Algorithms {
		a, err := algo.Lookup(string(name))
		if err != nil {
			return Config{}, err
		}
		cfg.algorithms = append(cfg.algorithms, a)
	}
	return cfg, nil
}

func (s Settings) validate() error {
	if len(s.Sizes) == 0 {
		return apperr.NewFieldValidation("sizes", "at least one size is required")
	}
	for i, n := range s.Sizes {
		if n <= 0 {
			return apperr.NewFieldValidation(fmt.Sprintf("sizes[%d]", i), fmt.Sprintf("size must be positive, got %d", n))
		}
	}
	if err := validateDatasets("datasets", s.Datasets, true); err != nil {
		return err
	}
	if err := validateAlgorithms("algorithms", s.Algorithms); err != nil {
		return err
	}
	if err := s.Base.Validate(); err != nil {
		return err
	}
	for i, r := range s.Adaptive {
		field := fmt.Sprintf("adaptive[%d]", i)
		if err := validateDatasets(field+".datasets", r.Datasets, false); err != nil {
			return err
		}
		if r.Repeat < 1 || r.Number < 1 {
			return apperr.NewFieldValidation(field, "repeat and number must be at least 1")
		}
	}
	for i, r := range s.Skip {
		field := fmt.Sprintf("skip[%d]", i)
		if _, err := algo.Lookup(string(r.Algorithm)); err != nil {
			return apperr.NewFieldValidation(field+".algorithm", err.Error())
		}
		if err := validateDatasets(field+".datasets", r.Datasets, false); err != nil {
			return err
		}
		if r.AboveSize < 0 {
			return apperr.NewFieldValidation(field+".above_size", "must not be negative")
		}
	}
	for i, c := range s.Comparisons {
		field := fmt.Sprintf("comparisons[%d]", i)
		if err := validateAlgorithms(field, []algo.Name{c.A, c.B}); err != nil {
			return err
		}
	}
	return nil
}

func validateDatasets(field string, kinds []dataset.Kind, required bool) error {
	if required && len(kinds) == 0 {
		return apperr.NewFieldValidation(field, "at least one dataset is required")
	}
	seen := make(map[dataset.Kind]bool, len(kinds))
	for i, k := range kinds {
		if _, err := dataset.Lookup(string(k)); err != nil {
			return apperr.NewFieldValidation(fmt.Sprintf("%s[%d]", field, i), err.Error())
		}
		if seen[k] {
			return apperr.NewFieldValidation(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("duplicate dataset %q", k))
		}
		seen[k] = true
	}
	return nil
}

func validateAlgorithms(field string, names []algo.Name) error {
	if len(names) == 0 {
		return apperr.NewFieldValidation(field, "at least one algorithm is required")
	}
	seen := make(map[algo.Name]bool, len(names))
	for i, n := range names {
		if _, err := algo.Lookup(string(n)); err != nil {
			return apperr.NewFieldValidation(fmt.Sprintf("%s[%d]", field, i), err.Error())
		}
		if seen[n] {
			return apperr.NewFieldValidation(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("duplicate algorithm %q", n))
		}
		seen[n] = true
	}
	return nil
}

func (c Config) ResolvedDatasets() []dataset.Distribution {
	return slices.Clone(c.datasets)
}

func (c Config) ResolvedAlgorithms() []algo.Algorithm {
	return slices.Clone(c.algorithms)
}

// ParamsFor returns the timing parameters for one (dataset, size) cell.
func (c Config) ParamsFor(ds dataset.Kind, size int) timing.Params {
	p := c.Base
	for _, r := range c.Adaptive {
		if r.matches(ds, size) {
			p.Repeat = r.Repeat
			p.Number = r.Number
			break
		}
	}
	return p
}

// Skipped reports whether the cell is excluded by a skip rule.
func (c Config) Skipped(a algo.Name, ds dataset.Kind, size int) (SkipRule, bool) {
	for _, r := range c.Skip {
		if r.matches(a, ds, size) {
			return r, true
		}
	}
	return SkipRule{}, false
}

// Cells is the number of rows a run of this config produces.
func (c Config) Cells() int {
	return len(c.Datasets) * len(c.Sizes) * len(c.Algorithms)
}
