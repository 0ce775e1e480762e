package spec

// BenchSpec is the on-disk benchmark configuration. Omitted keys fall back to
// the built-in defaults; see Default.
type BenchSpec struct {
	Seed        *int64            `yaml:"seed" description:"seed for every generated dataset"`
	Sizes       []int             `yaml:"sizes" validate:"dive,gt=0" schema:"minimum=1" description:"dataset sizes, in order"`
	Datasets    []string          `yaml:"datasets" validate:"unique,dive,dataset" schema:"unique,enum=@dataset"`
	Algorithms  []string          `yaml:"algorithms" validate:"unique,dive,algorithm" schema:"unique,enum=@algorithm"`
	Runs        RunsConfig        `yaml:"runs"`
	Adaptive    []AdaptiveRule    `yaml:"adaptive" validate:"dive" description:"repeat/number overrides, first matching rule wins"`
	Skip        []SkipRule        `yaml:"skip" validate:"dive" description:"cells recorded as skipped instead of measured"`
	Conclusions ConclusionsConfig `yaml:"conclusions"`
	Output      OutputConfig      `yaml:"output"`
	History     HistoryConfig     `yaml:"history"`
	Sinks       []string          `yaml:"sinks" validate:"unique,dive,oneof=pg es in_mem" schema:"unique,enum=pg|es|in_mem"`
}

type RunsConfig struct {
	Repeat       *int  `yaml:"repeat" validate:"omitempty,gt=0" schema:"minimum=1"`
	Number       *int  `yaml:"number" validate:"omitempty,gt=0" schema:"minimum=1" description:"sort calls per timed repeat"`
	Warmup       int   `yaml:"warmup" validate:"gte=0" schema:"minimum=0"`
	DisableGC    *bool `yaml:"disable_gc"`
	VerifyOutput *bool `yaml:"verify_output"`
}

type AdaptiveRule struct {
	Datasets []string `yaml:"datasets" validate:"required,dive,dataset" schema:"required,minItems=1,enum=@dataset"`
	MinSize  int      `yaml:"min_size" validate:"gte=0" schema:"minimum=0"`
	Repeat   int      `yaml:"repeat" validate:"gt=0" schema:"required,minimum=1"`
	Number   int      `yaml:"number" validate:"gt=0" schema:"required,minimum=1"`
}

type SkipRule struct {
	Algorithm string   `yaml:"algorithm" validate:"required,algorithm" schema:"required,enum=@algorithm"`
	Datasets  []string `yaml:"datasets" validate:"required,dive,dataset" schema:"required,minItems=1,enum=@dataset"`
	AboveSize int      `yaml:"above_size" validate:"gte=0" schema:"minimum=0"`
}

type ConclusionsConfig struct {
	Comparisons [][]string `yaml:"comparisons" validate:"dive,len=2,dive,algorithm" schema:"enum=@algorithm" description:"algorithm pairs compared in the report"`
}

type OutputConfig struct {
	Dir     string `yaml:"dir" schema:"default=bench_out"`
	CSV     string `yaml:"csv" schema:"default=results.csv"`
	Report  string `yaml:"report" schema:"default=REPORT.md"`
	JSON    string `yaml:"json" schema:"default=report.json"`
	Metrics string `yaml:"metrics" schema:"default=metrics.prom"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" schema:"default=.sortbench/history.db"`
	// RegressionThreshold is the median slowdown, in percent, flagged by
	// compare. Zero flags any slowdown.
	RegressionThreshold *float64 `yaml:"regression_threshold" validate:"omitempty,gte=0" schema:"minimum=0"`
}

// Threshold returns the regression threshold, or the default when unset.
func (h HistoryConfig) Threshold() float64 {
	if h.RegressionThreshold == nil {
		return DefaultRegressionPct
	}
	return *h.RegressionThreshold
}
