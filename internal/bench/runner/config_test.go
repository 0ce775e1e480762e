package runner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

func TestDefaultConfig(t *testing.T) {
	cfg := runner.DefaultConfig()

	assert.Equal(t, []int{100, 300, 1000, 3000, 10000}, cfg.Sizes)
	assert.Equal(t, []dataset.Kind{
		dataset.Random, dataset.Sorted, dataset.Reversed, dataset.NearlySorted, dataset.ManyDups,
	}, cfg.Datasets)
	assert.Equal(t, []algo.Name{algo.Insertion, algo.Merge, algo.Reference}, cfg.Algorithms)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 5, cfg.Base.Repeat)
	assert.Equal(t, 3, cfg.Base.Number)
	assert.Len(t, cfg.ResolvedDatasets(), 5)
	assert.Len(t, cfg.ResolvedAlgorithms(), 3)
	assert.Equal(t, 75, cfg.Cells())
}

func TestConfig_ParamsFor(t *testing.T) {
	cfg := runner.DefaultConfig()

	tests := []struct {
		ds             dataset.Kind
		size           int
		repeat, number int
	}{
		{dataset.Random, 10000, 3, 1},
		{dataset.Reversed, 10000, 3, 1},
		{dataset.Random, 20000, 3, 1},
		{dataset.Random, 9999, 5, 3},
		{dataset.Sorted, 10000, 5, 3},
		{dataset.ManyDups, 10000, 5, 3},
	}
	for _, tt := range tests {
		p := cfg.ParamsFor(tt.ds, tt.size)
		assert.Equal(t, tt.repeat, p.Repeat, "%s/%d", tt.ds, tt.size)
		assert.Equal(t, tt.number, p.Number, "%s/%d", tt.ds, tt.size)
		assert.True(t, p.DisableGC)
	}
}

func TestConfig_Skipped(t *testing.T) {
	cfg := runner.DefaultConfig()

	tests := []struct {
		a    algo.Name
		ds   dataset.Kind
		size int
		skip bool
	}{
		{algo.Insertion, dataset.Random, 10000, true},
		{algo.Insertion, dataset.Reversed, 3001, true},
		{algo.Insertion, dataset.Random, 3000, false},
		{algo.Insertion, dataset.NearlySorted, 10000, false},
		{algo.Insertion, dataset.Sorted, 10000, false},
		{algo.Merge, dataset.Random, 10000, false},
	}
	for _, tt := range tests {
		_, skip := cfg.Skipped(tt.a, tt.ds, tt.size)
		assert.Equal(t, tt.skip, skip, "%s/%s/%d", tt.a, tt.ds, tt.size)
	}
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runner.Settings)
		field  string
	}{
		{"no sizes", func(s *runner.Settings) { s.Sizes = nil }, "sizes"},
		{"zero size", func(s *runner.Settings) { s.Sizes = []int{10, 0} }, "sizes[1]"},
		{"negative size", func(s *runner.Settings) { s.Sizes = []int{-5} }, "sizes[0]"},
		{"unknown dataset", func(s *runner.Settings) { s.Datasets = []dataset.Kind{"zigzag"} }, "datasets[0]"},
		{"duplicate dataset", func(s *runner.Settings) { s.Datasets = []dataset.Kind{dataset.Sorted, dataset.Sorted} }, "datasets[1]"},
		{"unknown algorithm", func(s *runner.Settings) { s.Algorithms = []algo.Name{algo.Merge, "bogo_sort"} }, "algorithms[1]"},
		{"zero repeat", func(s *runner.Settings) { s.Base.Repeat = 0 }, "repeat"},
		{"zero number", func(s *runner.Settings) { s.Base.Number = 0 }, "number"},
		{"bad adaptive", func(s *runner.Settings) { s.Adaptive[0].Number = 0 }, "adaptive[0]"},
		{"bad skip algorithm", func(s *runner.Settings) { s.Skip[0].Algorithm = "shell_sort" }, "skip[0].algorithm"},
		{"bad comparison", func(s *runner.Settings) { s.Comparisons[0].B = "heap_sort" }, "comparisons[0][1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := runner.DefaultSettings()
			tt.mutate(&s)

			_, err := runner.NewConfig(s)
			require.Error(t, err)

			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
