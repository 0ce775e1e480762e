package timing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/timing"
)

// scriptedClock advances by the next trial duration on every second reading,
// so each trial measures exactly one scripted value.
type scriptedClock struct {
	now    time.Time
	trials []time.Duration
	calls  int
}

func (c *scriptedClock) Now() time.Time {
	if c.calls%2 == 1 {
		c.now = c.now.Add(c.trials[c.calls/2])
	}
	c.calls++
	return c.now
}

func TestHarness_PerCallCostAndOrderStatistics(t *testing.T) {
	clock := &scriptedClock{
		now:    time.Unix(0, 0),
		trials: []time.Duration{30 * time.Millisecond, 60 * time.Millisecond, 15 * time.Millisecond, 90 * time.Millisecond},
	}
	h := timing.New(timing.WithClock(clock))

	got, err := h.Time(algo.MergeSort[int], []int{3, 2, 1}, timing.Params{Repeat: 4, Number: 3})
	require.NoError(t, err)

	assert.Equal(t, 5*time.Millisecond, got.Min)
	assert.Equal(t, 15*time.Millisecond, got.Median)
	assert.Equal(t, 30*time.Millisecond, got.Max)
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond, 20 * time.Millisecond, 5 * time.Millisecond, 30 * time.Millisecond,
	}, got.Samples)
	assert.InDelta(t, float64(11086780*time.Nanosecond), float64(got.Stddev), float64(time.Microsecond))
	assert.Equal(t, 8, clock.calls)
}

func TestHarness_CallCount(t *testing.T) {
	calls := 0
	fn := func(s []int) []int {
		calls++
		return s
	}

	_, err := timing.Time(fn, []int{1, 2, 3}, timing.Params{Repeat: 3, Number: 2, Warmup: 4})
	require.NoError(t, err)

	assert.Equal(t, 3*2+4, calls)
}

func TestHarness_EveryCallSeesPristineData(t *testing.T) {
	data := []int{5, 4, 3}
	var seen []int
	fn := func(s []int) []int {
		seen = append(seen, s[0])
		s[0] = -1
		return s
	}

	_, err := timing.Time(fn, data, timing.Params{Repeat: 2, Number: 3, Warmup: 1, DisableGC: true})
	require.NoError(t, err)

	assert.Equal(t, []int{5, 4, 3}, data)
	for _, v := range seen {
		assert.Equal(t, 5, v)
	}
}

func TestHarness_MinMedianMaxOrdered(t *testing.T) {
	data := make([]int, 2000)
	for i := range data {
		data[i] = len(data) - i
	}

	for _, name := range algo.DefaultNames() {
		a, err := algo.Lookup(string(name))
		require.NoError(t, err)

		got, err := timing.Time(a.Sort, data, timing.DefaultParams())
		require.NoError(t, err)

		assert.LessOrEqual(t, got.Min, got.Median, string(name))
		assert.LessOrEqual(t, got.Median, got.Max, string(name))
		assert.Len(t, got.Samples, timing.DefaultRepeat)
	}
}

func TestHarness_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params timing.Params
		field  string
	}{
		{"zero repeat", timing.Params{Repeat: 0, Number: 1}, "repeat"},
		{"zero number", timing.Params{Repeat: 1, Number: 0}, "number"},
		{"negative warmup", timing.Params{Repeat: 1, Number: 1, Warmup: -1}, "warmup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := timing.Time(algo.InsertionSort[int], []int{1}, tt.params)
			require.Error(t, err)

			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := timing.DefaultParams()
	assert.Equal(t, 5, p.Repeat)
	assert.Equal(t, 3, p.Number)
	assert.Zero(t, p.Warmup)
	assert.True(t, p.DisableGC)
	assert.NoError(t, p.Validate())
}
