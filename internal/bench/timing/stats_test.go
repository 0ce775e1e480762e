package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name    string
		samples []time.Duration
		want    Stats
	}{
		{
			name: "empty",
			want: Stats{},
		},
		{
			name:    "single value has no spread",
			samples: []time.Duration{10 * time.Millisecond},
			want:    Stats{Min: 10 * time.Millisecond, Median: 10 * time.Millisecond, Max: 10 * time.Millisecond},
		},
		{
			name:    "odd count takes the middle value",
			samples: []time.Duration{50, 10, 30, 20, 40},
			want:    Stats{Min: 10, Median: 30, Max: 50, Stddev: 16},
		},
		{
			name:    "even count averages the middle pair",
			samples: []time.Duration{40, 10, 30, 20},
			want:    Stats{Min: 10, Median: 25, Max: 40, Stddev: 13},
		},
		{
			name:    "identical samples",
			samples: []time.Duration{7, 7, 7},
			want:    Stats{Min: 7, Median: 7, Max: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(tt.samples))
		})
	}
}

func TestComputeStats_DoesNotReorderInput(t *testing.T) {
	in := []time.Duration{3, 1, 2}
	_ = ComputeStats(in)
	assert.Equal(t, []time.Duration{3, 1, 2}, in)
}

func TestComputeStats_StddevOfLargeValues(t *testing.T) {
	base := time.Hour
	stats := ComputeStats([]time.Duration{base + 2, base + 4, base + 4, base + 4, base + 5, base + 5, base + 7, base + 9})
	// sample stddev of 2,4,4,4,5,5,7,9 is 2.138
	assert.Equal(t, time.Duration(2), stats.Stddev)
}
