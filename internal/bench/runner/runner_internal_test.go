package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
)

func TestRun_RejectsUnsortedOutput(t *testing.T) {
	s := DefaultSettings()
	s.Sizes = []int{10}
	cfg, err := NewConfig(s)
	require.NoError(t, err)

	cfg.algorithms = []algo.Algorithm{{
		Name: "identity",
		Sort: func(in []int) []int { return in },
	}}

	_, err = New(cfg).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsortedOutput)
	assert.Contains(t, err.Error(), "identity on random n=10")
}
