// Package dataset generates the synthetic integer inputs the benchmark sorts.
//
// Every distribution is a pure function of (n, seed): calling it twice with
// the same arguments yields the same slice.
package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
)

type Kind string

const (
	Random       Kind = "random"
	Sorted       Kind = "sorted"
	Reversed     Kind = "reversed"
	NearlySorted Kind = "nearly_sorted"
	ManyDups     Kind = "many_dups"
)

const (
	RandomMin = -10_000
	RandomMax = 10_000
	DupsMax   = 100

	// NearlySortedSwapDivisor sets how many swaps perturb a sorted run: n/divisor, at least one.
	NearlySortedSwapDivisor = 100
)

// Generator builds a dataset of exactly n elements.
type Generator func(n int, seed int64) []int

type Distribution struct {
	Kind        Kind
	Description string
	Generate    Generator
}

var distributions = map[Kind]Distribution{
	Random: {
		Kind:        Random,
		Description: fmt.Sprintf("uniformly random integers in [%d, %d]", RandomMin, RandomMax),
		Generate:    randomInts,
	},
	Sorted: {
		Kind:        Sorted,
		Description: "already sorted ascending values 0..n-1",
		Generate:    sortedInts,
	},
	Reversed: {
		Kind:        Reversed,
		Description: "strictly descending values n..1",
		Generate:    reversedInts,
	},
	NearlySorted: {
		Kind:        NearlySorted,
		Description: "sorted values with about 1% of positions randomly swapped",
		Generate:    nearlySortedInts,
	},
	ManyDups: {
		Kind:        ManyDups,
		Description: fmt.Sprintf("random integers in [0, %d], so most values repeat", DupsMax),
		Generate:    manyDupsInts,
	},
}

var order = []Kind{Random, Sorted, Reversed, NearlySorted, ManyDups}

// Names lists the known distributions in their canonical order.
func Names() []Kind {
	out := make([]Kind, len(order))
	copy(out, order)
	return out
}

func Lookup(name string) (Distribution, error) {
	d, ok := distributions[Kind(name)]
	if !ok {
		return Distribution{}, apperr.NewValidationf("unknown dataset %q", name)
	}
	return d, nil
}

func Generate(kind Kind, n int, seed int64) ([]int, error) {
	d, err := Lookup(string(kind))
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, apperr.NewValidationf("dataset size must not be negative, got %d", n)
	}
	return d.Generate(n, seed), nil
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

func randomInts(n int, seed int64) []int {
	r := newRand(seed)
	out := make([]int, n)
	for i := range out {
		out[i] = RandomMin + r.IntN(RandomMax-RandomMin+1)
	}
	return out
}

func sortedInts(n int, _ int64) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func reversedInts(n int, _ int64) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - i
	}
	return out
}

func nearlySortedInts(n int, seed int64) []int {
	out := sortedInts(n, seed)
	if n == 0 {
		return out
	}
	r := newRand(seed)
	swaps := max(1, n/NearlySortedSwapDivisor)
	for range swaps {
		i, j := r.IntN(n), r.IntN(n)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func manyDupsInts(n int, seed int64) []int {
	r := newRand(seed)
	out := make([]int, n)
	for i := range out {
		out[i] = r.IntN(DupsMax + 1)
	}
	return out
}
