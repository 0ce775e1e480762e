// Package algo holds the sorting algorithms under benchmark.
//
// Every sort copies its input and returns a new slice; callers keep their
// data untouched. The ...Func variants accept a three-way comparison so
// payload-carrying elements can be sorted and stability checked.
package algo

import (
	"cmp"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
)

type Name string

const (
	Insertion Name = "insertion_sort"
	Merge     Name = "merge_sort"
	Reference Name = "reference_sort"
	Std       Name = "std_sort"
)

// Func is the shape the harness times.
type Func func([]int) []int

type Algorithm struct {
	Name       Name
	Sort       Func
	Stable     bool
	Complexity string
	Summary    string
}

var algorithms = map[Name]Algorithm{
	Insertion: {
		Name:       Insertion,
		Sort:       InsertionSort[int],
		Stable:     true,
		Complexity: "O(n²) average and worst, O(n) best",
		Summary: "Shifts each element left past larger neighbours. Quadratic on random and reversed input, " +
			"close to linear when the input is already (nearly) sorted.",
	},
	Merge: {
		Name:       Merge,
		Sort:       MergeSort[int],
		Stable:     true,
		Complexity: "O(n log n) in every case, O(n) extra space",
		Summary: "Splits at the midpoint, sorts both halves and merges them. Its cost barely depends on the " +
			"input order, so sorted and random inputs take about the same time.",
	},
	Reference: {
		Name:       Reference,
		Sort:       ReferenceSort[int],
		Stable:     true,
		Complexity: "O(n log n) worst, O(n) on presorted input",
		Summary: "Adaptive merge sort: finds existing ascending or descending runs, extends short ones with " +
			"binary insertion and merges them with galloping. Exploits any order already present in the data.",
	},
	Std: {
		Name:       Std,
		Sort:       StdSort[int],
		Stable:     false,
		Complexity: "O(n log n) worst, O(n) on some patterns",
		Summary: "The Go standard library's pattern-defeating quicksort. Fast in place, but does not keep " +
			"equal elements in their original order.",
	},
}

var order = []Name{Insertion, Merge, Reference, Std}

var defaults = []Name{Insertion, Merge, Reference}

// Names lists every registered algorithm.
func Names() []Name {
	out := make([]Name, len(order))
	copy(out, order)
	return out
}

// DefaultNames lists the algorithms a benchmark runs when none are configured.
func DefaultNames() []Name {
	out := make([]Name, len(defaults))
	copy(out, defaults)
	return out
}

func Lookup(name string) (Algorithm, error) {
	a, ok := algorithms[Name(name)]
	if !ok {
		return Algorithm{}, apperr.NewValidationf("unknown algorithm %q", name)
	}
	return a, nil
}

func clone[E any](s []E) []E {
	out := make([]E, len(s))
	copy(out, s)
	return out
}

// IsSorted reports whether s is non-decreasing.
func IsSorted[E cmp.Ordered](s []E) bool {
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return false
		}
	}
	return true
}
