package algo

import (
	"cmp"
	"slices"
)

func StdSort[E cmp.Ordered](s []E) []E {
	out := clone(s)
	slices.Sort(out)
	return out
}

func StdSortFunc[E any](s []E, cmp func(a, b E) int) []E {
	out := clone(s)
	slices.SortFunc(out, cmp)
	return out
}
