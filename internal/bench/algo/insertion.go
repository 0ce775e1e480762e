package algo

import "cmp"

func InsertionSort[E cmp.Ordered](s []E) []E {
	return InsertionSortFunc(s, cmp.Compare[E])
}

func InsertionSortFunc[E any](s []E, cmp func(a, b E) int) []E {
	out := clone(s)
	for i := 1; i < len(out); i++ {
		key := out[i]
		j := i - 1
		for j >= 0 && cmp(out[j], key) > 0 {
			out[j+1] = out[j]
			j--
		}
		out[j+1] = key
	}
	return out
}
