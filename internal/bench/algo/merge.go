package algo

import "cmp"

func MergeSort[E cmp.Ordered](s []E) []E {
	return MergeSortFunc(s, cmp.Compare[E])
}

func MergeSortFunc[E any](s []E, cmp func(a, b E) int) []E {
	return mergeSort(s, cmp)
}

// mergeSort never writes to s; every level returns freshly allocated slices.
func mergeSort[E any](s []E, cmp func(a, b E) int) []E {
	if len(s) <= 1 {
		return clone(s)
	}
	mid := len(s) / 2
	return merge(mergeSort(s[:mid], cmp), mergeSort(s[mid:], cmp), cmp)
}

func merge[E any](left, right []E, cmp func(a, b E) int) []E {
	out := make([]E, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		// left wins ties
		if cmp(left[i], right[j]) <= 0 {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	out = append(out, left[i:]...)
	out = append(out, right[j:]...)
	return out
}
