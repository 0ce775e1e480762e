package algo

import "cmp"

const (
	// Inputs shorter than this are sorted with a single binary insertion pass.
	minMerge = 32

	initialMinGallop = 7
)

// ReferenceSort is the adaptive baseline: a run-detecting, galloping merge
// sort. It is stable and runs in O(n log n) worst case and O(n) on input that
// is already ordered.
func ReferenceSort[E cmp.Ordered](s []E) []E {
	return ReferenceSortFunc(s, cmp.Compare[E])
}

func ReferenceSortFunc[E any](s []E, cmp func(a, b E) int) []E {
	out := clone(s)
	runSort(out, cmp)
	return out
}

type run struct {
	base, len int
}

type runSorter[E any] struct {
	a         []E
	cmp       func(a, b E) int
	minGallop int
	tmp       []E
	runs      []run
}

func runSort[E any](a []E, cmp func(a, b E) int) {
	n := len(a)
	if n < 2 {
		return
	}
	if n < minMerge {
		initRun := countRunAndMakeAscending(a, 0, n, cmp)
		binaryInsertionSort(a, 0, n, initRun, cmp)
		return
	}

	rs := &runSorter[E]{a: a, cmp: cmp, minGallop: initialMinGallop}
	minRun := minRunLength(n)
	lo, remaining := 0, n
	for remaining > 0 {
		runLen := countRunAndMakeAscending(a, lo, n, cmp)
		if runLen < minRun {
			force := min(remaining, minRun)
			binaryInsertionSort(a, lo, lo+force, lo+runLen, cmp)
			runLen = force
		}
		rs.runs = append(rs.runs, run{base: lo, len: runLen})
		rs.mergeCollapse()
		lo += runLen
		remaining -= runLen
	}
	rs.mergeForceCollapse()
}

// minRunLength returns k with minMerge/2 <= k <= minMerge such that n/k is
// close to, but not above, a power of two.
func minRunLength(n int) int {
	r := 0
	for n >= minMerge {
		r |= n & 1
		n >>= 1
	}
	return n + r
}

// countRunAndMakeAscending returns the length of the run starting at lo.
// A strictly descending run is reversed in place; strictness keeps equal
// elements in order.
func countRunAndMakeAscending[E any](a []E, lo, hi int, cmp func(a, b E) int) int {
	runHi := lo + 1
	if runHi == hi {
		return 1
	}
	if cmp(a[runHi], a[lo]) < 0 {
		runHi++
		for runHi < hi && cmp(a[runHi], a[runHi-1]) < 0 {
			runHi++
		}
		reverse(a[lo:runHi])
	} else {
		runHi++
		for runHi < hi && cmp(a[runHi], a[runHi-1]) >= 0 {
			runHi++
		}
	}
	return runHi - lo
}

func reverse[E any](s []E) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// binaryInsertionSort sorts a[lo:hi] given that a[lo:start] is already sorted.
func binaryInsertionSort[E any](a []E, lo, hi, start int, cmp func(a, b E) int) {
	if start == lo {
		start++
	}
	for ; start < hi; start++ {
		pivot := a[start]
		left, right := lo, start
		for left < right {
			mid := int(uint(left+right) >> 1)
			if cmp(pivot, a[mid]) < 0 {
				right = mid
			} else {
				left = mid + 1
			}
		}
		copy(a[left+1:start+1], a[left:start])
		a[left] = pivot
	}
}

// mergeCollapse restores the stack invariants
//
//	runs[i-2].len > runs[i-1].len + runs[i].len
//	runs[i-1].len > runs[i].len
//
// for the runs on top of the stack.
func (rs *runSorter[E]) mergeCollapse() {
	for len(rs.runs) > 1 {
		n := len(rs.runs) - 2
		if (n > 0 && rs.runs[n-1].len <= rs.runs[n].len+rs.runs[n+1].len) ||
			(n > 1 && rs.runs[n-2].len <= rs.runs[n-1].len+rs.runs[n].len) {
			if rs.runs[n-1].len < rs.runs[n+1].len {
				n--
			}
		} else if rs.runs[n].len > rs.runs[n+1].len {
			return
		}
		rs.mergeAt(n)
	}
}

func (rs *runSorter[E]) mergeForceCollapse() {
	for len(rs.runs) > 1 {
		n := len(rs.runs) - 2
		if n > 0 && rs.runs[n-1].len < rs.runs[n+1].len {
			n--
		}
		rs.mergeAt(n)
	}
}

// mergeAt merges runs i and i+1, which must be adjacent on the stack.
func (rs *runSorter[E]) mergeAt(i int) {
	a := rs.a
	base1, len1 := rs.runs[i].base, rs.runs[i].len
	base2, len2 := rs.runs[i+1].base, rs.runs[i+1].len

	rs.runs[i].len = len1 + len2
	if i == len(rs.runs)-3 {
		rs.runs[i+1] = rs.runs[i+2]
	}
	rs.runs = rs.runs[:len(rs.runs)-1]

	// Elements of run1 already in place ahead of run2's first element stay put.
	k := gallopRight(a[base2], a[base1:base1+len1], 0, rs.cmp)
	base1 += k
	len1 -= k
	if len1 == 0 {
		return
	}

	// Elements of run2 already in place after run1's last element stay put.
	len2 = gallopLeft(a[base1+len1-1], a[base2:base2+len2], len2-1, rs.cmp)
	if len2 == 0 {
		return
	}

	if len1 <= len2 {
		rs.mergeLo(base1, len1, base2, len2)
	} else {
		rs.mergeHi(base1, len1, base2, len2)
	}
}

// gallopLeft returns the leftmost position in the sorted run where key can be
// inserted, starting the exponential search at hint.
func gallopLeft[E any](key E, run []E, hint int, cmp func(a, b E) int) int {
	lastOfs, ofs := 0, 1
	if cmp(key, run[hint]) > 0 {
		maxOfs := len(run) - hint
		for ofs < maxOfs && cmp(key, run[hint+ofs]) > 0 {
			lastOfs = ofs
			ofs = ofs<<1 + 1
		}
		ofs = min(ofs, maxOfs)
		lastOfs += hint
		ofs += hint
	} else {
		maxOfs := hint + 1
		for ofs < maxOfs && cmp(key, run[hint-ofs]) <= 0 {
			lastOfs = ofs
			ofs = ofs<<1 + 1
		}
		ofs = min(ofs, maxOfs)
		lastOfs, ofs = hint-ofs, hint-lastOfs
	}

	lastOfs++
	for lastOfs < ofs {
		m := lastOfs + (ofs-lastOfs)>>1
		if cmp(key, run[m]) > 0 {
			lastOfs = m + 1
		} else {
			ofs = m
		}
	}
	return ofs
}

// gallopRight is gallopLeft for the rightmost insertion position, so equal
// elements already in the run stay ahead of key.
func gallopRight[E any](key E, run []E, hint int, cmp func(a, b E) int) int {
	lastOfs, ofs := 0, 1
	if cmp(key, run[hint]) < 0 {
		maxOfs := hint + 1
		for ofs < maxOfs && cmp(key, run[hint-ofs]) < 0 {
			lastOfs = ofs
			ofs = ofs<<1 + 1
		}
		ofs = min(ofs, maxOfs)
		lastOfs, ofs = hint-ofs, hint-lastOfs
	} else {
		maxOfs := len(run) - hint
		for ofs < maxOfs && cmp(key, run[hint+ofs]) >= 0 {
			lastOfs = ofs
			ofs = ofs<<1 + 1
		}
		ofs = min(ofs, maxOfs)
		lastOfs += hint
		ofs += hint
	}

	lastOfs++
	for lastOfs < ofs {
		m := lastOfs + (ofs-lastOfs)>>1
		if cmp(key, run[m]) < 0 {
			ofs = m
		} else {
			lastOfs = m + 1
		}
	}
	return ofs
}

func (rs *runSorter[E]) scratch(n int) []E {
	if cap(rs.tmp) < n {
		rs.tmp = make([]E, n, max(n, min(2*n, len(rs.a)/2)))
	}
	return rs.tmp[:n]
}

// mergeLo merges two adjacent runs left to right, buffering run1.
// Requires len1 <= len2, a[base1] > a[base2] and the last of run1 above every
// element of run2.
func (rs *runSorter[E]) mergeLo(base1, len1, base2, len2 int) {
	a, cmp := rs.a, rs.cmp
	tmp := rs.scratch(len1)
	copy(tmp, a[base1:base1+len1])

	cursor1, cursor2, dest := 0, base2, base1

	a[dest] = a[cursor2]
	dest++
	cursor2++
	len2--
	if len2 == 0 {
		copy(a[dest:dest+len1], tmp[cursor1:cursor1+len1])
		return
	}
	if len1 == 1 {
		copy(a[dest:dest+len2], a[cursor2:cursor2+len2])
		a[dest+len2] = tmp[cursor1]
		return
	}

	minGallop := rs.minGallop
outer:
	for {
		count1, count2 := 0, 0

		// One at a time until one run starts winning consistently.
		for {
			if cmp(a[cursor2], tmp[cursor1]) < 0 {
				a[dest] = a[cursor2]
				dest++
				cursor2++
				count2++
				count1 = 0
				len2--
				if len2 == 0 {
					break outer
				}
			} else {
				a[dest] = tmp[cursor1]
				dest++
				cursor1++
				count1++
				count2 = 0
				len1--
				if len1 == 1 {
					break outer
				}
			}
			if (count1 | count2) >= minGallop {
				break
			}
		}

		for {
			count1 = gallopRight(a[cursor2], tmp[cursor1:cursor1+len1], 0, cmp)
			if count1 != 0 {
				copy(a[dest:dest+count1], tmp[cursor1:cursor1+count1])
				dest += count1
				cursor1 += count1
				len1 -= count1
				if len1 <= 1 {
					break outer
				}
			}
			a[dest] = a[cursor2]
			dest++
			cursor2++
			len2--
			if len2 == 0 {
				break outer
			}

			count2 = gallopLeft(tmp[cursor1], a[cursor2:cursor2+len2], 0, cmp)
			if count2 != 0 {
				copy(a[dest:dest+count2], a[cursor2:cursor2+count2])
				dest += count2
				cursor2 += count2
				len2 -= count2
				if len2 == 0 {
					break outer
				}
			}
			a[dest] = tmp[cursor1]
			dest++
			cursor1++
			len1--
			if len1 == 1 {
				break outer
			}
			minGallop--
			if count1 < initialMinGallop && count2 < initialMinGallop {
				break
			}
		}
		minGallop = max(minGallop, 0) + 2
	}
	rs.minGallop = max(minGallop, 1)

	switch {
	case len1 == 1:
		copy(a[dest:dest+len2], a[cursor2:cursor2+len2])
		a[dest+len2] = tmp[cursor1]
	case len1 == 0:
		panic("algo: comparison function is not a consistent ordering")
	default:
		copy(a[dest:dest+len1], tmp[cursor1:cursor1+len1])
	}
}

// mergeHi merges two adjacent runs right to left, buffering run2.
// Requires len1 >= len2 with the same ordering preconditions as mergeLo.
func (rs *runSorter[E]) mergeHi(base1, len1, base2, len2 int) {
	a, cmp := rs.a, rs.cmp
	tmp := rs.scratch(len2)
	copy(tmp, a[base2:base2+len2])

	cursor1 := base1 + len1 - 1
	cursor2 := len2 - 1
	dest := base2 + len2 - 1

	a[dest] = a[cursor1]
	dest--
	cursor1--
	len1--
	if len1 == 0 {
		copy(a[dest-(len2-1):dest+1], tmp[:len2])
		return
	}
	if len2 == 1 {
		dest -= len1
		cursor1 -= len1
		copy(a[dest+1:dest+1+len1], a[cursor1+1:cursor1+1+len1])
		a[dest] = tmp[cursor2]
		return
	}

	minGallop := rs.minGallop
outer:
	for {
		count1, count2 := 0, 0

		for {
			if cmp(tmp[cursor2], a[cursor1]) < 0 {
				a[dest] = a[cursor1]
				dest--
				cursor1--
				count1++
				count2 = 0
				len1--
				if len1 == 0 {
					break outer
				}
			} else {
				a[dest] = tmp[cursor2]
				dest--
				cursor2--
				count2++
				count1 = 0
				len2--
				if len2 == 1 {
					break outer
				}
			}
			if (count1 | count2) >= minGallop {
				break
			}
		}

		for {
			count1 = len1 - gallopRight(tmp[cursor2], a[base1:base1+len1], len1-1, cmp)
			if count1 != 0 {
				dest -= count1
				cursor1 -= count1
				len1 -= count1
				copy(a[dest+1:dest+1+count1], a[cursor1+1:cursor1+1+count1])
				if len1 == 0 {
					break outer
				}
			}
			a[dest] = tmp[cursor2]
			dest--
			cursor2--
			len2--
			if len2 == 1 {
				break outer
			}

			count2 = len2 - gallopLeft(a[cursor1], tmp[:len2], len2-1, cmp)
			if count2 != 0 {
				dest -= count2
				cursor2 -= count2
				len2 -= count2
				copy(a[dest+1:dest+1+count2], tmp[cursor2+1:cursor2+1+count2])
				if len2 <= 1 {
					break outer
				}
			}
			a[dest] = a[cursor1]
			dest--
			cursor1--
			len1--
			if len1 == 0 {
				break outer
			}
			minGallop--
			if count1 < initialMinGallop && count2 < initialMinGallop {
				break
			}
		}
		minGallop = max(minGallop, 0) + 2
	}
	rs.minGallop = max(minGallop, 1)

	switch {
	case len2 == 1:
		dest -= len1
		cursor1 -= len1
		copy(a[dest+1:dest+1+len1], a[cursor1+1:cursor1+1+len1])
		a[dest] = tmp[cursor2]
	case len2 == 0:
		panic("algo: comparison function is not a consistent ordering")
	default:
		copy(a[dest-(len2-1):dest+1], tmp[:len2])
	}
}
