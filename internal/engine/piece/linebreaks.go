package piece

import "sort"

// scanBreaks returns the offsets of every newline in runes, ascending.
// A trailing newline is included, so "a\n" reports a second, empty line.
func scanBreaks(runes []rune) []int {
	var breaks []int
	for i, r := range runes {
		if r == '\n' {
			breaks = append(breaks, i)
		}
	}
	return breaks
}

// splitBreaks partitions breaks at the local offset at.
// Entries before at stay in left. The rest are rebased into right so they are
// relative to at. The left slice is capacity-clipped and never shares storage
// with right.
func splitBreaks(breaks []int, at int) (left, right []int) {
	i := sort.SearchInts(breaks, at)
	left = breaks[:i:i]
	if i < len(breaks) {
		right = make([]int, len(breaks)-i)
		for j, b := range breaks[i:] {
			right[j] = b - at
		}
	}
	return left, right
}

// sliceBreaks returns the entries of breaks in [from, to), rebased to from.
func sliceBreaks(breaks []int, from, to int) []int {
	lo := sort.SearchInts(breaks, from)
	hi := sort.SearchInts(breaks, to)
	if lo >= hi {
		return nil
	}
	out := make([]int, hi-lo)
	for j, b := range breaks[lo:hi] {
		out[j] = b - from
	}
	return out
}
