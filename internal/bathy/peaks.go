package bathy

import "sort"

// FindPeaks returns the indices of strict local maxima of x, in ascending
// order, filtered by prominence and by a minimum peak separation.
//
// Prominence is the smaller of the two drops from the peak down to the
// lowest value reached before a strictly higher sample (or the slice edge)
// on each side. When two surviving peaks are closer than minDistance bins,
// the taller is kept; on equal height the earlier one wins. Inputs with
// fewer than three samples have no interior maxima and yield nil.
func FindPeaks(x []float64, minProminence float64, minDistance int) []int {
	if len(x) < 3 {
		return nil
	}

	var candidates []int
	for i := 1; i+1 < len(x); i++ {
		if x[i-1] < x[i] && x[i+1] < x[i] {
			candidates = append(candidates, i)
		}
	}

	peaks := candidates[:0]
	for _, i := range candidates {
		if prominence(x, i) >= minProminence {
			peaks = append(peaks, i)
		}
	}
	if len(peaks) == 0 {
		return nil
	}

	if minDistance > 1 {
		peaks = suppressClosePeaks(x, peaks, minDistance)
	}
	sort.Ints(peaks)
	return peaks
}

// prominence measures the drop from x[i] to the highest of the two bases
// flanking it. A base is the minimum value between the peak and the nearest
// strictly higher sample, or the slice edge.
func prominence(x []float64, i int) float64 {
	leftBase := x[i]
	for j := i - 1; j >= 0; j-- {
		if x[j] > x[i] {
			break
		}
		if x[j] < leftBase {
			leftBase = x[j]
		}
	}
	rightBase := x[i]
	for j := i + 1; j < len(x); j++ {
		if x[j] > x[i] {
			break
		}
		if x[j] < rightBase {
			rightBase = x[j]
		}
	}
	base := leftBase
	if rightBase > base {
		base = rightBase
	}
	return x[i] - base
}

// suppressClosePeaks enforces the minimum separation by accepting peaks in
// height order (ties broken by the lower index) and rejecting any peak
// closer than minDistance to one already accepted.
func suppressClosePeaks(x []float64, peaks []int, minDistance int) []int {
	order := make([]int, len(peaks))
	copy(order, peaks)
	sort.SliceStable(order, func(a, b int) bool {
		if x[order[a]] != x[order[b]] {
			return x[order[a]] > x[order[b]]
		}
		return order[a] < order[b]
	})

	var kept []int
	for _, i := range order {
		ok := true
		for _, j := range kept {
			d := i - j
			if d < 0 {
				d = -d
			}
			if d < minDistance {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, i)
		}
	}
	return kept
}
