package bathy

import "math"

// boxFilterIterations is the number of box passes used to approximate a
// Gaussian (Kovesi, "Fast almost-Gaussian filtering", DICTA 2010).
const boxFilterIterations = 5

// box1DFilter replaces each element of p with the average over a window of
// sz elements centred on it, clipping the window at the slice ends. It runs
// over prefix sums and counts, so the cost is O(n) regardless of sz.
func box1DFilter(p []float64, sz int) {
	n := len(p)
	if n == 0 {
		return
	}

	sums := make([]float64, n)
	totals := make([]int, n)
	var cumulativeSum float64
	for i, v := range p {
		cumulativeSum += v
		sums[i] = cumulativeSum
		totals[i] = i + 1
	}

	half := sz / 2
	for i := 0; i < n; i++ {
		i1 := i - half - 1
		i2 := i + half

		var sum1 float64
		var total1 int
		if i1 >= 0 {
			sum1 = sums[i1]
			total1 = totals[i1]
		}
		sum2 := sums[n-1]
		total2 := totals[n-1]
		if i2 < n {
			sum2 = sums[i2]
			total2 = totals[i2]
		}

		p[i] = (sum2 - sum1) / float64(total2-total1)
	}
}

// idealFilterWidth is the box width whose iterated application best
// approximates a Gaussian of the given sigma.
func idealFilterWidth(sigma float64, n int) float64 {
	return math.Sqrt((12.0*sigma*sigma)/float64(n) + 1.0)
}

// Gaussian1DFilter returns a copy of x smoothed by a Gaussian of standard
// deviation sigma (in sample units), approximated by five box filter
// passes. Mass is preserved up to the clipping at the slice ends.
func Gaussian1DFilter(x []float64, sigma float64) []float64 {
	y := make([]float64, len(x))
	copy(y, x)
	if len(y) == 0 || sigma <= 0 {
		return y
	}

	const n = boxFilterIterations
	w := idealFilterWidth(sigma, n)

	wl := int(math.Floor(w))
	if wl&1 == 0 {
		wl--
	}
	if wl < 1 {
		wl = 1
	}
	wu := wl + 2

	fwl := float64(wl)
	m := int(math.Round(
		(12.0*sigma*sigma - float64(n)*fwl*fwl - 4.0*float64(n)*fwl - 3.0*float64(n)) /
			(-4.0*fwl - 4.0)))
	if m < 0 {
		m = 0
	}
	if m > n {
		m = n
	}

	for i := 0; i < m; i++ {
		box1DFilter(y, wl)
	}
	for i := 0; i < n-m; i++ {
		box1DFilter(y, wu)
	}
	return y
}
