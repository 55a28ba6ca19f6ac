package bathy

import (
	"gonum.org/v1/gonum/floats"
)

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Sum(x) / float64(len(x))
}

// Variance returns the biased variance E[x^2] - E[x]^2 of x, clamped at
// zero to absorb floating-point drift. Empty input returns 0.
func Variance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum, sum2 float64
	for _, v := range x {
		sum += v
		sum2 += v * v
	}
	n := float64(len(x))
	mean := sum / n
	v := sum2/n - mean*mean
	if v < 0 {
		v = 0
	}
	return v
}

// Median returns the order statistic at index len(x)/2 without sorting the
// caller's slice. It panics on empty input.
func Median(x []float64) float64 {
	if len(x) == 0 {
		panic("bathy: median of empty slice")
	}
	y := make([]float64, len(x))
	copy(y, x)
	k := len(y) / 2
	return quickselect(y, k)
}

// quickselect places the k-th smallest element of x at index k and returns
// it. Median-of-three pivoting keeps the expected cost linear and the
// result deterministic.
func quickselect(x []float64, k int) float64 {
	lo, hi := 0, len(x)-1
	for lo < hi {
		p := partition(x, lo, hi)
		switch {
		case k < p:
			hi = p - 1
		case k > p:
			lo = p + 1
		default:
			return x[k]
		}
	}
	return x[k]
}

func partition(x []float64, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if x[mid] < x[lo] {
		x[mid], x[lo] = x[lo], x[mid]
	}
	if x[hi] < x[lo] {
		x[hi], x[lo] = x[lo], x[hi]
	}
	if x[hi] < x[mid] {
		x[hi], x[mid] = x[mid], x[hi]
	}
	pivot := x[mid]
	x[mid], x[hi-1] = x[hi-1], x[mid]

	i := lo
	for j := lo; j < hi-1; j++ {
		if x[j] < pivot {
			x[i], x[j] = x[j], x[i]
			i++
		}
	}
	x[i], x[hi-1] = x[hi-1], x[i]
	return i
}

// Normalize linearly maps x onto [0, 1]. It panics on empty or constant
// input.
func Normalize(x []float64) []float64 {
	if len(x) == 0 {
		panic("bathy: normalize of empty slice")
	}
	xmin := floats.Min(x)
	xmax := floats.Max(x)
	if xmax == xmin {
		panic("bathy: normalize of constant slice")
	}
	y := make([]float64, len(x))
	d := xmax - xmin
	for i, v := range x {
		y[i] = (v - xmin) / d
	}
	return y
}

// ConvertToPMF divides a histogram by its total count. An empty or all-zero
// histogram yields the zero vector.
func ConvertToPMF(h []int) []float64 {
	total := 0
	for _, c := range h {
		total += c
	}
	if total == 0 {
		total = 1
	}
	pmf := make([]float64, len(h))
	for i, c := range h {
		pmf[i] = float64(c) / float64(total)
	}
	return pmf
}
