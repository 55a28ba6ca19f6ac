package bathy

import (
	"math"

	"github.com/banshee-data/bathy.report/internal/photon"
)

// smoothGridResolution is the along-track cell width of the dense profile
// grid, in metres.
const smoothGridResolution = 5.0

// profileGrid builds the dense along-track elevation profile for one
// channel (surface or bathy) from sparse per-window estimates.
//
// Each window that produced an estimate stamps its elevation into every
// dense cell covered by one of its member photons. Remaining gaps are
// filled by two sweeps (left-to-right and right-to-left, each propagating
// the last seen value with a 0 prefix) whose per-cell average avoids a
// systematic lag. The filled profile is then Gaussian smoothed with the
// channel sigma expressed in cells.
func profileGrid(p []photon.Photon, windows [][]int, xmin, xmax float64, elev func(w int) (float64, bool), sigma float64) []float64 {
	n := int(math.Floor((xmax-xmin)/smoothGridResolution)) + 1
	dense := make([]float64, n)
	for i := range dense {
		dense[i] = math.NaN()
	}

	for w, members := range windows {
		e, ok := elev(w)
		if !ok {
			continue
		}
		for _, i := range members {
			c := cellIndex(p[i].X, xmin, n)
			dense[c] = e
		}
	}

	filled := fillGaps(dense)
	return Gaussian1DFilter(filled, sigma/smoothGridResolution)
}

// fillGaps replaces NaN cells with the average of a forward and a backward
// last-value sweep.
func fillGaps(dense []float64) []float64 {
	n := len(dense)
	forward := make([]float64, n)
	last := 0.0
	for i := 0; i < n; i++ {
		if !math.IsNaN(dense[i]) {
			last = dense[i]
		}
		forward[i] = last
	}

	backward := make([]float64, n)
	last = 0.0
	for i := n - 1; i >= 0; i-- {
		if !math.IsNaN(dense[i]) {
			last = dense[i]
		}
		backward[i] = last
	}

	filled := make([]float64, n)
	for i := range filled {
		filled[i] = (forward[i] + backward[i]) / 2.0
	}
	return filled
}

func cellIndex(x, xmin float64, n int) int {
	c := int(math.Floor((x - xmin) / smoothGridResolution))
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	return c
}

// projectProfile stamps the dense profile value of each photon's cell onto
// the photon via assign. Chunks of the photon array are processed in
// parallel; every write lands at a distinct index.
func projectProfile(p []photon.Photon, profile []float64, xmin float64, assign func(ph *photon.Photon, v float64)) {
	n := len(profile)
	parallelFor(len(p), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			assign(&p[i], profile[cellIndex(p[i].X, xmin, n)])
		}
	})
}
