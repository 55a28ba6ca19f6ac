package bathy

import (
	"runtime"
	"sync"

	"github.com/banshee-data/bathy.report/internal/photon"
)

// Classify labels every photon as sea surface, bathymetry, or unclassified
// and stamps the smoothed surface and bathy elevation profiles onto each.
// The input slice is not modified; the returned slice preserves input
// order, indices, and coordinates. Windows that fail to produce an
// estimate degrade to unclassified photons.
func Classify(input []photon.Photon, params *Params) []photon.Photon {
	p := make([]photon.Photon, len(input))
	copy(p, input)
	if len(p) == 0 {
		return p
	}

	prior := SurfacePrior(p, params)
	windows := HBins(p, params)

	// Default every photon inside the z band to unclassified. Photons
	// outside the band keep class 0. With UsePredictions set, photons that
	// already carry a prediction keep it.
	if !params.UsePredictions {
		for i := range p {
			p[i].Prediction = photon.ClassUnprocessed
		}
	}
	for _, members := range windows {
		for _, i := range members {
			if params.UsePredictions && p[i].Prediction != photon.ClassUnprocessed {
				continue
			}
			p[i].Prediction = photon.ClassUnclassified
		}
	}

	// Per-window classification is independent; fan the windows out over
	// the CPUs. Each worker writes only its own estimate slots.
	estimates := make([]WindowEstimate, len(windows))
	parallelFor(len(windows), func(lo, hi int) {
		for w := lo; w < hi; w++ {
			estimates[w] = classifyWindow(p, windows[w], prior, params)
		}
	})

	// Surface first, bathy second. The bathy selection excludes photons
	// above the surface band, so the two index sets cannot overlap.
	for w := range estimates {
		for _, i := range estimates[w].SurfaceIndices {
			p[i].Prediction = photon.ClassSeaSurface
		}
		for _, i := range estimates[w].BathyIndices {
			p[i].Prediction = photon.ClassBathymetry
		}
	}

	xmin, xmax := xExtent(p)
	surfaceProfile := profileGrid(p, windows, xmin, xmax, func(w int) (float64, bool) {
		return estimates[w].SurfaceElev, len(estimates[w].SurfaceIndices) > 0
	}, params.SurfaceSmoothingSigma)
	bathyProfile := profileGrid(p, windows, xmin, xmax, func(w int) (float64, bool) {
		return estimates[w].BathyElev, len(estimates[w].BathyIndices) > 0
	}, params.BathySmoothingSigma)

	projectProfile(p, surfaceProfile, xmin, func(ph *photon.Photon, v float64) { ph.SurfaceElevation = v })
	projectProfile(p, bathyProfile, xmin, func(ph *photon.Photon, v float64) { ph.BathyElevation = v })

	return p
}

// parallelFor splits [0, n) into contiguous chunks and runs fn over them
// on up to GOMAXPROCS goroutines. fn must write only to indices within its
// chunk.
func parallelFor(n int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
