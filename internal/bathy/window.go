package bathy

import (
	"math"
	"sort"

	"github.com/banshee-data/bathy.report/internal/photon"
)

// WindowEstimate is the per-window classification result: the chosen
// surface and bathymetry elevations and the photon indices assigned to
// each. Empty index slices mean the window produced no estimate for that
// channel.
type WindowEstimate struct {
	SurfaceElev    float64
	SurfaceIndices []int
	BathyElev      float64
	BathyIndices   []int
}

// classifyWindow runs surface then bathymetry peak selection over one
// horizontal window. Every failure mode degrades to an empty estimate; a
// window never aborts the run.
func classifyWindow(p []photon.Photon, members []int, prior Prior, params *Params) WindowEstimate {
	var est WindowEstimate
	if len(members) == 0 {
		return est
	}

	if params.UsePredictions {
		// Defer to the existing prediction column for the surface; the
		// window's surface elevation is still needed for profile smoothing.
		var zs []float64
		for _, i := range members {
			if p[i].Prediction == photon.ClassSeaSurface {
				est.SurfaceIndices = append(est.SurfaceIndices, i)
				zs = append(zs, p[i].Z)
			}
		}
		if len(zs) > 0 {
			est.SurfaceElev = Mean(zs)
		}
	} else {
		est.SurfaceElev, est.SurfaceIndices = surfacePeak(p, members, prior, params)
	}

	est.BathyElev, est.BathyIndices = bathyPeak(p, members, prior, params)
	return est
}

// surfacePeak picks the sea-surface peak of one window and the photons
// belonging to it.
func surfacePeak(p []photon.Photon, members []int, prior Prior, params *Params) (float64, []int) {
	bins := VBins(p, members, params)
	counts := vbinCounts(bins)
	pmf := ConvertToPMF(counts)
	smoothed := Gaussian1DFilter(pmf, params.VerticalSmoothingSigma)

	peaks := FindPeaks(smoothed, params.MinPeakProminence, params.MinPeakDistance)
	if len(peaks) == 0 {
		return 0, nil
	}

	// Keep peaks whose elevation is plausible under the global prior.
	gate := params.SurfaceNStddev * prior.Stddev()
	gated := peaks[:0]
	for _, k := range peaks {
		e := VBinElevation(k, params)
		if e >= prior.Mean-gate && e <= prior.Mean+gate {
			gated = append(gated, k)
		}
	}
	if len(gated) == 0 {
		return 0, nil
	}

	chosen := pickSurfacePeak(gated, counts)
	eSurface := VBinElevation(chosen, params)

	indices := selectByStddev(p, members, eSurface, params.SurfaceMaxDistance, params.SurfaceNStddev)
	if len(indices) < params.SurfaceMinPhotons() {
		return 0, nil
	}
	return eSurface, indices
}

// pickSurfacePeak resolves competing surface peaks. With two or more
// candidates the two largest by raw photon count are compared: a close call
// (smaller more than a third of the larger) goes to the higher elevation,
// because a strong sub-surface reflection sits below the true surface.
// Otherwise the larger count wins.
func pickSurfacePeak(peaks []int, counts []int) int {
	if len(peaks) == 1 {
		return peaks[0]
	}
	sorted := make([]int, len(peaks))
	copy(sorted, peaks)
	sort.SliceStable(sorted, func(a, b int) bool {
		return counts[sorted[a]] > counts[sorted[b]]
	})
	first, second := sorted[0], sorted[1]
	if float64(counts[second]) > float64(counts[first])/3.0 {
		// Close call: the higher peak is the surface.
		if second > first {
			return second
		}
		return first
	}
	return first
}

// bathyPeak picks the seabed peak of one window from the clearly
// sub-surface photons.
func bathyPeak(p []photon.Photon, members []int, prior Prior, params *Params) (float64, []int) {
	// Exclude the surface band and anything above it. The cut is the deeper
	// of the statistical band edge and the configured minimum depth, so a
	// tight prior cannot pull surface-tail photons into the seabed search.
	drop := params.BathyNStddev * prior.Stddev()
	if params.BathyMinDepth > drop {
		drop = params.BathyMinDepth
	}
	cutoff := prior.Mean - drop

	sub := make([]int, 0, len(members))
	for _, i := range members {
		if p[i].Z < cutoff {
			sub = append(sub, i)
		}
	}
	if len(sub) == 0 {
		return 0, nil
	}

	bins := VBins(p, sub, params)
	counts := vbinCounts(bins)
	pmf := ConvertToPMF(counts)
	smoothed := Gaussian1DFilter(pmf, params.VerticalSmoothingSigma)

	peaks := FindPeaks(smoothed, params.MinPeakProminence, params.MinPeakDistance)
	if len(peaks) == 0 {
		return 0, nil
	}

	// The seabed is the strongest subsurface return; no elevation tiebreak.
	chosen := peaks[0]
	for _, k := range peaks[1:] {
		if counts[k] > counts[chosen] {
			chosen = k
		}
	}
	eBathy := VBinElevation(chosen, params)

	indices := selectByStddev(p, sub, eBathy, params.BathyMaxDistance, params.BathyNStddev)
	if len(indices) < params.BathyMinPhotons() {
		return 0, nil
	}
	return eBathy, indices
}

// selectByStddev collects the candidate photons within maxDistance of the
// peak elevation, then returns every candidate within nStddev standard
// deviations of their mean. A window of identical elevations has zero
// variance and therefore selects nothing.
func selectByStddev(p []photon.Photon, members []int, elev, maxDistance, nStddev float64) []int {
	var near []float64
	for _, i := range members {
		if math.Abs(p[i].Z-elev) < maxDistance {
			near = append(near, p[i].Z)
		}
	}
	if len(near) == 0 {
		return nil
	}

	u := Mean(near)
	s := math.Sqrt(Variance(near))
	band := nStddev * s

	var indices []int
	for _, i := range members {
		if math.Abs(p[i].Z-u) < band {
			indices = append(indices, i)
		}
	}
	return indices
}
