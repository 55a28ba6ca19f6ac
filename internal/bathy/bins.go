package bathy

import (
	"math"

	"github.com/banshee-data/bathy.report/internal/photon"
)

// xExtent returns the along-track extent of the photon slice.
func xExtent(p []photon.Photon) (xmin, xmax float64) {
	xmin = math.Inf(1)
	xmax = math.Inf(-1)
	for i := range p {
		if p[i].X < xmin {
			xmin = p[i].X
		}
		if p[i].X > xmax {
			xmax = p[i].X
		}
	}
	return xmin, xmax
}

// HBins buckets photons into horizontal along-track windows of width
// XResolution. Each window holds the indices of its member photons in input
// order. Photons whose elevation falls outside [ZMin, ZMax] are absent from
// every window. Empty windows are permitted.
func HBins(p []photon.Photon, params *Params) [][]int {
	if len(p) == 0 {
		return nil
	}
	xmin, xmax := xExtent(p)
	n := int(math.Floor((xmax-xmin)/params.XResolution)) + 1

	bins := make([][]int, n)
	for i := range p {
		if p[i].Z < params.ZMin || p[i].Z > params.ZMax {
			continue
		}
		k := int(math.Floor((p[i].X - xmin) / params.XResolution))
		if k < 0 {
			k = 0
		}
		if k >= n {
			k = n - 1
		}
		bins[k] = append(bins[k], i)
	}
	return bins
}

// VBinCount is the number of vertical elevation bins per window.
func VBinCount(params *Params) int {
	return int(math.Ceil((params.ZMax-params.ZMin)/params.ZResolution)) + 1
}

// VBinElevation is the centre elevation of vertical bin k.
func VBinElevation(k int, params *Params) float64 {
	return (float64(k)+0.5)*params.ZResolution + params.ZMin
}

// VBins buckets the given photon indices into vertical elevation bins. Bin 0
// holds the lowest elevations. Indices whose elevation falls outside the z
// band are dropped.
func VBins(p []photon.Photon, members []int, params *Params) [][]int {
	n := VBinCount(params)
	bins := make([][]int, n)
	for _, i := range members {
		z := p[i].Z
		if z < params.ZMin || z > params.ZMax {
			continue
		}
		k := int(math.Floor((z - params.ZMin) / params.ZResolution))
		if k >= n {
			k = n - 1
		}
		bins[k] = append(bins[k], i)
	}
	return bins
}

// vbinCounts returns the per-bin photon counts for a set of vertical bins.
func vbinCounts(bins [][]int) []int {
	counts := make([]int, len(bins))
	for k, b := range bins {
		counts[k] = len(b)
	}
	return counts
}
