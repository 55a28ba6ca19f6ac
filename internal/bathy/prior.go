package bathy

import (
	"math"

	"github.com/banshee-data/bathy.report/internal/photon"
)

// priorRefineHalfWidth is the half-width of the band around the median used
// to tighten the surface prior.
const priorRefineHalfWidth = 1.0

// Prior is a coarse Gaussian estimate of the sea-surface elevation used to
// gate per-window peak selection.
type Prior struct {
	Mean     float64
	Variance float64
}

// Stddev returns the standard deviation of the prior.
func (pr Prior) Stddev() float64 {
	return math.Sqrt(pr.Variance)
}

// SurfacePrior estimates the sea-surface elevation from the full photon
// array.
//
// With UsePredictions set, the prior is the mean and variance of every
// photon already predicted as sea surface; if no photon carries that class
// the estimator falls back to the no-predictions path rather than returning
// a degenerate prior that would collapse the bathymetry exclusion band.
//
// Otherwise elevations inside the surface search band are collected, their
// median taken, and the mean and variance computed over the photons within
// priorRefineHalfWidth of that median. An empty selection yields {0, 0};
// downstream gating then rejects every peak.
func SurfacePrior(p []photon.Photon, params *Params) Prior {
	if params.UsePredictions {
		var zs []float64
		for i := range p {
			if p[i].Prediction == photon.ClassSeaSurface {
				zs = append(zs, p[i].Z)
			}
		}
		if len(zs) > 0 {
			return Prior{Mean: Mean(zs), Variance: Variance(zs)}
		}
		// No predicted surface photons to trust; fall through.
	}

	var zs []float64
	for i := range p {
		if p[i].Z > params.SurfaceZMin && p[i].Z < params.SurfaceZMax {
			zs = append(zs, p[i].Z)
		}
	}
	if len(zs) == 0 {
		return Prior{}
	}

	m := Median(zs)
	refined := zs[:0]
	for _, z := range zs {
		if math.Abs(z-m) < priorRefineHalfWidth {
			refined = append(refined, z)
		}
	}
	if len(refined) == 0 {
		return Prior{}
	}
	return Prior{Mean: Mean(refined), Variance: Variance(refined)}
}
