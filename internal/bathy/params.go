// Package bathy implements histogram-based classification of along-track
// lidar photon returns into sea surface and bathymetry, together with the
// smoothed elevation profiles derived from the per-window estimates.
package bathy

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Params holds the tunable parameters for one classification run. Distances
// are metres unless noted. The zero value is not usable; start from
// DefaultParams.
type Params struct {
	XResolution float64 // horizontal window width
	ZResolution float64 // vertical bin width
	ZMin        float64 // lower bound of the elevation band of interest
	ZMax        float64 // upper bound of the elevation band of interest

	SurfaceZMin float64 // prior search band lower bound (no-predictions path)
	SurfaceZMax float64 // prior search band upper bound

	BathyMinDepth float64 // minimum distance below the surface for bathymetry

	VerticalSmoothingSigma float64 // PMF smoothing, in vertical bins
	SurfaceSmoothingSigma  float64 // along-track smoothing of the surface profile
	BathySmoothingSigma    float64 // along-track smoothing of the bathy profile

	MinPeakProminence float64 // PMF units
	MinPeakDistance   int     // vertical bins

	// Per-window membership minimums. Zero means derived from the window
	// width: ceil(XResolution/2) surface photons, ceil(XResolution/5)
	// bathy photons.
	MinSurfacePhotonsPerWindow int
	MinBathyPhotonsPerWindow   int

	SurfaceNStddev float64
	BathyNStddev   float64

	// Half-widths of the pre-refinement membership gates around the chosen
	// peak elevation.
	SurfaceMaxDistance float64
	BathyMaxDistance   float64

	// UsePredictions trusts an existing prediction column for the surface
	// instead of recomputing it. Bathymetry detection still runs.
	UsePredictions bool
}

// DefaultParams returns the parameter set tuned for ICESat-2 style photon
// tracks.
func DefaultParams() Params {
	return Params{
		XResolution:            10.0,
		ZResolution:            0.2,
		ZMin:                   -50.0,
		ZMax:                   30.0,
		SurfaceZMin:            -20.0,
		SurfaceZMax:            20.0,
		BathyMinDepth:          0.5,
		VerticalSmoothingSigma: 0.5,
		SurfaceSmoothingSigma:  200.0,
		BathySmoothingSigma:    100.0,
		MinPeakProminence:      0.01,
		MinPeakDistance:        2,
		SurfaceNStddev:         3.5,
		BathyNStddev:           3.0,
		SurfaceMaxDistance:     1.0,
		BathyMaxDistance:       1.0,
	}
}

// SurfaceMinPhotons returns the effective per-window surface membership
// minimum, deriving it from the window width when unset.
func (p *Params) SurfaceMinPhotons() int {
	if p.MinSurfacePhotonsPerWindow > 0 {
		return p.MinSurfacePhotonsPerWindow
	}
	return int(math.Ceil(p.XResolution / 2.0))
}

// BathyMinPhotons returns the effective per-window bathy membership minimum.
func (p *Params) BathyMinPhotons() int {
	if p.MinBathyPhotonsPerWindow > 0 {
		return p.MinBathyPhotonsPerWindow
	}
	return int(math.Ceil(p.XResolution / 5.0))
}

// Validate checks the run invariants that must hold before classification.
func (p *Params) Validate() error {
	if p.XResolution <= 0 {
		return fmt.Errorf("x_resolution must be positive, got %g", p.XResolution)
	}
	if p.ZResolution <= 0 {
		return fmt.Errorf("z_resolution must be positive, got %g", p.ZResolution)
	}
	if p.ZMax <= p.ZMin {
		return fmt.Errorf("z_max (%g) must be greater than z_min (%g)", p.ZMax, p.ZMin)
	}
	if p.SurfaceZMax <= p.SurfaceZMin {
		return fmt.Errorf("surface_z_max (%g) must be greater than surface_z_min (%g)", p.SurfaceZMax, p.SurfaceZMin)
	}
	if p.VerticalSmoothingSigma <= 0 {
		return fmt.Errorf("vertical_smoothing_sigma must be positive, got %g", p.VerticalSmoothingSigma)
	}
	if p.MinPeakDistance < 1 {
		return fmt.Errorf("min_peak_distance must be at least 1, got %d", p.MinPeakDistance)
	}
	return nil
}

// paramsFile mirrors Params for JSON loading. Fields omitted from the file
// keep their current values, so partial configs are safe.
type paramsFile struct {
	XResolution                *float64 `json:"x_resolution,omitempty"`
	ZResolution                *float64 `json:"z_resolution,omitempty"`
	ZMin                       *float64 `json:"z_min,omitempty"`
	ZMax                       *float64 `json:"z_max,omitempty"`
	SurfaceZMin                *float64 `json:"surface_z_min,omitempty"`
	SurfaceZMax                *float64 `json:"surface_z_max,omitempty"`
	BathyMinDepth              *float64 `json:"bathy_min_depth,omitempty"`
	VerticalSmoothingSigma     *float64 `json:"vertical_smoothing_sigma,omitempty"`
	SurfaceSmoothingSigma      *float64 `json:"surface_smoothing_sigma,omitempty"`
	BathySmoothingSigma        *float64 `json:"bathy_smoothing_sigma,omitempty"`
	MinPeakProminence          *float64 `json:"min_peak_prominence,omitempty"`
	MinPeakDistance            *int     `json:"min_peak_distance,omitempty"`
	MinSurfacePhotonsPerWindow *int     `json:"min_surface_photons_per_window,omitempty"`
	MinBathyPhotonsPerWindow   *int     `json:"min_bathy_photons_per_window,omitempty"`
	SurfaceNStddev             *float64 `json:"surface_n_stddev,omitempty"`
	BathyNStddev               *float64 `json:"bathy_n_stddev,omitempty"`
	SurfaceMaxDistance         *float64 `json:"surface_max_distance,omitempty"`
	BathyMaxDistance           *float64 `json:"bathy_max_distance,omitempty"`
	UsePredictions             *bool    `json:"use_predictions,omitempty"`
}

// ApplyFile overlays values from a JSON parameters file onto p. Keys absent
// from the file leave the corresponding field untouched.
func (p *Params) ApplyFile(path string) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return fmt.Errorf("params file must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("reading params file: %w", err)
	}

	var f paramsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing params file: %w", err)
	}

	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&p.XResolution, f.XResolution)
	setF(&p.ZResolution, f.ZResolution)
	setF(&p.ZMin, f.ZMin)
	setF(&p.ZMax, f.ZMax)
	setF(&p.SurfaceZMin, f.SurfaceZMin)
	setF(&p.SurfaceZMax, f.SurfaceZMax)
	setF(&p.BathyMinDepth, f.BathyMinDepth)
	setF(&p.VerticalSmoothingSigma, f.VerticalSmoothingSigma)
	setF(&p.SurfaceSmoothingSigma, f.SurfaceSmoothingSigma)
	setF(&p.BathySmoothingSigma, f.BathySmoothingSigma)
	setF(&p.MinPeakProminence, f.MinPeakProminence)
	setI(&p.MinPeakDistance, f.MinPeakDistance)
	setI(&p.MinSurfacePhotonsPerWindow, f.MinSurfacePhotonsPerWindow)
	setI(&p.MinBathyPhotonsPerWindow, f.MinBathyPhotonsPerWindow)
	setF(&p.SurfaceNStddev, f.SurfaceNStddev)
	setF(&p.BathyNStddev, f.BathyNStddev)
	setF(&p.SurfaceMaxDistance, f.SurfaceMaxDistance)
	setF(&p.BathyMaxDistance, f.BathyMaxDistance)
	if f.UsePredictions != nil {
		p.UsePredictions = *f.UsePredictions
	}

	return nil
}

// MarshalJSON serialises the resolved parameter set, including derived
// minimums, for run records.
func (p Params) MarshalJSON() ([]byte, error) {
	type out struct {
		XResolution                float64 `json:"x_resolution"`
		ZResolution                float64 `json:"z_resolution"`
		ZMin                       float64 `json:"z_min"`
		ZMax                       float64 `json:"z_max"`
		SurfaceZMin                float64 `json:"surface_z_min"`
		SurfaceZMax                float64 `json:"surface_z_max"`
		BathyMinDepth              float64 `json:"bathy_min_depth"`
		VerticalSmoothingSigma     float64 `json:"vertical_smoothing_sigma"`
		SurfaceSmoothingSigma      float64 `json:"surface_smoothing_sigma"`
		BathySmoothingSigma        float64 `json:"bathy_smoothing_sigma"`
		MinPeakProminence          float64 `json:"min_peak_prominence"`
		MinPeakDistance            int     `json:"min_peak_distance"`
		MinSurfacePhotonsPerWindow int     `json:"min_surface_photons_per_window"`
		MinBathyPhotonsPerWindow   int     `json:"min_bathy_photons_per_window"`
		SurfaceNStddev             float64 `json:"surface_n_stddev"`
		BathyNStddev               float64 `json:"bathy_n_stddev"`
		SurfaceMaxDistance         float64 `json:"surface_max_distance"`
		BathyMaxDistance           float64 `json:"bathy_max_distance"`
		UsePredictions             bool    `json:"use_predictions"`
	}
	return json.Marshal(out{
		XResolution:                p.XResolution,
		ZResolution:                p.ZResolution,
		ZMin:                       p.ZMin,
		ZMax:                       p.ZMax,
		SurfaceZMin:                p.SurfaceZMin,
		SurfaceZMax:                p.SurfaceZMax,
		BathyMinDepth:              p.BathyMinDepth,
		VerticalSmoothingSigma:     p.VerticalSmoothingSigma,
		SurfaceSmoothingSigma:      p.SurfaceSmoothingSigma,
		BathySmoothingSigma:        p.BathySmoothingSigma,
		MinPeakProminence:          p.MinPeakProminence,
		MinPeakDistance:            p.MinPeakDistance,
		MinSurfacePhotonsPerWindow: p.SurfaceMinPhotons(),
		MinBathyPhotonsPerWindow:   p.BathyMinPhotons(),
		SurfaceNStddev:             p.SurfaceNStddev,
		BathyNStddev:               p.BathyNStddev,
		SurfaceMaxDistance:         p.SurfaceMaxDistance,
		BathyMaxDistance:           p.BathyMaxDistance,
		UsePredictions:             p.UsePredictions,
	})
}
