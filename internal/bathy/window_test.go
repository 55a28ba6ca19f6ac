package bathy

import (
	"testing"

	"github.com/banshee-data/bathy.report/internal/photon"
)

// windowPhotons builds a single-window photon set from elevation clusters.
// Each cluster contributes count photons spread ±0.05 m around its centre.
func windowPhotons(clusters []struct {
	centre float64
	count  int
}) ([]photon.Photon, []int) {
	var p []photon.Photon
	for _, c := range clusters {
		for i := 0; i < c.count; i++ {
			z := c.centre + 0.1*float64(i%3)/2.0 - 0.05
			p = append(p, photon.Photon{X: float64(len(p)) * 0.01, Z: z})
		}
	}
	members := make([]int, len(p))
	for i := range members {
		members[i] = i
	}
	return p, members
}

func TestPickSurfacePeak(t *testing.T) {
	testCases := []struct {
		name   string
		peaks  []int
		counts []int
		want   int
	}{
		{"single", []int{5}, []int{0, 0, 0, 0, 0, 9}, 5},
		// Close call (smaller > larger/3): higher elevation wins even when
		// it has fewer photons.
		{"close_call_higher_wins", []int{3, 8}, []int{0, 0, 0, 30, 0, 0, 0, 0, 15}, 8},
		{"close_call_higher_already_larger", []int{3, 8}, []int{0, 0, 0, 15, 0, 0, 0, 0, 30}, 8},
		// Decisive count difference: the larger peak wins regardless of
		// elevation.
		{"larger_wins", []int{3, 8}, []int{0, 0, 0, 30, 0, 0, 0, 0, 9}, 3},
		{"three_peaks_top_two_compared", []int{2, 5, 8}, []int{0, 0, 40, 0, 0, 25, 0, 0, 3}, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pickSurfacePeak(tc.peaks, tc.counts); got != tc.want {
				t.Errorf("pickSurfacePeak = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSurfacePeakSelectsSurfacePhotons(t *testing.T) {
	params := DefaultParams()
	prior := Prior{Mean: 0, Variance: 0.25}

	p, members := windowPhotons([]struct {
		centre float64
		count  int
	}{
		{0.0, 60},   // surface
		{-10.0, 20}, // seabed, far outside the prior gate
	})

	elev, indices := surfacePeak(p, members, prior, &params)
	if len(indices) == 0 {
		t.Fatal("surfacePeak selected nothing")
	}
	if elev < -0.5 || elev > 0.5 {
		t.Errorf("surface elevation = %v, want near 0", elev)
	}
	for _, i := range indices {
		if p[i].Z < -1 || p[i].Z > 1 {
			t.Errorf("photon %d at z=%v selected as surface", i, p[i].Z)
		}
	}
}

func TestSurfacePeakMinimumPhotons(t *testing.T) {
	params := DefaultParams()
	params.MinSurfacePhotonsPerWindow = 500
	prior := Prior{Mean: 0, Variance: 0.25}

	p, members := windowPhotons([]struct {
		centre float64
		count  int
	}{
		{0.0, 60},
	})

	if _, indices := surfacePeak(p, members, prior, &params); indices != nil {
		t.Errorf("expected empty selection below the per-window minimum, got %d photons", len(indices))
	}
}

func TestBathyPeak(t *testing.T) {
	params := DefaultParams()
	prior := Prior{Mean: 0, Variance: 0.01}

	p, members := windowPhotons([]struct {
		centre float64
		count  int
	}{
		{0.0, 60},  // surface photons: excluded by the sub-surface cut
		{-8.0, 25}, // seabed
		{-20.0, 3}, // sparse deep noise
	})

	elev, indices := bathyPeak(p, members, prior, &params)
	if len(indices) == 0 {
		t.Fatal("bathyPeak selected nothing")
	}
	if elev < -9 || elev > -7 {
		t.Errorf("bathy elevation = %v, want near -8", elev)
	}
	cutoff := prior.Mean - params.BathyNStddev*prior.Stddev()
	for _, i := range indices {
		if p[i].Z >= cutoff {
			t.Errorf("photon %d at z=%v selected as bathy above the cutoff %v", i, p[i].Z, cutoff)
		}
	}
}

func TestBathyPeakNothingBelowSurface(t *testing.T) {
	params := DefaultParams()
	prior := Prior{Mean: 0, Variance: 0.01}

	p, members := windowPhotons([]struct {
		centre float64
		count  int
	}{
		{0.0, 60},
	})

	if _, indices := bathyPeak(p, members, prior, &params); indices != nil {
		t.Errorf("expected no bathy in a surface-only window, got %d photons", len(indices))
	}
}

func TestClassifyWindowDegenerate(t *testing.T) {
	params := DefaultParams()
	prior := Prior{Mean: 0, Variance: 0.25}

	est := classifyWindow(nil, nil, prior, &params)
	if len(est.SurfaceIndices) != 0 || len(est.BathyIndices) != 0 {
		t.Errorf("empty window produced estimate %+v", est)
	}

	// All-identical elevations: zero variance empties the selection.
	p := make([]photon.Photon, 30)
	members := make([]int, 30)
	for i := range p {
		p[i].Z = 0.1
		members[i] = i
	}
	est = classifyWindow(p, members, prior, &params)
	if len(est.SurfaceIndices) != 0 {
		t.Errorf("zero-variance window selected %d surface photons", len(est.SurfaceIndices))
	}
}
