// Command gen-photons emits a synthetic along-track photon table with a
// sea-surface peak, a seabed peak, and background noise, labelled so the
// output can be fed through classify and score.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/banshee-data/bathy.report/internal/photon"
)

func main() {
	log.SetFlags(0)

	var (
		total      = flag.Int("photons", 20000, "Number of photons to generate")
		seed       = flag.Int64("seed", 12345, "Random seed")
		extent     = flag.Float64("extent", 2000, "Along-track extent (m)")
		surface    = flag.Float64("surface", 0.0, "Sea-surface elevation (m)")
		depth      = flag.Float64("depth", 8.0, "Water depth at the deep end (m)")
		noiseFrac  = flag.Float64("noise", 0.15, "Fraction of background noise photons")
		outputPath = flag.String("output", "", "Output CSV (default stdout)")
	)
	flag.Parse()

	if *total <= 0 {
		log.Fatal("gen-photons: -photons must be positive")
	}
	if *depth <= 0 {
		log.Fatal("gen-photons: -depth must be positive")
	}

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			log.Fatalf("gen-photons: %v", err)
		}
		defer f.Close()
		out = f
	}

	photons := generate(*total, *seed, *extent, *surface, *depth, *noiseFrac)
	if err := photon.WriteCSV(out, photons); err != nil {
		log.Fatalf("gen-photons: %v", err)
	}
	fmt.Fprintf(os.Stderr, "%d photons generated\n", len(photons))
}

// generate builds a shallowing track: the seabed rises linearly from -depth
// below the surface at x=0 to the surface at x=extent. Surface returns are
// roughly four times as dense as seabed returns, matching the relative
// strengths seen in real waveforms.
func generate(total int, seed int64, extent, surface, depth, noiseFrac float64) []photon.Photon {
	rng := rand.New(rand.NewSource(seed))
	photons := make([]photon.Photon, total)

	for i := range photons {
		x := rng.Float64() * extent
		p := &photons[i]
		p.Index = uint64(i)
		p.X = x

		switch r := rng.Float64(); {
		case r < noiseFrac:
			// Background: uniform over the water column and above.
			p.Z = surface - depth - 2 + rng.Float64()*(depth+12)
			p.Class = photon.ClassUnprocessed
		case r < noiseFrac+(1-noiseFrac)/5:
			// Seabed return.
			bed := surface - depth*(1-x/extent)
			p.Z = bed + rng.NormFloat64()*0.25
			p.Class = photon.ClassBathymetry
		default:
			// Surface return.
			p.Z = surface + rng.NormFloat64()*0.15
			p.Class = photon.ClassSeaSurface
		}
	}
	return photons
}
