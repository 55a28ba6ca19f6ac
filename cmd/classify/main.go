// Command classify labels a photon table with sea surface and bathymetry
// classes and smoothed elevation profiles. It reads the photon CSV from
// stdin or -input and writes the classified table to stdout or -output.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/bathy.report/internal/bathy"
	"github.com/banshee-data/bathy.report/internal/photon"
	"github.com/banshee-data/bathy.report/internal/report"
	"github.com/banshee-data/bathy.report/internal/runstore"
	"github.com/banshee-data/bathy.report/internal/score"
)

func main() {
	log.SetFlags(0)

	var (
		inputPath  = flag.String("input", "", "Input photon CSV (default stdin)")
		outputPath = flag.String("output", "", "Output CSV (default stdout)")
		paramsPath = flag.String("params", "", "JSON parameters file (flags override file values)")
		verbose    = flag.Bool("verbose", false, "Log progress and timing to stderr")
		dbPath     = flag.String("db", "", "Record the run in this sqlite database")
		reportPath = flag.String("report", "", "Write an interactive HTML report to this file")
		plotPath   = flag.String("plot", "", "Write a PNG profile figure to this file")
	)

	defaults := bathy.DefaultParams()
	var (
		xResolution        = flag.Float64("x-resolution", defaults.XResolution, "Horizontal window width (m)")
		zResolution        = flag.Float64("z-resolution", defaults.ZResolution, "Vertical bin width (m)")
		zMin               = flag.Float64("z-min", defaults.ZMin, "Elevation band lower bound (m)")
		zMax               = flag.Float64("z-max", defaults.ZMax, "Elevation band upper bound (m)")
		surfaceZMin        = flag.Float64("surface-z-min", defaults.SurfaceZMin, "Surface prior search band lower bound (m)")
		surfaceZMax        = flag.Float64("surface-z-max", defaults.SurfaceZMax, "Surface prior search band upper bound (m)")
		bathyMinDepth      = flag.Float64("bathy-min-depth", defaults.BathyMinDepth, "Minimum depth below surface for bathymetry (m)")
		verticalSigma      = flag.Float64("vertical-smoothing-sigma", defaults.VerticalSmoothingSigma, "PMF smoothing sigma (bins)")
		surfaceSigma       = flag.Float64("surface-smoothing-sigma", defaults.SurfaceSmoothingSigma, "Along-track surface smoothing sigma (m)")
		bathySigma         = flag.Float64("bathy-smoothing-sigma", defaults.BathySmoothingSigma, "Along-track bathy smoothing sigma (m)")
		minPeakProminence  = flag.Float64("min-peak-prominence", defaults.MinPeakProminence, "Minimum peak prominence (PMF units)")
		minPeakDistance    = flag.Int("min-peak-distance", defaults.MinPeakDistance, "Minimum peak separation (bins)")
		minSurfacePhotons  = flag.Int("min-surface-photons", defaults.MinSurfacePhotonsPerWindow, "Minimum surface photons per window (0 = derived)")
		minBathyPhotons    = flag.Int("min-bathy-photons", defaults.MinBathyPhotonsPerWindow, "Minimum bathy photons per window (0 = derived)")
		surfaceNStddev     = flag.Float64("surface-n-stddev", defaults.SurfaceNStddev, "Surface selection width (stddevs)")
		bathyNStddev       = flag.Float64("bathy-n-stddev", defaults.BathyNStddev, "Bathy selection width (stddevs)")
		surfaceMaxDistance = flag.Float64("surface-max-distance", defaults.SurfaceMaxDistance, "Surface membership pre-gate half-width (m)")
		bathyMaxDistance   = flag.Float64("bathy-max-distance", defaults.BathyMaxDistance, "Bathy membership pre-gate half-width (m)")
		usePredictions     = flag.Bool("use-predictions", defaults.UsePredictions, "Trust the existing prediction column for the surface")
	)
	flag.Parse()

	params := bathy.DefaultParams()
	if *paramsPath != "" {
		if err := params.ApplyFile(*paramsPath); err != nil {
			log.Fatalf("classify: %v", err)
		}
	}

	// Flags the user set explicitly override the params file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "x-resolution":
			params.XResolution = *xResolution
		case "z-resolution":
			params.ZResolution = *zResolution
		case "z-min":
			params.ZMin = *zMin
		case "z-max":
			params.ZMax = *zMax
		case "surface-z-min":
			params.SurfaceZMin = *surfaceZMin
		case "surface-z-max":
			params.SurfaceZMax = *surfaceZMax
		case "bathy-min-depth":
			params.BathyMinDepth = *bathyMinDepth
		case "vertical-smoothing-sigma":
			params.VerticalSmoothingSigma = *verticalSigma
		case "surface-smoothing-sigma":
			params.SurfaceSmoothingSigma = *surfaceSigma
		case "bathy-smoothing-sigma":
			params.BathySmoothingSigma = *bathySigma
		case "min-peak-prominence":
			params.MinPeakProminence = *minPeakProminence
		case "min-peak-distance":
			params.MinPeakDistance = *minPeakDistance
		case "min-surface-photons":
			params.MinSurfacePhotonsPerWindow = *minSurfacePhotons
		case "min-bathy-photons":
			params.MinBathyPhotonsPerWindow = *minBathyPhotons
		case "surface-n-stddev":
			params.SurfaceNStddev = *surfaceNStddev
		case "bathy-n-stddev":
			params.BathyNStddev = *bathyNStddev
		case "surface-max-distance":
			params.SurfaceMaxDistance = *surfaceMaxDistance
		case "bathy-max-distance":
			params.BathyMaxDistance = *bathyMaxDistance
		case "use-predictions":
			params.UsePredictions = *usePredictions
		}
	})

	if err := params.Validate(); err != nil {
		log.Fatalf("classify: %v", err)
	}

	if err := run(&params, *inputPath, *outputPath, *dbPath, *reportPath, *plotPath, *verbose); err != nil {
		log.Fatalf("classify: %v", err)
	}
}

func run(params *bathy.Params, inputPath, outputPath, dbPath, reportPath, plotPath string, verbose bool) error {
	in := io.Reader(os.Stdin)
	inputName := "stdin"
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
		inputName = inputPath
	}

	if verbose {
		log.Printf("Reading photons from %s", inputName)
	}

	totalStart := time.Now()
	table, err := photon.ReadCSV(in)
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("%d photons read", len(table.Photons))
		log.Printf("Classifying photons")
	}

	processStart := time.Now()
	classified := bathy.Classify(table.Photons, params)
	processElapsed := time.Since(processStart)

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := photon.WriteCSV(out, classified); err != nil {
		return err
	}
	totalElapsed := time.Since(totalStart)

	if verbose {
		n := float64(len(classified))
		s0 := totalElapsed.Seconds()
		s1 := processElapsed.Seconds()
		pps0, pps1 := 0.0, 0.0
		if s0 > 0 {
			pps0 = n / s0
		}
		if s1 > 0 {
			pps1 = n / s1
		}
		log.Printf("%d photons", len(classified))
		log.Printf("%.3f/%.3f total/process seconds", s0, s1)
		log.Printf("%.0f/%.0f total/process photons/second", pps0, pps1)
	}

	// Side outputs are best effort: a failed report or run record must not
	// fail a classification whose table was already written.
	if reportPath != "" {
		if err := report.WriteHTMLFile(reportPath, classified, "bathy.report "+inputName); err != nil {
			log.Printf("writing report: %v", err)
		} else if verbose {
			log.Printf("Report written to %s", reportPath)
		}
	}
	if plotPath != "" {
		if err := report.SavePNG(plotPath, classified, "bathy.report "+inputName); err != nil {
			log.Printf("writing plot: %v", err)
		} else if verbose {
			log.Printf("Plot written to %s", plotPath)
		}
	}
	if dbPath != "" {
		if err := recordRun(dbPath, inputName, params, classified, table.HasManualLabel, totalElapsed, processElapsed); err != nil {
			log.Printf("recording run: %v", err)
		} else if verbose {
			log.Printf("Run recorded in %s", dbPath)
		}
	}

	return nil
}

func recordRun(dbPath, inputName string, params *bathy.Params, classified []photon.Photon, hasLabels bool, total, process time.Duration) error {
	store, err := runstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := runstore.RunRecord{
		RunID:          uuid.NewString(),
		Input:          inputName,
		Photons:        len(classified),
		TotalSeconds:   total.Seconds(),
		ProcessSeconds: process.Seconds(),
		CreatedAt:      time.Now(),
	}
	rec.Params, err = json.Marshal(*params)
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}

	for i := range classified {
		switch classified[i].Prediction {
		case photon.ClassSeaSurface:
			rec.SurfaceCount++
		case photon.ClassBathymetry:
			rec.BathyCount++
		case photon.ClassUnclassified:
			rec.UnclassifiedCount++
		default:
			rec.UnprocessedCount++
		}
	}

	if hasLabels {
		res := score.Score(classified, score.DefaultClasses)
		summary := res.Summarize()
		rec.Scores, err = json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("encoding scores: %w", err)
		}
	}

	return store.InsertRun(rec)
}
