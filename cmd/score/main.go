// Command score compares a classified photon table against its manual
// labels and prints per-class and weighted agreement metrics.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/bathy.report/internal/photon"
	"github.com/banshee-data/bathy.report/internal/score"
)

func main() {
	log.SetFlags(0)

	inputPath := flag.String("input", "", "Classified photon CSV (default stdin)")
	verbose := flag.Bool("verbose", false, "Log progress to stderr")
	flag.Parse()

	if err := run(*inputPath, *verbose); err != nil {
		log.Fatalf("score: %v", err)
	}
}

func run(inputPath string, verbose bool) error {
	in := io.Reader(os.Stdin)
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	table, err := photon.ReadCSV(in)
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("%d photons read", len(table.Photons))
		if table.HasManualLabel {
			log.Printf("Table contains manual labels")
		} else {
			log.Printf("Table does NOT contain manual labels")
		}
		if table.HasPrediction {
			log.Printf("Table contains predictions")
		} else {
			log.Printf("Table does NOT contain predictions")
		}
	}
	if !table.HasManualLabel {
		return fmt.Errorf("input has no %s column to score against", photon.ColManualLabel)
	}
	if !table.HasPrediction {
		return fmt.Errorf("input has no %s column to score", photon.ColPrediction)
	}

	if verbose {
		log.Printf("Scoring classes %v", score.DefaultClasses)
	}
	res := score.Score(table.Photons, score.DefaultClasses)
	return res.Write(os.Stdout)
}
