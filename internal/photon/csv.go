package photon

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column names of the photon table format.
const (
	ColIndex       = "index_ph"
	ColX           = "x_atc"
	ColZ           = "geoid_corr_h"
	ColManualLabel = "manual_label"
	ColPrediction  = "prediction"
	ColSurface     = "sea_surface_h"
	ColBathy       = "bathy_h"
)

// Table is a parsed photon table. The Has* flags record which optional
// columns were present in the input.
type Table struct {
	Photons []Photon

	HasManualLabel bool
	HasPrediction  bool
	HasSurface     bool
	HasBathy       bool
}

// ReadCSV parses a photon table from r. The first row must be a header
// carrying at least index_ph, x_atc and geoid_corr_h; optional columns are
// picked up when present. Carriage returns are stripped by the reader.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimSuffix(name, "\r"))] = i
	}

	idxCol, ok := cols[ColIndex]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", ColIndex)
	}
	xCol, ok := cols[ColX]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", ColX)
	}
	zCol, ok := cols[ColZ]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", ColZ)
	}

	t := &Table{}
	labelCol, hasLabel := cols[ColManualLabel]
	predCol, hasPred := cols[ColPrediction]
	surfCol, hasSurf := cols[ColSurface]
	bathyCol, hasBathy := cols[ColBathy]
	t.HasManualLabel = hasLabel
	t.HasPrediction = hasPred
	t.HasSurface = hasSurf
	t.HasBathy = hasBathy

	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}
		row++

		var p Photon
		p.Index, err = parseUint(rec[idxCol])
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", row, ColIndex, err)
		}
		p.X, err = parseFloat(rec[xCol])
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", row, ColX, err)
		}
		p.Z, err = parseFloat(rec[zCol])
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", row, ColZ, err)
		}
		if hasLabel {
			v, err := parseUint(rec[labelCol])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", row, ColManualLabel, err)
			}
			p.Class = uint8(v)
		}
		if hasPred {
			v, err := parseUint(rec[predCol])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", row, ColPrediction, err)
			}
			p.Prediction = uint8(v)
		}
		if hasSurf {
			p.SurfaceElevation, err = parseFloat(rec[surfCol])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", row, ColSurface, err)
			}
		}
		if hasBathy {
			p.BathyElevation, err = parseFloat(rec[bathyCol])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", row, ColBathy, err)
			}
		}
		t.Photons = append(t.Photons, p)
	}

	if len(t.Photons) == 0 {
		return nil, fmt.Errorf("no photon rows in input")
	}
	return t, nil
}

// WriteCSV writes the classified photon table to w with the fixed output
// header, one row per photon in input order. Floats are written to four
// decimal places.
func WriteCSV(w io.Writer, photons []Photon) error {
	cw := csv.NewWriter(w)
	header := []string{ColIndex, ColX, ColZ, ColManualLabel, ColPrediction, ColSurface, ColBathy}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	rec := make([]string, len(header))
	for i := range photons {
		p := &photons[i]
		rec[0] = strconv.FormatUint(p.Index, 10)
		rec[1] = strconv.FormatFloat(p.X, 'f', 4, 64)
		rec[2] = strconv.FormatFloat(p.Z, 'f', 4, 64)
		rec[3] = strconv.FormatUint(uint64(p.Class), 10)
		rec[4] = strconv.FormatUint(uint64(p.Prediction), 10)
		rec[5] = strconv.FormatFloat(p.SurfaceElevation, 'f', 4, 64)
		rec[6] = strconv.FormatFloat(p.BathyElevation, 'f', 4, 64)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q", s)
	}
	return v, nil
}

func parseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	// Some exporters write integer columns as floats ("41.0000").
	if i := strings.IndexByte(s, '.'); i >= 0 {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("invalid integer %q", s)
		}
		return uint64(f), nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}
