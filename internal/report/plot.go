package report

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/bathy.report/internal/photon"
)

var classColors = map[uint8]color.Color{
	photon.ClassUnprocessed:  color.RGBA{R: 158, G: 158, B: 158, A: 255},
	photon.ClassUnclassified: color.RGBA{R: 74, G: 74, B: 74, A: 255},
	photon.ClassSeaSurface:   color.RGBA{R: 49, G: 104, B: 142, A: 255},
	photon.ClassBathymetry:   color.RGBA{R: 181, G: 222, B: 43, A: 255},
}

// SavePNG writes a static along-track figure of the classified photons and
// the smoothed profiles to path.
func SavePNG(path string, photons []photon.Photon, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x_atc (m)"
	p.Y.Label.Text = "elevation (m)"

	for _, series := range classSeries {
		pts := make(plotter.XYs, 0)
		for i := range photons {
			if photons[i].Prediction == series.cls {
				pts = append(pts, plotter.XY{X: photons[i].X, Y: photons[i].Z})
			}
		}
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("building %s scatter: %w", series.name, err)
		}
		sc.GlyphStyle.Radius = vg.Points(1)
		sc.GlyphStyle.Color = classColors[series.cls]
		p.Add(sc)
		p.Legend.Add(series.name, sc)
	}

	surfLine, err := newProfileLine(photons, func(ph *photon.Photon) float64 { return ph.SurfaceElevation })
	if err != nil {
		return fmt.Errorf("building surface line: %w", err)
	}
	surfLine.Color = color.RGBA{R: 38, G: 130, B: 142, A: 255}
	p.Add(surfLine)
	p.Legend.Add("surface profile", surfLine)

	bathyLine, err := newProfileLine(photons, func(ph *photon.Photon) float64 { return ph.BathyElevation })
	if err != nil {
		return fmt.Errorf("building bathy line: %w", err)
	}
	bathyLine.Color = color.RGBA{R: 253, G: 231, B: 37, A: 255}
	p.Add(bathyLine)
	p.Legend.Add("bathy profile", bathyLine)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}

func newProfileLine(photons []photon.Photon, value func(*photon.Photon) float64) (*plotter.Line, error) {
	idx := make([]int, len(photons))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return photons[idx[a]].X < photons[idx[b]].X })

	pts := make(plotter.XYs, 0, len(idx))
	for _, i := range idx {
		pts = append(pts, plotter.XY{X: photons[i].X, Y: value(&photons[i])})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(1)
	return line, nil
}
