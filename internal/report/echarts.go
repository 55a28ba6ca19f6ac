// Package report renders classified photon tables as charts: an
// interactive go-echarts HTML page and a static gonum/plot figure.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/bathy.report/internal/photon"
)

// maxScatterPoints caps the number of photons embedded in the HTML report;
// larger inputs are downsampled by stride per class.
const maxScatterPoints = 8000

var classSeries = []struct {
	cls   uint8
	name  string
	color string
}{
	{photon.ClassUnprocessed, "unprocessed", "#9e9e9e"},
	{photon.ClassUnclassified, "unclassified", "#4a4a4a"},
	{photon.ClassSeaSurface, "sea surface", "#31688e"},
	{photon.ClassBathymetry, "bathymetry", "#b5de2b"},
}

// WriteHTML renders an interactive along-track view of the classified
// photons: one scatter series per class plus the smoothed surface and
// bathy profile lines.
func WriteHTML(w io.Writer, photons []photon.Photon, title string) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1400px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("photons=%d", len(photons))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x_atc (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "elevation (m)", NameLocation: "middle", NameGap: 35}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	for _, series := range classSeries {
		var members []int
		for i := range photons {
			if photons[i].Prediction == series.cls {
				members = append(members, i)
			}
		}
		if len(members) == 0 {
			continue
		}
		stride := 1
		if len(members) > maxScatterPoints {
			stride = len(members)/maxScatterPoints + 1
		}
		data := make([]opts.ScatterData, 0, len(members)/stride+1)
		for j := 0; j < len(members); j += stride {
			p := &photons[members[j]]
			data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Z}})
		}
		scatter.AddSeries(series.name, data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: series.color}),
		)
	}

	line := charts.NewLine()
	line.AddSeries("surface profile", profileLine(photons, func(p *photon.Photon) float64 { return p.SurfaceElevation }),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#26828e"}),
	)
	line.AddSeries("bathy profile", profileLine(photons, func(p *photon.Photon) float64 { return p.BathyElevation }),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#fde725"}),
	)
	scatter.Overlap(line)

	return scatter.Render(w)
}

// WriteHTMLFile renders the report to a file.
func WriteHTMLFile(path string, photons []photon.Photon, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()
	if err := WriteHTML(f, photons, title); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// profileLine samples one smoothed elevation profile along track, ordered
// by x.
func profileLine(photons []photon.Photon, value func(*photon.Photon) float64) []opts.LineData {
	idx := make([]int, len(photons))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return photons[idx[a]].X < photons[idx[b]].X })

	stride := 1
	if len(idx) > maxScatterPoints {
		stride = len(idx)/maxScatterPoints + 1
	}
	data := make([]opts.LineData, 0, len(idx)/stride+1)
	for j := 0; j < len(idx); j += stride {
		p := &photons[idx[j]]
		data = append(data, opts.LineData{Value: []interface{}{p.X, value(p)}})
	}
	return data
}
