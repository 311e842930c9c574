package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Sample is one (config, latency) point for a single index structure and
// operation, the unit chart.go plots a line over.
type Sample struct {
	Config    float64
	LatencyNs float64
}

// SaveLatencyChart renders one line per index structure, config on the X
// axis and mean operation latency on the Y axis, to a PNG at path.
func SaveLatencyChart(path, title string, series map[string][]Sample) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Config"
	p.Y.Label.Text = "Latency (ns/op)"

	i := 0
	for name, samples := range series {
		pts := make(plotter.XYs, len(samples))
		for j, s := range samples {
			pts[j].X = s.Config
			pts[j].Y = s.LatencyNs
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("report: building series %q: %w", name, err)
		}
		color := plotutil.Color(i)
		line.Color = color
		points.Color = color
		p.Add(line, points)
		p.Legend.Add(name, line, points)
		i++
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
