// Package export renders stored runs to image files.
package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/seonet/internal/sim"
)

// VoltagePlot draws one line per requested node, time in ns and voltage in mV.
// An empty nodes slice plots every node.
func VoltagePlot(title string, times []float64, voltages [][]float64, nodes []int) (*plot.Plot, error) {
	if len(voltages) == 0 || len(times) != len(voltages) {
		return nil, fmt.Errorf("no samples to plot")
	}
	if len(nodes) == 0 {
		for i := range voltages[0] {
			nodes = append(nodes, i)
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (ns)"
	p.Y.Label.Text = "V (mV)"
	p.Add(plotter.NewGrid())

	for i, node := range nodes {
		pts := make(plotter.XYs, 0, len(times))
		for k, row := range voltages {
			if node >= len(row) {
				continue
			}
			pts = append(pts, plotter.XY{X: times[k] * 1e9, Y: row[node] * 1e3})
		}
		if len(pts) == 0 {
			return nil, fmt.Errorf("node %d not present in samples", node)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("v%d", node), line)
	}
	return p, nil
}

// RasterPlot draws one dot per tunnel event at (time, node).
func RasterPlot(title string, events []sim.Event) (*plot.Plot, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("no events to plot")
	}
	pts := make(plotter.XYs, len(events))
	for i, e := range events {
		pts[i] = plotter.XY{X: e.Time * 1e9, Y: float64(e.Node)}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (ns)"
	p.Y.Label.Text = "node"

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(sc)
	return p, nil
}

// Save writes p to path; the format follows the extension (png, svg, pdf).
func Save(p *plot.Plot, path string, widthIn, heightIn float64) error {
	return p.Save(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, path)
}
