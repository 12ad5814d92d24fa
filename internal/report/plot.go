package report

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SaveScatter draws the first two features of every object, coloured by
// cluster, and saves the plot to path. The image format follows the file
// extension (png, svg, pdf...). One-dimensional data is drawn on y = 0.
// Objects with a negative label are drawn as noise.
func SaveScatter(path string, data [][]float64, labels []int, title string) error {
	if len(data) == 0 {
		return errors.New("report: scatter: no data")
	}
	if len(labels) != len(data) {
		return fmt.Errorf("report: scatter: %d labels for %d points", len(labels), len(data))
	}

	groups := make(map[int]plotter.XYs)
	for i, row := range data {
		var xy plotter.XY
		switch len(row) {
		case 0:
			return fmt.Errorf("report: scatter: point %d has no features", i)
		case 1:
			xy = plotter.XY{X: row[0]}
		default:
			xy = plotter.XY{X: row[0], Y: row[1]}
		}
		groups[labels[i]] = append(groups[labels[i]], xy)
	}
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x0"
	p.Y.Label.Text = "x1"
	p.Add(plotter.NewGrid())

	for _, id := range ids {
		s, err := plotter.NewScatter(groups[id])
		if err != nil {
			return fmt.Errorf("report: scatter: %w", err)
		}
		name := fmt.Sprintf("cluster %d", id+1)
		if id < 0 {
			name = "noise"
			s.GlyphStyle.Shape = draw.CrossGlyph{}
		} else {
			s.GlyphStyle.Color = plotutil.Color(id)
			s.GlyphStyle.Shape = plotutil.Shape(id)
		}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(name, s)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save scatter: %w", err)
	}
	return nil
}
