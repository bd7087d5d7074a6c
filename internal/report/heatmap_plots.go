package report

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pinebai/opacplot2/internal/parser"
)

// fieldGrid adapts a (density, temperature) mat.Dense to plotter.GridXYZ.
// Columns map to temperature, rows to density; both axes are plotted as
// log10 of the physical value since the grids are log-spaced.
type fieldGrid struct {
	m    *mat.Dense
	logT []float64 // per column
	logN []float64 // per row
}

func newFieldGrid(m *mat.Dense, temp, nion []float64) fieldGrid {
	logs := func(x []float64) []float64 {
		out := make([]float64, len(x))
		for i, v := range x {
			out[i] = math.Log10(v)
		}
		return out
	}
	return fieldGrid{m: m, logT: logs(temp), logN: logs(nion)}
}

func (g fieldGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g fieldGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g fieldGrid) X(c int) float64    { return g.logT[c] }
func (g fieldGrid) Y(r int) float64    { return g.logN[r] }

// CreateFieldHeatmap renders a 2-D table field as a heatmap over
// (temperature, density), identified by its PROPACEOS key.
func CreateFieldHeatmap(t *parser.Table, key, title string) ([]byte, error) {
	m, ok := t.Field2D(key)
	if !ok {
		return nil, fmt.Errorf("unknown 2-D field %q", key)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "log10 Temperature (eV)"
	p.Y.Label.Text = "log10 Ion density (cm-3)"

	hm := plotter.NewHeatMap(newFieldGrid(m, t.Temp, t.Nion), palette.Heat(12, 255))
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	return renderPNG(p, vg.Points(640), vg.Points(420))
}
