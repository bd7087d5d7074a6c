package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pinebai/opacplot2/internal/parser"
)

var plotColors = []color.Color{
	color.RGBA{R: 214, G: 39, B: 40, A: 255},  // red
	color.RGBA{R: 44, G: 160, B: 44, A: 255},  // green
	color.RGBA{R: 31, G: 119, B: 180, A: 255}, // blue
	color.RGBA{R: 255, G: 127, B: 14, A: 255}, // orange
	color.RGBA{R: 148, G: 103, B: 189, A: 255}, // purple
	color.RGBA{R: 23, G: 190, B: 207, A: 255}, // teal
}

// groupCenters returns a representative photon energy per group: the
// geometric mean of the group boundaries, which suits the log-spaced grids
// PROPACEOS uses.
func groupCenters(groups []float64) []float64 {
	out := make([]float64, len(groups)-1)
	for i := range out {
		lo, hi := groups[i], groups[i+1]
		if lo > 0 && hi > 0 {
			out[i] = math.Sqrt(lo * hi)
		} else {
			out[i] = 0.5 * (lo + hi)
		}
	}
	return out
}

// CreateSpectrumPlot renders the multigroup Rosseland opacity against
// photon energy at the four corners of the (density, temperature) grid,
// log-log. Returns the plot as PNG bytes.
func CreateSpectrumPlot(t *parser.Table) ([]byte, error) {
	ni, nj, nk := t.OprMg.Dims()
	if nk == 0 {
		return nil, fmt.Errorf("no photon groups to plot")
	}

	p := plot.New()
	p.Title.Text = "Multigroup Rosseland Opacity"
	p.X.Label.Text = "Photon energy (eV)"
	p.Y.Label.Text = "Opacity (cm2/g)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	centers := groupCenters(t.Groups)
	corners := [][2]int{{0, 0}, {0, nj - 1}, {ni - 1, 0}, {ni - 1, nj - 1}}
	colorIndex := 0
	plotted := false
	for _, c := range corners {
		i, j := c[0], c[1]
		pts := make(plotter.XYs, 0, nk)
		for k := 0; k < nk; k++ {
			v := t.OprMg.At(i, j, k)
			// Log axes cannot take non-positive values.
			if v > 0 && centers[k] > 0 {
				pts = append(pts, plotter.XY{X: centers[k], Y: v})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create spectrum line: %w", err)
		}
		line.Color = plotColors[colorIndex%len(plotColors)]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("nion=%.2e cm-3, T=%.3g eV", t.Nion[i], t.Temp[j]), line)
		colorIndex++
		plotted = true
	}
	if !plotted {
		return nil, fmt.Errorf("no positive opacity values to plot on log axes")
	}

	p.Legend.Top = true
	return renderPNG(p, vg.Points(640), vg.Points(420))
}

// CreateZbarPlot renders the mean ionization against temperature, one line
// per density point (subsampled to at most maxLines lines).
func CreateZbarPlot(t *parser.Table) ([]byte, error) {
	const maxLines = 6

	p := plot.New()
	p.Title.Text = "Mean Ionization"
	p.X.Label.Text = "Temperature (eV)"
	p.Y.Label.Text = "Zbar"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	ni, nj := t.Zbar.Dims()
	stride := 1
	if ni > maxLines {
		stride = (ni + maxLines - 1) / maxLines
	}
	colorIndex := 0
	for i := 0; i < ni; i += stride {
		pts := make(plotter.XYs, 0, nj)
		for j := 0; j < nj; j++ {
			if t.Temp[j] > 0 {
				pts = append(pts, plotter.XY{X: t.Temp[j], Y: t.Zbar.At(i, j)})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create zbar line: %w", err)
		}
		line.Color = plotColors[colorIndex%len(plotColors)]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("nion=%.2e cm-3", t.Nion[i]), line)
		colorIndex++
	}

	p.Legend.Top = true
	p.Legend.Left = true
	return renderPNG(p, vg.Points(640), vg.Points(420))
}

func renderPNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	writer, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to render plot: %w", err)
	}
	return buf.Bytes(), nil
}
