package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/pinebai/opacplot2/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// pdfStyler holds reusable styling and flow state for PDF generation.
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - (2 * pdfMargin),
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.pdf.AddPage()
		s.currentY = s.contentTopY
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight * 2)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// writeTable renders headers and rows as a bordered table with relative
// column widths, breaking pages between rows as needed.
func (s *pdfStyler) writeTable(headers []string, colWidthsRel []float64, rows [][]string) {
	colWidthsAbs := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidthsAbs[i] = rel * pdfContentWidth
	}

	s.checkAddPage(s.lineHeight * 2)
	sY := s.currentY
	sX := pdfMargin
	s.applyStyle("tableHeader")
	for i, header := range headers {
		s.pdf.SetXY(sX, sY)
		s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
		sX += colWidthsAbs[i]
	}
	s.currentY = sY + s.lineHeight

	s.applyStyle("tableCell")
	for _, row := range rows {
		s.checkAddPage(s.lineHeight)
		sY = s.currentY
		sX = pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(sX, sY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += colWidthsAbs[i]
		}
		s.currentY = sY + s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}
	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height
	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// BuildPDFReport writes a table summary report: composition and grid
// overview, per-field and per-group statistics, then the rendered plots.
// plotImages maps plot keys (spectrum, zbar, heatmap_<field>) to PNG bytes;
// missing plots are noted, not fatal.
func BuildPDFReport(filepath string, sum *analysis.Summary, plotImages map[string][]byte) error {
	if sum == nil {
		return fmt.Errorf("no summary to report")
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()
	styler := newPDFStyler(pdf)

	styler.writeParagraph("PROPACEOS Opacity and EOS Table Report", "h1", "C")
	styler.addSpacer(5)

	styler.writeParagraph(fmt.Sprintf("Ion species: %d    Mean atomic weight Abar = %.4f", sum.NumIons, sum.Abar), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Grid: %d temperatures x %d densities, %d photon groups", sum.NTemp, sum.NNion, sum.NGroups), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Temperature: %.3e - %.3e eV", sum.TempMin, sum.TempMax), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Ion density: %.3e - %.3e cm-3    Mass density: %.3e - %.3e g/cm3",
		sum.NionMin, sum.NionMax, sum.RhoMin, sum.RhoMax), "normal", "L")
	styler.addSpacer(5)

	styler.writeParagraph("Field Statistics", "h2", "L")
	fieldRows := make([][]string, 0, len(sum.Fields))
	for _, f := range sum.Fields {
		fieldRows = append(fieldRows, []string{
			f.Name,
			f.Key,
			fmt.Sprintf("%.4e", f.Min),
			fmt.Sprintf("%.4e", f.Max),
			fmt.Sprintf("%.4e", f.Mean),
		})
	}
	styler.writeTable(
		[]string{"Field", "Key", "Min", "Max", "Mean"},
		[]float64{0.3, 0.1, 0.2, 0.2, 0.2},
		fieldRows)
	styler.addSpacer(5)

	styler.writeParagraph("Photon Group Statistics", "h2", "L")
	groupRows := make([][]string, 0, len(sum.Groups))
	for _, g := range sum.Groups {
		groupRows = append(groupRows, []string{
			fmt.Sprintf("%d", g.Group+1),
			fmt.Sprintf("%.3e - %.3e", g.ELo, g.EHi),
			fmt.Sprintf("%.4e", g.RosselandMin),
			fmt.Sprintf("%.4e", g.RosselandMax),
			fmt.Sprintf("%.4e", g.PlanckEmisMean),
			fmt.Sprintf("%.4e", g.PlanckAbsMean),
		})
	}
	styler.writeTable(
		[]string{"Group", "Energy range (eV)", "Rosseland min", "Rosseland max", "Planck emis. mean", "Planck abs. mean"},
		[]float64{0.08, 0.24, 0.17, 0.17, 0.17, 0.17},
		groupRows)
	styler.addSpacer(5)

	epsNote := fmt.Sprintf("Emission/absorption consistency: %d of %d entries deviate from unity by more than %.0f%% (or are non-finite).",
		sum.EpsOutliers, sum.NNion*sum.NTemp*sum.NGroups, sum.EpsTol*100)
	styler.writeParagraph(epsNote, "normal", "L")

	plotDefs := []struct {
		Key     string
		Title   string
		Caption string
	}{
		{"spectrum", "Multigroup Opacity Spectrum", "Rosseland opacity vs photon energy at the grid corners"},
		{"zbar", "Mean Ionization", "Zbar vs temperature per density point"},
		{"heatmap_zbar", "Mean Ionization Heatmap", "Zbar over the (temperature, density) grid"},
		{"heatmap_opr_int", "Integrated Rosseland Opacity Heatmap", "Int. Rosseland opacity over the (temperature, density) grid"},
	}
	imgWidth := pdfContentWidth * 0.75
	imgHeight := imgWidth * (420.0 / 640.0)
	for _, pDef := range plotDefs {
		styler.newPage()
		styler.writeParagraph(pDef.Title, "h2", "L")
		if imgBytes, ok := plotImages[pDef.Key]; ok && len(imgBytes) > 0 {
			styler.addImage(imgBytes, pDef.Key, imgWidth, imgHeight, pDef.Caption)
		} else {
			styler.writeParagraph(fmt.Sprintf("Plot for %s not available.", pDef.Title), "normal", "L")
		}
	}

	return pdf.OutputFileAndClose(filepath)
}
