package main

import (
	"fmt"
	"log"

	"github.com/pinebai/opacplot2/internal/analysis"
	"github.com/pinebai/opacplot2/internal/export"
	"github.com/pinebai/opacplot2/internal/parser"
	"github.com/pinebai/opacplot2/internal/report"
)

type config struct {
	inPath  string
	binPath string
	pdfPath string
	epsTol  float64
	verbose bool
}

// run drives the pipeline: parse, summarize, then whichever outputs were
// requested. Any stage error aborts the run.
func run(cfg config) error {
	log.Printf("Parsing %s", cfg.inPath)
	table, err := parser.ParseFile(cfg.inPath)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", cfg.inPath, err)
	}
	log.Printf("Parsed table: %d ion species, %d temperatures x %d densities, %d photon groups",
		table.NumIons, len(table.Temp), len(table.Nion), table.NGroups)
	if cfg.verbose {
		log.Printf("Abar = %.4f, temperature %.3e - %.3e eV, density %.3e - %.3e cm-3",
			table.Abar, table.Temp[0], table.Temp[len(table.Temp)-1],
			table.Nion[0], table.Nion[len(table.Nion)-1])
	}

	if cfg.binPath != "" {
		log.Printf("Writing binary container %s", cfg.binPath)
		if err := export.Write(cfg.binPath, table); err != nil {
			return fmt.Errorf("exporting to %s: %w", cfg.binPath, err)
		}
	}

	if cfg.pdfPath == "" {
		return nil
	}

	log.Printf("Summarizing table (eps tolerance %.2f)", cfg.epsTol)
	sum, err := analysis.Summarize(table, cfg.epsTol)
	if err != nil {
		return fmt.Errorf("summarizing table: %w", err)
	}
	if cfg.verbose && sum.EpsOutliers > 0 {
		log.Printf("Warning: %d emission/absorption entries outside tolerance", sum.EpsOutliers)
	}

	log.Print("Generating plots")
	plots := make(map[string][]byte)
	plotJobs := []struct {
		key    string
		render func() ([]byte, error)
	}{
		{"spectrum", func() ([]byte, error) { return report.CreateSpectrumPlot(table) }},
		{"zbar", func() ([]byte, error) { return report.CreateZbarPlot(table) }},
		{"heatmap_zbar", func() ([]byte, error) { return report.CreateFieldHeatmap(table, "zbar", "Mean Ionization") }},
		{"heatmap_opr_int", func() ([]byte, error) {
			return report.CreateFieldHeatmap(table, "opr_int", "Integrated Rosseland Opacity")
		}},
	}
	for _, job := range plotJobs {
		img, err := job.render()
		if err != nil {
			// A failed plot degrades the report, it does not abort the run.
			log.Printf("Plot %s failed: %v", job.key, err)
			continue
		}
		plots[job.key] = img
		if cfg.verbose {
			log.Printf("Plot %s: %d bytes", job.key, len(img))
		}
	}

	log.Printf("Writing PDF report %s", cfg.pdfPath)
	if err := report.BuildPDFReport(cfg.pdfPath, sum, plots); err != nil {
		return fmt.Errorf("generating PDF report: %w", err)
	}
	return nil
}
