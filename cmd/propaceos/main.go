// Command propaceos converts a PROPACEOS ASCII opacity/EOS table into a
// binary array container and, optionally, a PDF summary report.
//
// Usage:
//
//	propaceos -in table.prp [-bin table.opb] [-pdf report.pdf] [-eps-tol 0.05] [-v]
package main

import (
	"flag"
	"log"
	"os"
)

func main() {
	cfg := config{}
	flag.StringVar(&cfg.inPath, "in", "", "input PROPACEOS ASCII file (.prp), required")
	flag.StringVar(&cfg.binPath, "bin", "", "write the table to this binary container file")
	flag.StringVar(&cfg.pdfPath, "pdf", "", "write a PDF summary report to this file")
	flag.Float64Var(&cfg.epsTol, "eps-tol", 0.05, "relative tolerance on the emission/absorption Planck ratio")
	flag.BoolVar(&cfg.verbose, "v", false, "log per-stage details")
	flag.Parse()

	if cfg.inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("propaceos: %v", err)
	}
}
