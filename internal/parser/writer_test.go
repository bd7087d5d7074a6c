package parser

import (
	"strings"
	"testing"
)

func TestFormatMeshRoundTrip(t *testing.T) {
	temp := make([]float64, 23)
	dens := make([]float64, 17)
	for i := range temp {
		temp[i] = 0.5 * float64(i+1)
	}
	for i := range dens {
		dens[i] = 1.3e19 * float64(i+1)
	}

	b := newBuilder()
	body := strings.Split(FormatMesh(temp, dens), "\n")
	if err := b.parseGrid(body, "opac"); err != nil {
		t.Fatalf("re-parsing formatted mesh: %v", err)
	}

	if b.nTempOpac != len(temp) || b.nNionOpac != len(dens) {
		t.Fatalf("counts = (%d,%d), want (%d,%d)", b.nTempOpac, b.nNionOpac, len(temp), len(dens))
	}
	for i, want := range temp {
		if !almostEqual(b.tempOpac[i], want, 1e-5) {
			t.Errorf("temp[%d] = %v, want %v", i, b.tempOpac[i], want)
		}
	}
	for i, want := range dens {
		if !almostEqual(b.nionOpac[i], want, 1e-5) {
			t.Errorf("dens[%d] = %v, want %v", i, b.nionOpac[i], want)
		}
	}
}

func TestFormatArrayLayout(t *testing.T) {
	x := make([]float64, 25)
	for i := range x {
		x[i] = float64(i)
	}
	lines := strings.Split(FormatArray(x, 3), "\n")
	if len(lines) != 3 {
		t.Fatalf("25 values wrapped to %d lines, want 3", len(lines))
	}
	for i, l := range lines {
		if !strings.HasPrefix(l, "   ") {
			t.Errorf("line %d missing indent: %q", i, l)
		}
		want := valuesPerLine
		if i == len(lines)-1 {
			want = len(x) % valuesPerLine
		}
		if got := len(strings.Fields(l)); got != want {
			t.Errorf("line %d has %d values, want %d", i, got, want)
		}
	}
}

func TestFormatArrayNegativeValues(t *testing.T) {
	out := FormatArray([]float64{-1.5, 2.5}, 0)
	vals, err := parseFloats([]string{out}, "writer test")
	if err != nil {
		t.Fatalf("formatted output did not re-parse: %v", err)
	}
	if vals[0] != -1.5 || vals[1] != 2.5 {
		t.Errorf("round trip = %v, want [-1.5 2.5]", vals)
	}
}

func TestFormatGridValuesLayout(t *testing.T) {
	out := FormatGridValues([]float64{1e20, 2e20}, []float64{1, 2})
	for _, want := range []string{
		"[Grid Values]:",
		"Format ID = 1",
		" Temperature grid - Opacity:    # array elements = 2    [format=1]",
		" Density grid - EOS:    # array elements = 2    [format=1]",
		"[End Grid Values]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("grid values output missing %q", want)
		}
	}
}

func TestFormatGridParametersLayout(t *testing.T) {
	out := FormatGridParameters([]float64{1e20}, []float64{1}, []float64{0.1, 1e4})
	for _, want := range []string{
		" [table format=1]:    Plasma Temperature Grid:",
		"  # table rows = 1",
		"Photon Energy Boundaries:",
		"  # table rows = 2",
		" [End Propaceos Grid Parameters] ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("grid parameters output missing %q", want)
		}
	}
}
