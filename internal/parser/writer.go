package parser

import (
	"fmt"
	"strings"
)

// valuesPerLine is the fixed wrap width of PROPACEOS grid arrays: ten
// values per line, which is what the ceil(N/10) continuation-line rule in
// the grid parser assumes.
const valuesPerLine = 10

// FormatArray renders a 1-D grid array in the fixed-width PROPACEOS layout:
// "% .5e" values, two-space separated, ten per line, each line prefixed
// with indent spaces.
func FormatArray(x []float64, indent int) string {
	var sb strings.Builder
	prefix := strings.Repeat(" ", indent)
	for i, v := range x {
		if i%valuesPerLine == 0 {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(prefix)
		} else {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "% .5e", v)
	}
	return sb.String()
}

// FormatMesh renders temperature and density arrays as a mesh-parameters
// section body: each array preceded by its count on its own line. Output of
// FormatMesh re-parses through the grid parser to the original arrays.
func FormatMesh(temp, dens []float64) string {
	var sb strings.Builder
	for _, x := range [][]float64{temp, dens} {
		fmt.Fprintf(&sb, "%d\n", len(x))
		sb.WriteString(FormatArray(x, 1))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatGridValues renders density and temperature arrays as a
// "[Grid Values]" section, repeated for the opacity and EOS grids.
func FormatGridValues(dens, temp []float64) string {
	out := []string{"[Grid Values]:\n   Format ID = 1\n#"}
	for _, section := range []string{"Opacity", "EOS"} {
		for _, v := range []struct {
			name string
			x    []float64
		}{{"Temperature", temp}, {"Density", dens}} {
			out = append(out, fmt.Sprintf(" %s grid - %s:    # array elements = %d    [format=1]",
				v.name, section, len(v.x)))
			out = append(out, FormatArray(v.x, 3))
		}
	}
	out = append(out, "[End Grid Values]")
	return strings.Join(out, "\n")
}

// FormatGridParameters renders density, temperature and photon-energy
// boundary arrays as a "[Propaceos Grid Parameters]" section.
func FormatGridParameters(dens, temp, nu []float64) string {
	var out []string
	for _, v := range []struct {
		title, plural string
		x             []float64
	}{
		{"Plasma Temperature", "Plasma Temperatures", temp},
		{"Density", "Densities", dens},
		{"Photon Energy", "Photon Energy Boundaries", nu},
	} {
		out = append(out,
			fmt.Sprintf(" [table format=1]:    %s Grid:", v.title),
			fmt.Sprintf("  # table rows = %d", len(v.x)),
			"  # table cols = 1",
			v.plural+":",
			FormatArray(v.x, 1))
	}
	out = append(out, "#\n [End Propaceos Grid Parameters] ")
	return strings.Join(out, "\n")
}
