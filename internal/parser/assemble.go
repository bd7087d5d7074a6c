package parser

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// eosKeys are the fields tabulated on the EOS grid; opacKeys on the opacity
// grid. ionFracKey adds the ion species axis, mgKeys the photon group axis.
var (
	eosKeys  = []string{"zbar", "eint", "eele", "eion", "pion", "pele"}
	opacKeys = []string{"opp_int", "opr_int", "emp_int"}
	mgKeys   = []string{"opr_mg", "emp_mg", "opp_mg"}
)

// assemble reshapes the accumulated flat arrays into their final
// multidimensional form, validates every size against the grid counts
// discovered during the scan, removes the spurious QEOS density points from
// the EOS-gridded fields and computes the derived quantities. It is the
// only place a Table is constructed.
func (b *builder) assemble() (*Table, error) {
	if err := b.checkRequired(); err != nil {
		return nil, err
	}

	nGroups := len(b.groups) - 1

	t := &Table{
		NumIons: b.numIons,
		Znum:    b.znum,
		Anum:    b.anum,
		Xnum:    b.xnum,
		Groups:  b.groups,
		NGroups: nGroups,
	}

	// EOS-gridded scalar fields, (N_nion_eos, N_temp_eos).
	eos2d := make(map[string]*mat.Dense, len(eosKeys))
	for _, key := range eosKeys {
		m, err := reshape2D(key, b.flat[key], b.nNionEOS, b.nTempEOS)
		if err != nil {
			return nil, err
		}
		eos2d[key] = m
	}

	// Integrated opacities, (N_nion_opac, N_temp_opac).
	for _, key := range opacKeys {
		m, err := reshape2D(key, b.flat[key], b.nNionOpac, b.nTempOpac)
		if err != nil {
			return nil, err
		}
		switch key {
		case "opr_int":
			t.OprInt = m
		case "emp_int":
			t.EmpInt = m
		case "opp_int":
			t.OppInt = m
		}
	}

	// Ionization fractions, (N_nion_eos, N_temp_eos, Num_ions).
	ionFrac, err := reshapeCube("ion_frac", b.flat["ion_frac"], b.nNionEOS, b.nTempEOS, b.numIons)
	if err != nil {
		return nil, err
	}

	// Multigroup opacities: each section recurrence carried the spectrum of
	// one grid point, so concatenating in scan order yields the row-major
	// (N_nion_opac, N_temp_opac, N_groups) layout.
	for _, key := range mgKeys {
		var all []float64
		for _, spectrum := range b.mg[key] {
			all = append(all, spectrum...)
		}
		c, err := reshapeCube(key, all, b.nNionOpac, b.nTempOpac, nGroups)
		if err != nil {
			return nil, err
		}
		switch key {
		case "opr_mg":
			t.OprMg = c
		case "emp_mg":
			t.EmpMg = c
		case "opp_mg":
			t.OppMg = c
		}
	}

	// The QEOS model used to extend the EOS tables adds density points that
	// have no counterpart on the opacity grid. Keep only the EOS rows whose
	// density also appears in the opacity grid, then unify the axes on the
	// opacity grid.
	mask := make([]bool, b.nNionEOS)
	kept := 0
	for i, v := range b.nionEOS {
		for _, w := range b.nionOpac {
			if v == w {
				mask[i] = true
				kept++
				break
			}
		}
	}
	if kept != b.nNionOpac {
		return nil, &ShapeError{Field: "nion_eos", Want: []int{b.nNionOpac}, Got: kept}
	}

	t.Zbar = filterRows(eos2d["zbar"], mask, kept)
	t.Eint = filterRows(eos2d["eint"], mask, kept)
	t.Eele = filterRows(eos2d["eele"], mask, kept)
	t.Eion = filterRows(eos2d["eion"], mask, kept)
	t.Pion = filterRows(eos2d["pion"], mask, kept)
	t.Pele = filterRows(eos2d["pele"], mask, kept)
	t.IonFrac = filterCubeRows(ionFrac, mask, kept)

	t.Nion = b.nionOpac
	t.Temp = b.tempOpac

	// Derived quantities. EpsMg uses plain IEEE division: a zero absorption
	// opacity propagates as +Inf/NaN rather than being trapped.
	if len(b.xnum) != len(b.anum) {
		return nil, &ShapeError{Field: "Xnum", Want: []int{len(b.anum)}, Got: len(b.xnum)}
	}
	frac := make([]float64, len(b.xnum))
	copy(frac, b.xnum)
	floats.Div(frac, b.anum)
	t.Abar = 1 / floats.Sum(frac)

	t.Rho = make([]float64, len(t.Nion))
	for i, n := range t.Nion {
		t.Rho[i] = n * t.Abar / Avogadro
	}

	eps := make([]float64, len(t.EmpMg.Raw()))
	copy(eps, t.EmpMg.Raw())
	floats.Div(eps, t.OppMg.Raw())
	t.EpsMg, _ = NewCube(b.nNionOpac, b.nTempOpac, nGroups, eps)

	return t, nil
}

// checkRequired reports the first required quantity whose section never
// appeared in the file. Unrecognized sections are skipped silently during
// the scan, so an absent section only surfaces here.
func (b *builder) checkRequired() error {
	if b.numIons == 0 {
		return &MissingFieldError{Field: "Num_ions"}
	}
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"Znum", b.znum != nil},
		{"Anum", b.anum != nil},
		{"Xnum", b.xnum != nil},
		{"N_temp_eos", b.nTempEOS > 0},
		{"N_nion_eos", b.nNionEOS > 0},
		{"N_temp_opac", b.nTempOpac > 0},
		{"N_nion_opac", b.nNionOpac > 0},
	} {
		if !f.ok {
			return &MissingFieldError{Field: f.name}
		}
	}
	if len(b.groups) < 2 {
		return &MissingFieldError{Field: "groups"}
	}
	for _, key := range append(append([]string{"ion_frac"}, eosKeys...), opacKeys...) {
		if _, ok := b.flat[key]; !ok {
			return &MissingFieldError{Field: key}
		}
	}
	for _, key := range mgKeys {
		if len(b.mg[key]) == 0 {
			return &MissingFieldError{Field: key}
		}
	}
	return nil
}

func reshape2D(key string, data []float64, rows, cols int) (*mat.Dense, error) {
	if len(data) != rows*cols {
		return nil, &ShapeError{Field: key, Want: []int{rows, cols}, Got: len(data)}
	}
	return mat.NewDense(rows, cols, data), nil
}

func reshapeCube(key string, data []float64, ni, nj, nk int) (*Cube, error) {
	c, err := NewCube(ni, nj, nk, data)
	if err != nil {
		return nil, &ShapeError{Field: key, Want: []int{ni, nj, nk}, Got: len(data)}
	}
	return c, nil
}

// filterRows keeps the rows of m whose mask entry is set.
func filterRows(m *mat.Dense, mask []bool, kept int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(kept, cols, nil)
	r := 0
	for i, keep := range mask {
		if !keep {
			continue
		}
		out.SetRow(r, mat.Row(nil, i, m))
		r++
	}
	return out
}

// filterCubeRows keeps the leading-axis slices of c whose mask entry is set.
func filterCubeRows(c *Cube, mask []bool, kept int) *Cube {
	_, nj, nk := c.Dims()
	stride := nj * nk
	data := make([]float64, 0, kept*stride)
	for i, keep := range mask {
		if !keep {
			continue
		}
		data = append(data, c.Raw()[i*stride:(i+1)*stride]...)
	}
	out, _ := NewCube(kept, nj, nk, data)
	return out
}
