package parser

import "gonum.org/v1/gonum/mat"

// Avogadro is the CODATA 2018 Avogadro constant in mol^-1, used to convert
// ion number densities (cm^-3) into mass densities (g/cm^3).
const Avogadro = 6.02214076e23

// Cube is a dense rank-3 array stored row-major over (i, j, k). The parser
// uses it for quantities indexed by (density point, temperature point, X)
// where X is an ion species or a photon energy group.
type Cube struct {
	ni, nj, nk int
	data       []float64
}

// NewCube wraps data as an ni x nj x nk cube. The data slice is retained,
// not copied, and its length must equal ni*nj*nk.
func NewCube(ni, nj, nk int, data []float64) (*Cube, error) {
	if want := ni * nj * nk; len(data) != want {
		return nil, &ShapeError{Field: "cube", Want: []int{ni, nj, nk}, Got: len(data)}
	}
	return &Cube{ni: ni, nj: nj, nk: nk, data: data}, nil
}

// Dims returns the cube dimensions.
func (c *Cube) Dims() (ni, nj, nk int) { return c.ni, c.nj, c.nk }

// At returns the element at (i, j, k).
func (c *Cube) At(i, j, k int) float64 {
	if i < 0 || i >= c.ni || j < 0 || j >= c.nj || k < 0 || k >= c.nk {
		panic("parser: cube index out of range")
	}
	return c.data[(i*c.nj+j)*c.nk+k]
}

// Raw returns the backing slice in row-major order.
func (c *Cube) Raw() []float64 { return c.data }

// Table is the assembled PROPACEOS table. All grids and tabulated fields
// share the unified density/temperature axes: 2-D fields are indexed
// (density point, temperature point), the rank-3 fields add an ion species
// or photon group axis. A Table is built once per parse and never mutated
// afterwards.
type Table struct {
	// Plasma composition, from the global header.
	NumIons int
	Znum    []float64 // atomic numbers of the constituent gases
	Anum    []float64 // atomic weights
	Xnum    []float64 // relative fractions
	Abar    float64   // mean atomic weight, 1/sum(Xnum/Anum)

	// Unified grids (taken from the opacity grid after QEOS point removal).
	Temp    []float64 // plasma temperature, eV
	Nion    []float64 // ion number density, cm^-3
	Rho     []float64 // mass density, g/cm^3: Nion*Abar/Avogadro
	Groups  []float64 // photon energy group boundaries, eV
	NGroups int       // len(Groups) - 1

	// Equation of state, (Nion, Temp).
	Zbar *mat.Dense // mean ionization
	Eint *mat.Dense // total internal energy
	Eion *mat.Dense // ion internal energy
	Eele *mat.Dense // electron internal energy
	Pion *mat.Dense // ion pressure
	Pele *mat.Dense // electron pressure

	// Ionization fractions, (Nion, Temp, NumIons).
	IonFrac *Cube

	// Integrated mean opacities, (Nion, Temp).
	OprInt *mat.Dense // Rosseland
	EmpInt *mat.Dense // emission Planck
	OppInt *mat.Dense // absorption Planck

	// Multigroup mean opacities, (Nion, Temp, NGroups).
	OprMg *Cube // Rosseland
	EmpMg *Cube // emission Planck
	OppMg *Cube // absorption Planck
	EpsMg *Cube // emission/absorption ratio, EmpMg/OppMg
}

// Field2D returns the 2-D field registered under the given PROPACEOS key
// (zbar, eint, eion, eele, pion, pele, opr_int, emp_int, opp_int).
func (t *Table) Field2D(key string) (*mat.Dense, bool) {
	switch key {
	case "zbar":
		return t.Zbar, t.Zbar != nil
	case "eint":
		return t.Eint, t.Eint != nil
	case "eion":
		return t.Eion, t.Eion != nil
	case "eele":
		return t.Eele, t.Eele != nil
	case "pion":
		return t.Pion, t.Pion != nil
	case "pele":
		return t.Pele, t.Pele != nil
	case "opr_int":
		return t.OprInt, t.OprInt != nil
	case "emp_int":
		return t.EmpInt, t.EmpInt != nil
	case "opp_int":
		return t.OppInt, t.OppInt != nil
	}
	return nil, false
}

// Field3D returns the rank-3 field registered under the given PROPACEOS key
// (ion_frac, opr_mg, emp_mg, opp_mg, eps_mg).
func (t *Table) Field3D(key string) (*Cube, bool) {
	switch key {
	case "ion_frac":
		return t.IonFrac, t.IonFrac != nil
	case "opr_mg":
		return t.OprMg, t.OprMg != nil
	case "emp_mg":
		return t.EmpMg, t.EmpMg != nil
	case "opp_mg":
		return t.OppMg, t.OppMg != nil
	case "eps_mg":
		return t.EpsMg, t.EpsMg != nil
	}
	return nil, false
}
