package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pinebai/opacplot2/internal/parser"
)

// summarizedFields lists the 2-D fields included in the report digest, in
// display order.
var summarizedFields = []struct {
	key  string
	name string
}{
	{"zbar", "Mean ionization"},
	{"eint", "Internal energy"},
	{"eion", "Ion energy"},
	{"eele", "Electron energy"},
	{"pion", "Ion pressure"},
	{"pele", "Electron pressure"},
	{"opr_int", "Int. Rosseland opacity"},
	{"emp_int", "Int. emis. Planck opacity"},
	{"opp_int", "Int. abs. Planck opacity"},
}

// Summarize computes the report digest for an assembled table. The table is
// not mutated. epsTol is the relative tolerance on the emission/absorption
// Planck ratio before a grid point is counted as an outlier.
func Summarize(t *parser.Table, epsTol float64) (*Summary, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot summarize a nil table")
	}

	s := &Summary{
		NumIons: t.NumIons,
		NTemp:   len(t.Temp),
		NNion:   len(t.Nion),
		NGroups: t.NGroups,
		Abar:    t.Abar,
		EpsTol:  epsTol,
	}
	if s.NTemp == 0 || s.NNion == 0 {
		return nil, fmt.Errorf("table has an empty grid (%d temperatures, %d densities)", s.NTemp, s.NNion)
	}

	s.TempMin, s.TempMax = floats.Min(t.Temp), floats.Max(t.Temp)
	s.NionMin, s.NionMax = floats.Min(t.Nion), floats.Max(t.Nion)
	s.RhoMin, s.RhoMax = floats.Min(t.Rho), floats.Max(t.Rho)

	for _, f := range summarizedFields {
		m, ok := t.Field2D(f.key)
		if !ok {
			return nil, fmt.Errorf("table is missing field %q", f.key)
		}
		data := m.RawMatrix().Data
		s.Fields = append(s.Fields, FieldStats{
			Key:  f.key,
			Name: f.name,
			Min:  floats.Min(data),
			Max:  floats.Max(data),
			Mean: stat.Mean(data, nil),
		})
	}

	s.Groups = groupStats(t)
	s.EpsOutliers = countEpsOutliers(t, epsTol)
	return s, nil
}

// groupStats reduces the multigroup opacities over the grid points, one
// entry per photon group.
func groupStats(t *parser.Table) []GroupStats {
	ni, nj, nk := t.OprMg.Dims()
	out := make([]GroupStats, 0, nk)
	ross := make([]float64, 0, ni*nj)
	abs := make([]float64, 0, ni*nj)
	emis := make([]float64, 0, ni*nj)
	for k := 0; k < nk; k++ {
		ross, abs, emis = ross[:0], abs[:0], emis[:0]
		for i := 0; i < ni; i++ {
			for j := 0; j < nj; j++ {
				ross = append(ross, t.OprMg.At(i, j, k))
				abs = append(abs, t.OppMg.At(i, j, k))
				emis = append(emis, t.EmpMg.At(i, j, k))
			}
		}
		out = append(out, GroupStats{
			Group:          k,
			ELo:            t.Groups[k],
			EHi:            t.Groups[k+1],
			RosselandMin:   floats.Min(ross),
			RosselandMax:   floats.Max(ross),
			PlanckAbsMean:  stat.Mean(abs, nil),
			PlanckEmisMean: stat.Mean(emis, nil),
		})
	}
	return out
}

func countEpsOutliers(t *parser.Table, tol float64) int {
	n := 0
	for _, eps := range t.EpsMg.Raw() {
		if math.IsNaN(eps) || math.IsInf(eps, 0) || math.Abs(eps-1) > tol {
			n++
		}
	}
	return n
}
