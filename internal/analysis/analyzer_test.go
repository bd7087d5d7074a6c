package analysis

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/pinebai/opacplot2/internal/parser"
)

func testTable(t *testing.T) *parser.Table {
	t.Helper()
	mustCube := func(ni, nj, nk int, data []float64) *parser.Cube {
		c, err := parser.NewCube(ni, nj, nk, data)
		if err != nil {
			t.Fatalf("building cube: %v", err)
		}
		return c
	}
	tab := &parser.Table{
		NumIons: 1,
		Znum:    []float64{13},
		Anum:    []float64{26.98},
		Xnum:    []float64{1},
		Abar:    26.98,
		Temp:    []float64{1, 10},
		Nion:    []float64{1e20, 1e21},
		Rho:     []float64{4.48e-3, 4.48e-2},
		Groups:  []float64{0.1, 1e4},
		NGroups: 1,
		IonFrac: mustCube(2, 2, 1, []float64{1, 1, 1, 1}),
		OprMg:   mustCube(2, 2, 1, []float64{1, 2, 3, 4}),
		EmpMg:   mustCube(2, 2, 1, []float64{2, 2, 2, 2}),
		OppMg:   mustCube(2, 2, 1, []float64{2, 2, 2, 0}),
		EpsMg:   mustCube(2, 2, 1, []float64{1, 1, 1, math.Inf(1)}),
	}
	for _, f := range []**mat.Dense{&tab.Zbar, &tab.Eint, &tab.Eion, &tab.Eele, &tab.Pion, &tab.Pele,
		&tab.OprInt, &tab.EmpInt, &tab.OppInt} {
		*f = mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	}
	return tab
}

func TestSummarize(t *testing.T) {
	sum, err := Summarize(testTable(t), 0.05)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if sum.NTemp != 2 || sum.NNion != 2 || sum.NGroups != 1 {
		t.Errorf("grid sizes = (%d,%d,%d), want (2,2,1)", sum.NTemp, sum.NNion, sum.NGroups)
	}
	if sum.TempMin != 1 || sum.TempMax != 10 {
		t.Errorf("temp range = [%v,%v], want [1,10]", sum.TempMin, sum.TempMax)
	}

	if len(sum.Fields) != 9 {
		t.Fatalf("summarized %d fields, want 9", len(sum.Fields))
	}
	zbar := sum.Fields[0]
	if zbar.Key != "zbar" || zbar.Min != 1 || zbar.Max != 4 || zbar.Mean != 2.5 {
		t.Errorf("zbar stats = %+v, want min 1 max 4 mean 2.5", zbar)
	}

	if len(sum.Groups) != 1 {
		t.Fatalf("summarized %d groups, want 1", len(sum.Groups))
	}
	g := sum.Groups[0]
	if g.ELo != 0.1 || g.EHi != 1e4 {
		t.Errorf("group bounds = [%v,%v], want [0.1,1e4]", g.ELo, g.EHi)
	}
	if g.RosselandMin != 1 || g.RosselandMax != 4 {
		t.Errorf("Rosseland range = [%v,%v], want [1,4]", g.RosselandMin, g.RosselandMax)
	}
	if g.PlanckEmisMean != 2 {
		t.Errorf("Planck emission mean = %v, want 2", g.PlanckEmisMean)
	}

	// One EpsMg entry is +Inf (zero absorption opacity); the rest are 1.
	if sum.EpsOutliers != 1 {
		t.Errorf("EpsOutliers = %d, want 1", sum.EpsOutliers)
	}
}

func TestSummarizeNilTable(t *testing.T) {
	if _, err := Summarize(nil, 0.05); err == nil {
		t.Fatal("expected an error for a nil table")
	}
}
