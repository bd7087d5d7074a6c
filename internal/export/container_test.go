package export

import (
	"path/filepath"
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
		Temp:    []float64{1, 2},
		Nion:    []float64{1e20, 2e20},
		Rho:     []float64{4.48e-3, 8.96e-3},
		Groups:  []float64{0.1, 1e4},
		NGroups: 1,
		IonFrac: mustCube(2, 2, 1, []float64{1, 1, 1, 1}),
		OprMg:   mustCube(2, 2, 1, []float64{1, 2, 3, 4}),
		EmpMg:   mustCube(2, 2, 1, []float64{2, 4, 6, 8}),
		OppMg:   mustCube(2, 2, 1, []float64{1, 2, 4, 8}),
		EpsMg:   mustCube(2, 2, 1, []float64{2, 2, 1.5, 1}),
	}
	for _, f := range []**mat.Dense{&tab.Zbar, &tab.Eint, &tab.Eion, &tab.Eele, &tab.Pion, &tab.Pele,
		&tab.OprInt, &tab.EmpInt, &tab.OppInt} {
		*f = mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	}
	return tab
}

func TestWriteReadRoundTrip(t *testing.T) {
	tab := testTable(t)
	path := filepath.Join(t.TempDir(), "table.opb")

	if err := Write(path, tab); err != nil {
		t.Fatalf("Write: %v", err)
	}
	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// 7 vectors + 9 matrices + 5 cubes.
	if want := 21; len(c.Arrays) != want {
		t.Errorf("container holds %d arrays, want %d", len(c.Arrays), want)
	}

	zbar, ok := c.Lookup("zbar")
	if !ok {
		t.Fatal("zbar missing from container")
	}
	if len(zbar.Dims) != 2 || zbar.Dims[0] != 2 || zbar.Dims[1] != 2 {
		t.Errorf("zbar dims = %v, want [2 2]", zbar.Dims)
	}
	for i, want := range []float64{1, 2, 3, 4} {
		if zbar.Data[i] != want {
			t.Errorf("zbar.Data[%d] = %v, want %v", i, zbar.Data[i], want)
		}
	}

	oprMg, ok := c.Lookup("opr_mg")
	if !ok {
		t.Fatal("opr_mg missing from container")
	}
	if len(oprMg.Dims) != 3 || oprMg.Dims[2] != 1 {
		t.Errorf("opr_mg dims = %v, want rank 3 with 1 group", oprMg.Dims)
	}

	rho, ok := c.Lookup("rho")
	if !ok {
		t.Fatal("rho missing from container")
	}
	if rho.Data[0] != tab.Rho[0] || rho.Data[1] != tab.Rho[1] {
		t.Errorf("rho = %v, want %v", rho.Data, tab.Rho)
	}
}

func TestCollectNilTable(t *testing.T) {
	if _, err := Collect(nil); err == nil {
		t.Fatal("expected an error for a nil table")
	}
}
