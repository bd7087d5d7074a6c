// Package export writes assembled PROPACEOS tables into a simple binary
// array container: a gob-encoded set of named arrays, each carrying its
// dimensions and flat float64 data.
package export

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/pinebai/opacplot2/internal/parser"
)

// Array is one named array in the container. Dims is the row-major shape;
// len(Data) equals the product of Dims.
type Array struct {
	Name string
	Dims []int
	Data []float64
}

// Container is the on-disk document: every named array of one table.
type Container struct {
	Arrays []Array
}

// field2DKeys and field3DKeys list the exported table fields, matching the
// original PROPACEOS vocabulary.
var (
	field2DKeys = []string{"zbar", "eint", "eele", "eion", "pion", "pele",
		"opp_int", "opr_int", "emp_int"}
	field3DKeys = []string{"ion_frac", "opp_mg", "opr_mg", "emp_mg", "eps_mg"}
)

// Collect flattens a table into its container representation.
func Collect(t *parser.Table) (*Container, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot export a nil table")
	}
	c := &Container{}

	vec := func(name string, data []float64) {
		c.Arrays = append(c.Arrays, Array{Name: name, Dims: []int{len(data)}, Data: data})
	}
	vec("nion", t.Nion)
	vec("temp", t.Temp)
	vec("rho", t.Rho)
	vec("groups", t.Groups)
	vec("Znum", t.Znum)
	vec("Anum", t.Anum)
	vec("Xnum", t.Xnum)

	for _, key := range field2DKeys {
		m, ok := t.Field2D(key)
		if !ok {
			return nil, fmt.Errorf("table is missing field %q", key)
		}
		r, cols := m.Dims()
		c.Arrays = append(c.Arrays, Array{Name: key, Dims: []int{r, cols}, Data: m.RawMatrix().Data})
	}
	for _, key := range field3DKeys {
		cube, ok := t.Field3D(key)
		if !ok {
			return nil, fmt.Errorf("table is missing field %q", key)
		}
		ni, nj, nk := cube.Dims()
		c.Arrays = append(c.Arrays, Array{Name: key, Dims: []int{ni, nj, nk}, Data: cube.Raw()})
	}
	return c, nil
}

// Write exports the table's named arrays to path.
func Write(path string, t *parser.Table) error {
	c, err := Collect(t)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create container file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode container: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush container: %w", err)
	}
	return f.Close()
}

// Read loads a container written by Write.
func Read(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open container file: %w", err)
	}
	defer f.Close()

	c := &Container{}
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(c); err != nil {
		return nil, fmt.Errorf("failed to decode container: %w", err)
	}
	return c, nil
}

// Lookup returns the named array, if present.
func (c *Container) Lookup(name string) (*Array, bool) {
	for i := range c.Arrays {
		if c.Arrays[i].Name == name {
			return &c.Arrays[i], true
		}
	}
	return nil, false
}
