package io

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/gravtree"
)

// tableColumns are the columns of a particle table, in .gal record order.
var tableColumns = []int{0, 1, 2, 3, 4, 5}

// ReadTable reads a whitespace-separated text table with one particle per
// line, in the same column order as a .gal record. Lines starting with '#'
// are comments.
func ReadTable(path string) ([]gravtree.Particle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, gravtree.Wrap(gravtree.IOError, "io.ReadTable", err)
	}

	cols, err := table.ReadTable(path, tableColumns, nil)
	if err != nil {
		return nil, gravtree.Wrap(gravtree.InvalidInput, "io.ReadTable", err)
	}

	n := len(cols[0])
	for i := range cols {
		if len(cols[i]) != n {
			return nil, ioError(gravtree.InvalidInput, "io.ReadTable",
				"column %d of %s has %d rows, but column 0 has %d",
				i, path, len(cols[i]), n)
		}
	}
	if n == 0 {
		return nil, ioError(gravtree.InvalidInput, "io.ReadTable",
			"%s contains no particles", path)
	}

	ps := make([]gravtree.Particle, n)
	for i := range ps {
		ps[i] = gravtree.Particle{
			X: cols[0][i], Y: cols[1][i], Mass: cols[2][i],
			VX: cols[3][i], VY: cols[4][i], Brightness: cols[5][i],
		}
	}
	return ps, nil
}

// WriteTable writes ps to w in the format read by ReadTable. Values are
// written with enough digits to be read back exactly.
func WriteTable(w io.Writer, ps []gravtree.Particle) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# X Y Mass VX VY Brightness")
	for _, p := range ps {
		fmt.Fprintf(bw, "%.17g %.17g %.17g %.17g %.17g %.17g\n",
			p.X, p.Y, p.Mass, p.VX, p.VY, p.Brightness)
	}
	if err := bw.Flush(); err != nil {
		return gravtree.Wrap(gravtree.IOError, "io.WriteTable", err)
	}
	return nil
}

// WriteTableFile writes ps to a text table at path.
func WriteTableFile(path string, ps []gravtree.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return gravtree.Wrap(gravtree.IOError, "io.WriteTableFile", err)
	}
	if err := WriteTable(f, ps); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return gravtree.Wrap(gravtree.IOError, "io.WriteTableFile", err)
	}
	return nil
}
