package Conduction3D

import (
	"bufio"
	"fmt"
	"os"

	"github.com/notargets/gotopo/mesh"
)

// Field3D reshapes a per-element field into [nelz][nely][nelx] layout, the
// input contract for external voxel renderers.
func Field3D(msh *mesh.Mesh, field []float64) (F [][][]float64) {
	F = make([][][]float64, msh.Nelz)
	for k := 0; k < msh.Nelz; k++ {
		F[k] = make([][]float64, msh.Nely)
		for j := 0; j < msh.Nely; j++ {
			F[k][j] = make([]float64, msh.Nelx)
			for i := 0; i < msh.Nelx; i++ {
				F[k][j][i] = field[msh.ElemID(i, j, k)]
			}
		}
	}
	return
}

// WriteVTK saves the physical density field as a legacy VTK structured
// points file, cell data over the voxel grid, viewable in ParaView.
func (c *Conduction) WriteVTK(path string) (err error) {
	var (
		f   *os.File
		msh = c.Mesh
	)
	if f, err = os.Create(path); err != nil {
		return
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()
	fmt.Fprintf(w, "# vtk DataFile Version 3.0\n")
	fmt.Fprintf(w, "%s\n", c.Title)
	fmt.Fprintf(w, "ASCII\n")
	fmt.Fprintf(w, "DATASET STRUCTURED_POINTS\n")
	fmt.Fprintf(w, "DIMENSIONS %d %d %d\n", msh.Nelx+1, msh.Nely+1, msh.Nelz+1)
	fmt.Fprintf(w, "ORIGIN 0 0 0\n")
	fmt.Fprintf(w, "SPACING 1 1 1\n")
	fmt.Fprintf(w, "CELL_DATA %d\n", msh.Nele)
	fmt.Fprintf(w, "SCALARS density double 1\n")
	fmt.Fprintf(w, "LOOKUP_TABLE default\n")
	for _, v := range c.XPhys {
		fmt.Fprintf(w, "%g\n", v)
	}
	return
}
