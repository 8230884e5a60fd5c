package mesh

import (
	"fmt"
)

// CornerOffsets is the local node ordering of the trilinear hexahedral
// element: bottom face counterclockwise, then the top face in the same
// rotation. The element conductivity builder integrates shape functions in
// this same order, so connectivity and quadrature stay consistent.
var CornerOffsets = [8][3]int{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 1, 1},
	{0, 1, 1},
}

// Mesh is a structured nelx x nely x nelz voxel grid of unit hexahedral
// elements with one scalar DOF (temperature) per node. Node and element
// numbering both run x fastest, then y, then z. Immutable after New.
type Mesh struct {
	Nelx, Nely, Nelz int
	Nele             int // Nelx*Nely*Nelz elements
	Nnode            int // (Nelx+1)*(Nely+1)*(Nelz+1) nodes = DOFs
	EDof             [][8]int
}

func New(nelx, nely, nelz int) (m *Mesh, err error) {
	if nelx < 1 || nely < 1 || nelz < 1 {
		err = fmt.Errorf("mesh dimensions must be positive, have %d,%d,%d", nelx, nely, nelz)
		return
	}
	m = &Mesh{
		Nelx:  nelx,
		Nely:  nely,
		Nelz:  nelz,
		Nele:  nelx * nely * nelz,
		Nnode: (nelx + 1) * (nely + 1) * (nelz + 1),
	}
	m.EDof = make([][8]int, m.Nele)
	for e := 0; e < m.Nele; e++ {
		i, j, k := m.ElemCoords(e)
		for a, off := range CornerOffsets {
			m.EDof[e][a] = m.NodeID(i+off[0], j+off[1], k+off[2])
		}
	}
	return
}

func (m *Mesh) NodeID(i, j, k int) int {
	return i + j*(m.Nelx+1) + k*(m.Nelx+1)*(m.Nely+1)
}

func (m *Mesh) ElemID(i, j, k int) int {
	return i + j*m.Nelx + k*m.Nelx*m.Nely
}

func (m *Mesh) ElemCoords(e int) (i, j, k int) {
	k = e / (m.Nelx * m.Nely)
	r := e - k*m.Nelx*m.Nely
	j = r / m.Nelx
	i = r - j*m.Nelx
	return
}

func (m *Mesh) NodeCoords(n int) (i, j, k int) {
	var (
		nx = m.Nelx + 1
		ny = m.Nely + 1
	)
	k = n / (nx * ny)
	r := n - k*nx*ny
	j = r / nx
	i = r - j*nx
	return
}
