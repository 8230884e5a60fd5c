package fem

import (
	"fmt"
	"sort"

	"github.com/notargets/gotopo/mesh"
	"github.com/notargets/gotopo/utils"
)

// HeatSource places a heat load Q at the node with grid coordinates I,J,K.
type HeatSource struct {
	I int     `yaml:"I"`
	J int     `yaml:"J"`
	K int     `yaml:"K"`
	Q float64 `yaml:"Q"`
}

// BCSpec is the boundary condition rule set: which nodes are pinned to zero
// temperature (the sink) and where heat enters. The fields combine; a
// typical conduction case pins one face and heats the volume uniformly.
type BCSpec struct {
	FixedFaces   []string     `yaml:"FixedFaces"` // "x-","x+","y-","y+","z-","z+"
	FixedNodes   [][3]int     `yaml:"FixedNodes"`
	PointSources []HeatSource `yaml:"PointSources"`
	UniformHeat  float64      `yaml:"UniformHeat"` // per-node load applied everywhere
}

// Build derives the fixed DOF set and the load vector for msh. The fixed set
// is sorted and duplicate free. It is an error to fix nothing (the reduced
// system would be singular) or to load nothing (the solution would be zero
// everywhere).
func (bc *BCSpec) Build(msh *mesh.Mesh) (fixed utils.Index, load []float64, err error) {
	var (
		nx      = msh.Nelx + 1
		ny      = msh.Nely + 1
		nz      = msh.Nelz + 1
		inFixed = make(map[int]bool)
	)
	for _, face := range bc.FixedFaces {
		var sel func(i, j, k int) bool
		switch face {
		case "x-":
			sel = func(i, j, k int) bool { return i == 0 }
		case "x+":
			sel = func(i, j, k int) bool { return i == nx-1 }
		case "y-":
			sel = func(i, j, k int) bool { return j == 0 }
		case "y+":
			sel = func(i, j, k int) bool { return j == ny-1 }
		case "z-":
			sel = func(i, j, k int) bool { return k == 0 }
		case "z+":
			sel = func(i, j, k int) bool { return k == nz-1 }
		default:
			err = fmt.Errorf("unknown fixed face %q, want one of x-,x+,y-,y+,z-,z+", face)
			return
		}
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					if sel(i, j, k) {
						inFixed[msh.NodeID(i, j, k)] = true
					}
				}
			}
		}
	}
	for _, n := range bc.FixedNodes {
		if n[0] < 0 || n[0] >= nx || n[1] < 0 || n[1] >= ny || n[2] < 0 || n[2] >= nz {
			err = fmt.Errorf("fixed node %v outside node grid %dx%dx%d", n, nx, ny, nz)
			return
		}
		inFixed[msh.NodeID(n[0], n[1], n[2])] = true
	}
	if len(inFixed) == 0 {
		err = fmt.Errorf("boundary conditions fix no nodes; the conduction problem is singular")
		return
	}

	load = make([]float64, msh.Nnode)
	if bc.UniformHeat != 0 {
		for i := range load {
			load[i] = bc.UniformHeat
		}
	}
	for _, s := range bc.PointSources {
		if s.I < 0 || s.I >= nx || s.J < 0 || s.J >= ny || s.K < 0 || s.K >= nz {
			err = fmt.Errorf("point source at %d,%d,%d outside node grid %dx%dx%d", s.I, s.J, s.K, nx, ny, nz)
			return
		}
		load[msh.NodeID(s.I, s.J, s.K)] += s.Q
	}
	var loaded bool
	for n, q := range load {
		if q != 0 && !inFixed[n] {
			loaded = true
			break
		}
	}
	if !loaded {
		err = fmt.Errorf("boundary conditions apply no heat load to any free node")
		return
	}

	fixed = utils.NewIndex(0)
	for n := range inFixed {
		fixed = append(fixed, n)
	}
	sort.Ints(fixed)
	return
}
