package filter

import (
	"fmt"
	"math"

	"github.com/notargets/gotopo/mesh"
	"github.com/notargets/gotopo/utils"
)

type Mode uint8

const (
	None Mode = iota
	Sensitivity
	Density
)

func NewMode(label string) (m Mode, err error) {
	switch label {
	case "none", "None", "":
		m = None
	case "sensitivity", "Sensitivity":
		m = Sensitivity
	case "density", "Density":
		m = Density
	default:
		err = fmt.Errorf("unknown filter mode %q, want density, sensitivity or none", label)
	}
	return
}

func (m Mode) Print() (label string) {
	switch m {
	case None:
		label = "None"
	case Sensitivity:
		label = "Sensitivity"
	case Density:
		label = "Density"
	}
	return
}

// Operator is the spatial regularization operator: a sparse nele x nele
// weight matrix H with row sums Hs, connecting each element to the elements
// within radius rmin of it, weight max(0, rmin - distance). Built once,
// immutable. The Mode decides which fields it transforms each iteration.
type Operator struct {
	Mode Mode
	H    utils.CSR
	Hs   []float64
	nele int
}

// NewOperator builds H over the element grid of msh. The neighbor search
// box spans ceil(rmin)-1 cells per axis around each element, matching the
// reference numerics; widening it would change results.
func NewOperator(msh *mesh.Mesh, rmin float64, mode Mode) (op *Operator, err error) {
	if rmin < 1 {
		err = fmt.Errorf("filter radius must be at least 1, have %g", rmin)
		return
	}
	op = &Operator{
		Mode: mode,
		nele: msh.Nele,
	}
	if mode == None {
		return
	}
	var (
		reach = int(math.Ceil(rmin)) - 1
		HD    = utils.NewDOK(msh.Nele, msh.Nele)
	)
	for e := 0; e < msh.Nele; e++ {
		i, j, k := msh.ElemCoords(e)
		i1, i2 := maxInt(i-reach, 0), minInt(i+reach, msh.Nelx-1)
		j1, j2 := maxInt(j-reach, 0), minInt(j+reach, msh.Nely-1)
		k1, k2 := maxInt(k-reach, 0), minInt(k+reach, msh.Nelz-1)
		for kk := k1; kk <= k2; kk++ {
			for jj := j1; jj <= j2; jj++ {
				for ii := i1; ii <= i2; ii++ {
					dist := math.Sqrt(float64((i-ii)*(i-ii) + (j-jj)*(j-jj) + (k-kk)*(k-kk)))
					if fac := rmin - dist; fac > 0 {
						HD.Set(e, msh.ElemID(ii, jj, kk), fac)
					}
				}
			}
		}
	}
	op.H = HD.ToCSR()
	op.Hs = op.H.RowSums()
	return
}

// PhysicalDensity maps the raw design field to the physical field used in
// assembly: the weighted spatial average H*x/Hs in density mode, the
// identity otherwise.
func (op *Operator) PhysicalDensity(x []float64) (xPhys []float64) {
	if op.Mode != Density {
		xPhys = make([]float64, len(x))
		copy(xPhys, x)
		return
	}
	xPhys = op.H.MulVec(x)
	for i := range xPhys {
		xPhys[i] /= op.Hs[i]
	}
	return
}

// FilterGradients regularizes the objective gradient dc and the volume
// gradient dv in place, dispatching once on the mode:
//
//	Sensitivity: dc <- H*(x.*dc) ./ (Hs .* max(1e-3, x)), dv untouched
//	Density:     dc <- H*(dc./Hs), dv <- H*(dv./Hs)
//
// The 1e-3 floor keeps the sensitivity normalization away from a divide
// blow-up at near-void elements.
func (op *Operator) FilterGradients(x, dc, dv []float64) {
	switch op.Mode {
	case Sensitivity:
		xdc := make([]float64, len(x))
		for i := range xdc {
			xdc[i] = x[i] * dc[i]
		}
		num := op.H.MulVec(xdc)
		for i := range dc {
			dc[i] = num[i] / (op.Hs[i] * math.Max(1.e-3, x[i]))
		}
	case Density:
		t := make([]float64, len(dc))
		for i := range t {
			t[i] = dc[i] / op.Hs[i]
		}
		copy(dc, op.H.MulVec(t))
		for i := range t {
			t[i] = dv[i] / op.Hs[i]
		}
		copy(dv, op.H.MulVec(t))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
