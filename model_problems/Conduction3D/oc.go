package Conduction3D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotopo/utils"
)

// OCOptions are the Optimality Criteria update controls.
type OCOptions struct {
	MoveLimit     float64 // per-iteration density move bound
	Damping       float64 // exponent on the optimality ratio, 0.5 is the classic sqrt update
	LambdaMax     float64 // upper end of the Lagrange multiplier bracket
	BisectTol     float64 // relative bracket width at termination
	MaxBisections int     // hard cap guarding the bisection loop
}

// lambdaFloor ends the bisection when the multiplier bracket has collapsed
// toward zero, which happens when the volume constraint is inactive (e.g.
// VolFrac = 1): every candidate satisfies the constraint, l1 stays 0 and the
// relative-width test alone would never fire.
const lambdaFloor = 1.e-12

// updateOC computes the next density field by bisecting the volume
// constraint's Lagrange multiplier. For a candidate lmid each element moves
// to x*(-dc/(dv*lmid))^damping, clipped first to the move limit and then to
// the [0,1] box. The physical density of each candidate is re-derived
// through the filter, so the constraint is enforced on what the FE solver
// will actually see.
func (c *Conduction) updateOC(dc, dv []float64) (xNew, xPhysNew []float64, err error) {
	var (
		nele   = c.Mesh.Nele
		target = c.VolFrac * float64(nele)
		l1, l2 = 0., c.OC.LambdaMax
		move   = c.OC.MoveLimit
	)
	xNew = make([]float64, nele)
	for iter := 0; ; iter++ {
		if iter >= c.OC.MaxBisections {
			err = fmt.Errorf("OC bisection did not terminate in %d steps, bracket = [%g,%g]", c.OC.MaxBisections, l1, l2)
			return nil, nil, err
		}
		lmid := 0.5 * (l1 + l2)
		for e := 0; e < nele; e++ {
			be := math.Max(0, -dc[e]/(dv[e]*lmid))
			xe := c.X[e] * math.Pow(be, c.OC.Damping)
			xe = utils.Clamp(xe, c.X[e]-move, c.X[e]+move)
			xNew[e] = utils.Clamp(xe, 0, 1)
		}
		xPhysNew = c.Filter.PhysicalDensity(xNew)
		if floats.Sum(xPhysNew) > target {
			l1 = lmid
		} else {
			l2 = lmid
		}
		if (l2-l1)/(l1+l2) < c.OC.BisectTol || l2 < lambdaFloor {
			break
		}
	}
	c.lambdaLo, c.lambdaHi = l1, l2
	return
}
