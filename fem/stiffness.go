package fem

import (
	"math"

	"github.com/notargets/gotopo/mesh"
	"github.com/notargets/gotopo/utils"
)

// ElementConductivity builds the 8x8 conductivity matrix of a unit cubic
// hexahedral element with isotropic conductivity k0, integrating the
// trilinear shape function gradients with 2x2x2 Gauss quadrature. The
// integrands are quadratic per axis, so two-point quadrature is exact:
// the diagonal is k0/3, edge neighbors are 0, face and body diagonals
// are -k0/12.
func ElementConductivity(k0 float64) (KE utils.Matrix) {
	var (
		gp = [2]float64{0.5 - 0.5/math.Sqrt(3), 0.5 + 0.5/math.Sqrt(3)}
		w  = 0.125 // product of the three 1D weights, each 1/2
	)
	KE = utils.NewMatrix(8, 8)
	var grad [8][3]float64
	for _, x := range gp {
		for _, y := range gp {
			for _, z := range gp {
				for a, off := range mesh.CornerOffsets {
					fx, dfx := shape1D(off[0], x)
					fy, dfy := shape1D(off[1], y)
					fz, dfz := shape1D(off[2], z)
					grad[a][0] = dfx * fy * fz
					grad[a][1] = fx * dfy * fz
					grad[a][2] = fx * fy * dfz
				}
				for a := 0; a < 8; a++ {
					for b := 0; b < 8; b++ {
						dot := grad[a][0]*grad[b][0] + grad[a][1]*grad[b][1] + grad[a][2]*grad[b][2]
						KE.Set(a, b, KE.At(a, b)+w*k0*dot)
					}
				}
			}
		}
	}
	return
}

// shape1D is the 1D linear shape function on [0,1] attached to node side
// o (0 or 1), and its derivative.
func shape1D(o int, t float64) (f, df float64) {
	if o == 0 {
		return 1 - t, -1
	}
	return t, 1
}

// SIMPScale maps a physical density in [0,1] to element conductivity,
// kmin + (k0-kmin)*x^penal. kmin > 0 keeps every element conductive and the
// reduced system positive definite.
func SIMPScale(x, k0, kmin float64, penal float64) float64 {
	return kmin + (k0-kmin)*math.Pow(x, penal)
}
