package Conduction3D

import (
	"math"

	"github.com/notargets/gotopo/fem"
)

// objectiveAndSensitivity evaluates the thermal compliance
//
//	c = sum_e (kmin + (k0-kmin)*xPhys^p) * ue^T KE ue
//
// and its gradient with respect to element density,
//
//	dc_e = -p*(k0-kmin)*xPhys^(p-1) * ue^T KE ue
//
// ue^T KE ue is nonnegative (KE is positive semidefinite), so dc_e <= 0
// everywhere: adding material never increases compliance. The OC update
// relies on that sign.
func (c *Conduction) objectiveAndSensitivity(T []float64) (obj float64, dc []float64) {
	var (
		s  = c.Solver
		ue [8]float64
	)
	dc = make([]float64, c.Mesh.Nele)
	for e := 0; e < c.Mesh.Nele; e++ {
		s.GatherElement(e, T, ue[:])
		ce := s.KE.QuadForm(ue[:])
		x := c.XPhys[e]
		obj += fem.SIMPScale(x, s.K0, s.KMin, s.Penal) * ce
		dc[e] = -s.Penal * (s.K0 - s.KMin) * math.Pow(x, s.Penal-1) * ce
	}
	return
}
