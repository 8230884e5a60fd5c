package fem

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotopo/mesh"
	"github.com/notargets/gotopo/utils"
)

// Solver owns everything about the conduction FE problem that does not change
// between optimization iterations: the mesh, the unit element matrix, the
// SIMP material bounds, the fixed/free DOF partition and the load vector.
// Solve assembles the penalized global matrix for a physical density field
// and returns the temperature field.
type Solver struct {
	Mesh            *mesh.Mesh
	KE              utils.Matrix
	K0, KMin, Penal float64
	Fixed, Free     utils.Index
	Load            []float64

	g2r []int // global DOF -> reduced index, -1 for fixed
	pm  *utils.PartitionMap

	// CG controls
	Tol     float64
	MaxIter int
}

func NewSolver(msh *mesh.Mesh, k0, kmin, penal float64, bc *BCSpec) (s *Solver, err error) {
	if kmin <= 0 || kmin >= k0 {
		err = fmt.Errorf("conductivity bounds must satisfy 0 < kmin < k0, have kmin=%g, k0=%g", kmin, k0)
		return
	}
	if penal <= 1 {
		err = fmt.Errorf("penalization exponent must exceed 1, have %g", penal)
		return
	}
	s = &Solver{
		Mesh:  msh,
		KE:    ElementConductivity(k0),
		K0:    k0,
		KMin:  kmin,
		Penal: penal,
		pm:    utils.NewPartitionMap(runtime.NumCPU(), msh.Nele),
	}
	s.KE.SetReadOnly("KE")
	if s.Fixed, s.Load, err = bc.Build(msh); err != nil {
		s = nil
		return
	}
	s.Free = s.Fixed.Complement(msh.Nnode)
	s.g2r = make([]int, msh.Nnode)
	for i := range s.g2r {
		s.g2r[i] = -1
	}
	for r, g := range s.Free {
		s.g2r[g] = r
	}
	s.Tol = 1.e-10
	s.MaxIter = 10 * len(s.Free)
	return
}

type triplet struct {
	i, j int
	v    float64
}

// assemble scatter-adds the SIMP-scaled element matrices into the reduced
// (free DOF) system. Element contributions are computed in parallel over
// element partitions; each partition fills its own triplet list so each
// contribution is accumulated exactly once.
func (s *Solver) assemble(xPhys []float64) (K utils.CSR) {
	var (
		nf    = len(s.Free)
		NP    = s.pm.ParallelDegree
		lists = make([][]triplet, NP)
		wg    sync.WaitGroup
		keD   = s.KE.Data()
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			eMin, eMax := s.pm.GetBucketRange(np)
			list := make([]triplet, 0, 64*(eMax-eMin))
			for e := eMin; e < eMax; e++ {
				scale := SIMPScale(xPhys[e], s.K0, s.KMin, s.Penal)
				ed := &s.Mesh.EDof[e]
				for a := 0; a < 8; a++ {
					ra := s.g2r[ed[a]]
					if ra < 0 {
						continue
					}
					for b := 0; b < 8; b++ {
						rb := s.g2r[ed[b]]
						if rb < 0 {
							continue
						}
						list = append(list, triplet{ra, rb, scale * keD[a*8+b]})
					}
				}
			}
			lists[np] = list
		}(np)
	}
	wg.Wait()
	KD := utils.NewDOK(nf, nf)
	for _, list := range lists {
		for _, t := range list {
			KD.Accumulate(t.i, t.j, t.v)
		}
	}
	K = KD.ToCSR()
	return
}

// Solve returns the full temperature field for the given physical densities:
// zeros at fixed DOFs, the reduced solution at free DOFs. The reduced system
// is solved with Jacobi preconditioned conjugate gradients on the
// symmetrized operator. A singular or indefinite system is a fatal
// precondition violation and comes back as an error.
func (s *Solver) Solve(xPhys []float64) (T []float64, err error) {
	var (
		K  = s.assemble(xPhys)
		nf = len(s.Free)
	)
	b := make([]float64, nf)
	for r, g := range s.Free {
		b[r] = s.Load[g]
	}
	u, err := solveCG(K, b, s.Tol, s.MaxIter)
	if err != nil {
		return nil, err
	}
	T = make([]float64, s.Mesh.Nnode)
	for r, g := range s.Free {
		T[g] = u[r]
	}
	return
}

// GatherElement copies the 8 nodal temperatures of element e into ue.
func (s *Solver) GatherElement(e int, T []float64, ue []float64) {
	for a, g := range s.Mesh.EDof[e] {
		ue[a] = T[g]
	}
}

func solveCG(A utils.CSR, b []float64, tol float64, maxIter int) (x []float64, err error) {
	var (
		n     = len(b)
		diag  = A.Diagonal()
		bNorm = floats.Norm(b, 2)
	)
	x = make([]float64, n)
	if bNorm == 0 {
		return
	}
	for i, d := range diag {
		if d <= 0 {
			err = fmt.Errorf("reduced conductivity matrix is not positive definite: diagonal %d = %g", i, d)
			return nil, err
		}
	}
	var (
		r = make([]float64, n)
		z = make([]float64, n)
		p = make([]float64, n)
	)
	copy(r, b) // x0 = 0
	for i := range z {
		z[i] = r[i] / diag[i]
	}
	copy(p, z)
	rz := floats.Dot(r, z)
	for iter := 0; iter < maxIter; iter++ {
		Ap := A.MulVecSym(p)
		pAp := floats.Dot(p, Ap)
		if pAp <= 0 || math.IsNaN(pAp) {
			err = fmt.Errorf("conjugate gradient breakdown at iteration %d: p^T A p = %g", iter, pAp)
			return nil, err
		}
		alpha := rz / pAp
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, Ap)
		if floats.Norm(r, 2) <= tol*bNorm {
			return
		}
		for i := range z {
			z[i] = r[i] / diag[i]
		}
		rzNew := floats.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}
	err = fmt.Errorf("conjugate gradient failed to converge in %d iterations, residual = %g",
		maxIter, floats.Norm(r, 2)/bNorm)
	return nil, err
}
