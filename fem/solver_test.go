package fem

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gotopo/mesh"
	"github.com/notargets/gotopo/utils"
)

func TestBCSpec(t *testing.T) {
	msh, _ := mesh.New(2, 2, 2)
	// A fixed face plus uniform heat yields the face nodes and a full load
	{
		bc := &BCSpec{FixedFaces: []string{"x-"}, UniformHeat: 0.01}
		fixed, load, err := bc.Build(msh)
		assert.NoError(t, err)
		assert.Equal(t, 9, len(fixed)) // 3x3 nodes on the x- face
		for _, n := range fixed {
			i, _, _ := msh.NodeCoords(n)
			assert.Equal(t, 0, i)
		}
		assert.Equal(t, msh.Nnode, len(load))
		assert.Equal(t, 0.01, load[msh.NodeID(2, 2, 2)])
	}
	// Fixed set is sorted and duplicate free when faces overlap
	{
		bc := &BCSpec{FixedFaces: []string{"x-", "y-"}, UniformHeat: 1}
		fixed, _, err := bc.Build(msh)
		assert.NoError(t, err)
		seen := map[int]bool{}
		for i, n := range fixed {
			assert.False(t, seen[n])
			seen[n] = true
			if i > 0 {
				assert.Less(t, fixed[i-1], n)
			}
		}
		assert.Equal(t, 15, len(fixed)) // 9 + 9 - 3 shared edge nodes
	}
	// Rejections: unknown face, nothing fixed, nothing loaded, bad node
	{
		bc := &BCSpec{FixedFaces: []string{"top"}, UniformHeat: 1}
		_, _, err := bc.Build(msh)
		assert.Error(t, err)

		bc = &BCSpec{UniformHeat: 1}
		_, _, err = bc.Build(msh)
		assert.Error(t, err)

		bc = &BCSpec{FixedFaces: []string{"x-"}}
		_, _, err = bc.Build(msh)
		assert.Error(t, err)

		bc = &BCSpec{FixedFaces: []string{"x-"}, PointSources: []HeatSource{{I: 5, J: 0, K: 0, Q: 1}}}
		_, _, err = bc.Build(msh)
		assert.Error(t, err)
	}
	// A load only on fixed nodes is no load at all
	{
		bc := &BCSpec{FixedFaces: []string{"x-"}, PointSources: []HeatSource{{I: 0, J: 1, K: 1, Q: 1}}}
		_, _, err := bc.Build(msh)
		assert.Error(t, err)
	}
}

func TestSolverSingleElement(t *testing.T) {
	// 1x1x1 grid, 7 of 8 nodes pinned, unit load at the free corner. The
	// reduced system is scalar: (kmin + (k0-kmin)*x^p) * KE[a][a] * T = 1,
	// so with x=1 the free temperature is exactly 3.
	msh, _ := mesh.New(1, 1, 1)
	bc := &BCSpec{
		FixedNodes: [][3]int{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {0, 1, 1},
		},
		PointSources: []HeatSource{{I: 1, J: 1, K: 1, Q: 1}},
	}
	s, err := NewSolver(msh, 1, 1.e-3, 3, bc)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(s.Free))

	{
		T, err := s.Solve([]float64{1})
		assert.NoError(t, err)
		free := msh.NodeID(1, 1, 1)
		assert.InDelta(t, 3., T[free], 1.e-9)
		for _, n := range s.Fixed {
			assert.Equal(t, 0., T[n])
		}
	}
	// Halving the density raises the temperature by the SIMP factor
	{
		x := 0.5
		T, err := s.Solve([]float64{x})
		assert.NoError(t, err)
		scale := SIMPScale(x, 1, 1.e-3, 3)
		assert.InDelta(t, 3./scale, T[msh.NodeID(1, 1, 1)], 1.e-9)
	}
}

func TestSolverAssembly(t *testing.T) {
	// 2x1x1 grid with uniform density: the assembled reduced matrix must be
	// symmetric and the solve must reproduce K*T = F
	msh, _ := mesh.New(2, 1, 1)
	bc := &BCSpec{FixedFaces: []string{"x-"}, UniformHeat: 0.1}
	s, err := NewSolver(msh, 1, 1.e-3, 3, bc)
	assert.NoError(t, err)

	xPhys := utils.ConstArray(msh.Nele, 0.7)
	{
		K := s.assemble(xPhys)
		nr, nc := K.Dims()
		assert.Equal(t, len(s.Free), nr)
		assert.Equal(t, len(s.Free), nc)
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				assert.InDelta(t, K.At(j, i), K.At(i, j), 1.e-12)
			}
		}
	}
	{
		T, err := s.Solve(xPhys)
		assert.NoError(t, err)
		assert.False(t, utils.HasNaNOrInf(T))
		// Residual check on the free DOFs
		K := s.assemble(xPhys)
		u := make([]float64, len(s.Free))
		for r, g := range s.Free {
			u[r] = T[g]
		}
		r := K.MulVecSym(u)
		for i, g := range s.Free {
			assert.InDelta(t, s.Load[g], r[i], 1.e-8)
		}
	}
}

func TestSolveCGFailures(t *testing.T) {
	// Zero diagonal: not positive definite
	{
		D := utils.NewDOK(2, 2)
		D.Set(0, 0, 1)
		_, err := solveCG(D.ToCSR(), []float64{1, 1}, 1.e-10, 100)
		assert.Error(t, err)
	}
	// Zero RHS short circuits to the zero solution
	{
		D := utils.NewDOK(2, 2)
		D.Set(0, 0, 1)
		D.Set(1, 1, 1)
		x, err := solveCG(D.ToCSR(), []float64{0, 0}, 1.e-10, 100)
		assert.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, x)
	}
	// SPD system solves to machine accuracy
	{
		D := utils.NewDOK(2, 2)
		D.Set(0, 0, 4)
		D.Set(0, 1, 1)
		D.Set(1, 0, 1)
		D.Set(1, 1, 3)
		x, err := solveCG(D.ToCSR(), []float64{1, 2}, 1.e-12, 100)
		assert.NoError(t, err)
		assert.InDelta(t, 1./11., x[0], 1.e-9)
		assert.InDelta(t, 7./11., x[1], 1.e-9)
	}
}
