package Conduction3D

import (
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/avs/chart2d"

	"github.com/notargets/gotopo/InputParameters"
	"github.com/notargets/gotopo/fem"
	"github.com/notargets/gotopo/filter"
	"github.com/notargets/gotopo/mesh"
	"github.com/notargets/gotopo/utils"
)

// Conduction minimizes the thermal compliance of a voxelized conduction
// domain under a volume constraint, using SIMP penalization and the
// Optimality Criteria update. One FE solve, one sensitivity pass and one OC
// update per iteration, strictly sequential between iterations.
type Conduction struct {
	Title         string
	Mesh          *mesh.Mesh
	Solver        *fem.Solver
	Filter        *filter.Operator
	VolFrac, TolX float64
	MaxLoop       int
	OC            OCOptions

	// Iteration state, overwritten each loop
	X, XPhys []float64
	History  []IterationRecord

	// Last OC bisection bracket, kept for inspection
	lambdaLo, lambdaHi float64

	plotEnabled bool
	chart       *chart2d.Chart2D
	PlotOnce    sync.Once
}

type IterationRecord struct {
	Iter      int
	Objective float64
	Volume    float64 // mean physical density
	Change    float64
}

type Result struct {
	XPhys      []float64
	Objective  float64
	Iterations int
	Converged  bool
	History    []IterationRecord
}

func NewConduction(ip *InputParameters.InputParameters3D) (c *Conduction, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	c = &Conduction{
		Title:   ip.Title,
		VolFrac: ip.VolFrac,
		TolX:    ip.TolX,
		MaxLoop: ip.MaxIterations,
		OC: OCOptions{
			MoveLimit:     ip.MoveLimit,
			Damping:       ip.Damping,
			LambdaMax:     ip.LambdaMax,
			BisectTol:     ip.BisectTol,
			MaxBisections: ip.MaxBisections,
		},
	}
	if c.Mesh, err = mesh.New(ip.Nelx, ip.Nely, ip.Nelz); err != nil {
		return nil, err
	}
	var mode filter.Mode
	if mode, err = filter.NewMode(ip.FilterType); err != nil {
		return nil, err
	}
	if c.Filter, err = filter.NewOperator(c.Mesh, ip.RMin, mode); err != nil {
		return nil, err
	}
	if c.Solver, err = fem.NewSolver(c.Mesh, ip.K0, ip.KMin, ip.Penal, &ip.BCs); err != nil {
		return nil, err
	}
	x0 := ip.InitialDensity
	if x0 == 0 {
		x0 = ip.VolFrac
	}
	c.X = utils.ConstArray(c.Mesh.Nele, x0)
	c.XPhys = c.Filter.PhysicalDensity(c.X)
	return
}

// Optimize runs the iteration loop to convergence or the iteration limit.
// Any solver failure or non-finite field aborts the run with the iteration
// index in the error.
func (c *Conduction) Optimize(graphDelay ...time.Duration) (res *Result, err error) {
	var (
		nele = c.Mesh.Nele
		obj  float64
		dc   []float64
	)
	c.History = c.History[:0]
	res = &Result{}
	for loop := 1; loop <= c.MaxLoop; loop++ {
		var T []float64
		if T, err = c.Solver.Solve(c.XPhys); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", loop, err)
		}
		obj, dc = c.objectiveAndSensitivity(T)
		if err = checkFinite(loop, obj, dc, T); err != nil {
			return nil, err
		}
		dv := utils.ConstArray(nele, 1)
		c.Filter.FilterGradients(c.X, dc, dv)
		var xNew, xPhysNew []float64
		if xNew, xPhysNew, err = c.updateOC(dc, dv); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", loop, err)
		}
		change := utils.MaxAbsDiff(xNew, c.X)
		c.X, c.XPhys = xNew, xPhysNew
		rec := IterationRecord{
			Iter:      loop,
			Objective: obj,
			Volume:    floats.Sum(c.XPhys) / float64(nele),
			Change:    change,
		}
		c.History = append(c.History, rec)
		c.PrintUpdate(rec)
		c.Plot(graphDelay)
		res.Iterations = loop
		if change <= c.TolX {
			res.Converged = true
			break
		}
	}
	res.Objective = obj
	res.XPhys = make([]float64, nele)
	copy(res.XPhys, c.XPhys)
	res.History = append(res.History, c.History...)
	return
}

// Run executes the optimization with console reporting, optionally plotting
// convergence while running.
func (c *Conduction) Run(graph bool, graphDelay ...time.Duration) {
	c.plotEnabled = graph
	c.PrintInitialization()
	start := time.Now()
	res, err := c.Optimize(graphDelay...)
	if err != nil {
		fmt.Printf("optimization aborted: %s\n", err.Error())
		panic(err)
	}
	c.PrintFinal(time.Since(start), res)
}

func (c *Conduction) PrintInitialization() {
	fmt.Printf("3D Thermal Conduction Topology Optimization\n")
	fmt.Printf("Case: %s\n", c.Title)
	fmt.Printf("Grid = %d x %d x %d, %d elements, %d DOFs, %d fixed\n",
		c.Mesh.Nelx, c.Mesh.Nely, c.Mesh.Nelz, c.Mesh.Nele, c.Mesh.Nnode, len(c.Solver.Fixed))
	fmt.Printf("VolFrac = %5.3f, Penal = %4.2f, Filter = %s\n", c.VolFrac, c.Solver.Penal, c.Filter.Mode.Print())
	fmt.Printf("Solving until change <= %g or iteration %d\n", c.TolX, c.MaxLoop)
	fmt.Printf("    iter        obj     vol      chg\n")
}

func (c *Conduction) PrintUpdate(rec IterationRecord) {
	fmt.Printf("%8d%11.4e%8.4f%9.4f\n", rec.Iter, rec.Objective, rec.Volume, rec.Change)
}

func (c *Conduction) PrintFinal(elapsed time.Duration, res *Result) {
	rate := float64(elapsed.Microseconds()) / (float64(c.Mesh.Nele * res.Iterations))
	if res.Converged {
		fmt.Printf("\nConverged in %d iterations, final objective = %11.4e\n", res.Iterations, res.Objective)
	} else {
		fmt.Printf("\nIteration limit %d reached, final objective = %11.4e\n", c.MaxLoop, res.Objective)
	}
	fmt.Printf("Rate of execution = %8.5f us/(element*iteration) over %d iterations\n", rate, res.Iterations)
}

func checkFinite(loop int, obj float64, dc, T []float64) (err error) {
	switch {
	case utils.HasNaNOrInf([]float64{obj}):
		err = fmt.Errorf("iteration %d: objective is not finite", loop)
	case utils.HasNaNOrInf(dc):
		err = fmt.Errorf("iteration %d: sensitivity field is not finite", loop)
	case utils.HasNaNOrInf(T):
		err = fmt.Errorf("iteration %d: temperature field is not finite", loop)
	}
	return
}
