package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK wraps a dictionary-of-keys sparse matrix used during scatter-add
// assembly. Convert to CSR before repeated application.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, val)
}

// Accumulate adds val into entry (i,j), the scatter-add primitive used by
// both the FE assembly and the filter build.
func (m DOK) Accumulate(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

// CSR wraps a compressed sparse row matrix for fast repeated matvec.
type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) NNZ() int                      { return m.M.NNZ() }

// MulVec computes y = A*x over the raw CSR arrays.
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		nr, nc = m.Dims()
		raw    = m.RawMatrix()
	)
	if len(x) != nc {
		panic(fmt.Errorf("dimension mismatch in MulVec: nc = %d, len(x) = %d", nc, len(x)))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		var sum float64
		for jj := raw.Indptr[i]; jj < raw.Indptr[i+1]; jj++ {
			sum += raw.Data[jj] * x[raw.Ind[jj]]
		}
		y[i] = sum
	}
	return
}

// MulVecSym computes y = 0.5*(A + A^T)*x, the symmetrized operator. Scatter
// order during assembly can leave tiny asymmetries in the accumulated matrix;
// applying the average of A and its transpose removes them.
func (m CSR) MulVecSym(x []float64) (y []float64) {
	var (
		nr, nc = m.Dims()
		raw    = m.RawMatrix()
	)
	if nr != nc || len(x) != nc {
		panic(fmt.Errorf("dimension mismatch in MulVecSym: dims = %d,%d, len(x) = %d", nr, nc, len(x)))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		xi := x[i]
		var sum float64
		for jj := raw.Indptr[i]; jj < raw.Indptr[i+1]; jj++ {
			j := raw.Ind[jj]
			v := 0.5 * raw.Data[jj]
			sum += v * x[j]
			y[j] += v * xi // transpose contribution
		}
		y[i] += sum
	}
	return
}

// RowSums returns the vector of row sums, A*ones.
func (m CSR) RowSums() (s []float64) {
	var (
		nr, _ = m.Dims()
		raw   = m.RawMatrix()
	)
	s = make([]float64, nr)
	for i := 0; i < nr; i++ {
		var sum float64
		for jj := raw.Indptr[i]; jj < raw.Indptr[i+1]; jj++ {
			sum += raw.Data[jj]
		}
		s[i] = sum
	}
	return
}

// Diagonal extracts the main diagonal of a square CSR.
func (m CSR) Diagonal() (d []float64) {
	var (
		nr, nc = m.Dims()
		raw    = m.RawMatrix()
	)
	if nr != nc {
		panic("Diagonal requires a square matrix")
	}
	d = make([]float64, nr)
	for i := 0; i < nr; i++ {
		for jj := raw.Indptr[i]; jj < raw.Indptr[i+1]; jj++ {
			if raw.Ind[jj] == i {
				d[i] = raw.Data[jj]
				break
			}
		}
	}
	return
}
