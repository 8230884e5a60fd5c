package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparse(t *testing.T) {
	// Accumulate is additive, ToCSR preserves entries
	{
		D := NewDOK(2, 2)
		D.Accumulate(0, 0, 1)
		D.Accumulate(0, 0, 2)
		D.Accumulate(1, 0, 4)
		C := D.ToCSR()
		assert.Equal(t, 3., C.At(0, 0))
		assert.Equal(t, 4., C.At(1, 0))
		assert.Equal(t, 0., C.At(1, 1))
	}
	// MulVec against a dense reference
	{
		D := NewDOK(3, 3)
		D.Set(0, 0, 2)
		D.Set(0, 2, 1)
		D.Set(1, 1, 3)
		D.Set(2, 0, 5)
		C := D.ToCSR()
		y := C.MulVec([]float64{1, 2, 3})
		assert.InDeltaSlice(t, []float64{5, 6, 5}, y, 1.e-14)
	}
	// MulVecSym applies 0.5*(A+A^T)
	{
		D := NewDOK(2, 2)
		D.Set(0, 1, 2) // asymmetric on purpose
		C := D.ToCSR()
		y := C.MulVecSym([]float64{1, 1})
		assert.InDeltaSlice(t, []float64{1, 1}, y, 1.e-14)
	}
	// RowSums and Diagonal
	{
		D := NewDOK(2, 2)
		D.Set(0, 0, 1.5)
		D.Set(0, 1, 0.5)
		D.Set(1, 1, 2)
		C := D.ToCSR()
		assert.InDeltaSlice(t, []float64{2, 2}, C.RowSums(), 1.e-14)
		assert.InDeltaSlice(t, []float64{1.5, 2}, C.Diagonal(), 1.e-14)
	}
	// ReadOnly guard
	{
		D := NewDOK(1, 1)
		D.SetReadOnly("D")
		assert.Panics(t, func() { D.Accumulate(0, 0, 1) })
	}
}
