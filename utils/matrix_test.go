package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, 3, aNr)
		assert.Equal(t, 2, aNc)
		assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, A.Data())
	}
	// Mul
	{
		M := NewMatrix(2, 2, []float64{
			1, 2,
			3, 4,
		})
		A := NewMatrix(2, 2, []float64{
			5, 6,
			7, 8,
		})
		R := M.Mul(A)
		assert.Equal(t, []float64{19, 22, 43, 50}, R.Data())
	}
	// MulVec
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		y := M.MulVec([]float64{1, 1, 1})
		assert.Equal(t, []float64{6, 15}, y)
	}
	// QuadForm
	{
		M := NewMatrix(2, 2, []float64{
			2, 1,
			1, 3,
		})
		q := M.QuadForm([]float64{1, 2})
		// 1*2*1 + 2*1*1*2 + 3*4 = 18
		assert.InDelta(t, 18., q, 1.e-14)
	}
	// IsSymmetric
	{
		M := NewMatrix(2, 2, []float64{
			2, 1,
			1, 3,
		})
		assert.True(t, M.IsSymmetric(0))
		M.Set(0, 1, 1.5)
		assert.False(t, M.IsSymmetric(1.e-12))
	}
	// Copy does not alias
	{
		M := NewMatrix(1, 2, []float64{1, 2})
		A := M.Copy()
		A.Set(0, 0, 9)
		assert.Equal(t, 1., M.At(0, 0))
	}
	// ReadOnly guard
	{
		M := NewMatrix(1, 1)
		M.SetReadOnly("M")
		assert.Panics(t, func() { M.Set(0, 0, 1) })
	}
}
