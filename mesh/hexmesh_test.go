package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexMesh(t *testing.T) {
	// Single element: connectivity must follow the corner ordering exactly.
	// Wrong offsets corrupt assembly silently, so this is pinned.
	{
		m, err := New(1, 1, 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, m.Nele)
		assert.Equal(t, 8, m.Nnode)
		assert.Equal(t, [8]int{0, 1, 3, 2, 4, 5, 7, 6}, m.EDof[0])
	}
	// 2x2x2 grid: counts and an interior element's node ids
	{
		m, err := New(2, 2, 2)
		assert.NoError(t, err)
		assert.Equal(t, 8, m.Nele)
		assert.Equal(t, 27, m.Nnode)
		e := m.ElemID(1, 0, 0)
		assert.Equal(t, [8]int{1, 2, 5, 4, 10, 11, 14, 13}, m.EDof[e])
	}
	// Element and node index round trips
	{
		m, _ := New(3, 4, 5)
		assert.Equal(t, 60, m.Nele)
		for e := 0; e < m.Nele; e++ {
			i, j, k := m.ElemCoords(e)
			assert.Equal(t, e, m.ElemID(i, j, k))
		}
		for n := 0; n < m.Nnode; n++ {
			i, j, k := m.NodeCoords(n)
			assert.Equal(t, n, m.NodeID(i, j, k))
		}
	}
	// Shared node: elements meeting at a corner reference the same DOF
	{
		m, _ := New(2, 1, 1)
		// node (1,*,*) plane is shared between elements 0 and 1
		assert.Equal(t, m.EDof[0][1], m.EDof[1][0])
		assert.Equal(t, m.EDof[0][2], m.EDof[1][3])
		assert.Equal(t, m.EDof[0][5], m.EDof[1][4])
		assert.Equal(t, m.EDof[0][6], m.EDof[1][7])
	}
	// Invalid dimensions are rejected
	{
		_, err := New(0, 1, 1)
		assert.Error(t, err)
		_, err = New(1, -2, 1)
		assert.Error(t, err)
	}
}
