package tableau

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Tableau {
	a := [][]float64{
		{1, 0, 1, 0},
		{0, 2, 0, 1},
	}
	b := []float64{4, 12}
	objRow := []float64{-3, -5, 0, 0}
	return New(a, b, objRow, []int{2, 3})
}

func TestNew(t *testing.T) {
	tb := sample()
	assert.Equal(t, 2, tb.M)
	assert.Equal(t, 4, tb.N)
	assert.Equal(t, 4.0, tb.RHS(1))
	assert.Equal(t, 12.0, tb.RHS(2))
}

func TestClone_IsIndependent(t *testing.T) {
	tb := sample()
	clone := tb.Clone()
	clone.T[1][0] = 999
	clone.BasicIdx[0] = 0
	assert.Equal(t, 1.0, tb.T[1][0])
	assert.Equal(t, 2, tb.BasicIdx[0])
}

func TestPivot(t *testing.T) {
	tb := sample()
	require.NoError(t, tb.Pivot(2, 1))
	assert.Equal(t, 1, tb.BasicIdx[1])
	assert.Equal(t, 6.0, tb.RHS(2))
	assert.InDelta(t, 0.0, tb.T[0][1], 1e-9)
}

func TestPivot_ZeroPivotErrors(t *testing.T) {
	tb := sample()
	err := tb.Pivot(1, 1)
	assert.Error(t, err)
}

func TestIsIdentityBasis(t *testing.T) {
	tb := sample()
	assert.True(t, tb.IsIdentityBasis())
	tb.T[1][2] = 0.5
	assert.False(t, tb.IsIdentityBasis())
}

func TestColumnOf(t *testing.T) {
	tb := sample()
	col := tb.ColumnOf(1)
	assert.Equal(t, []float64{-5, 0, 2}, col)
}

func TestNonBasicColumns(t *testing.T) {
	tb := sample()
	assert.Equal(t, []int{0, 1}, tb.NonBasicColumns())
}

func TestAppendRowColumn(t *testing.T) {
	tb := sample()
	tb.AppendRowColumn()
	assert.Equal(t, 3, tb.M)
	assert.Equal(t, 5, tb.N)
	assert.Equal(t, -1, tb.BasicIdx[2])
	assert.Len(t, tb.T[0], 6)
	assert.Equal(t, 0.0, tb.T[0][4])
	assert.Equal(t, 0.0, tb.T[1][4])
}

func TestCanonicalizeObjectiveRow(t *testing.T) {
	a := [][]float64{{1, 1, 1, 0}, {1, -1, 0, 1}}
	b := []float64{4, 2}
	objRow := []float64{0, -2, 0, 0}
	tb := New(a, b, objRow, []int{2, 3})
	tb.T[0][2] = 3
	tb.CanonicalizeObjectiveRow()
	assert.InDelta(t, 0.0, tb.T[0][2], 1e-9)
}
