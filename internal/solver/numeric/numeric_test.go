package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsZeroAndTol(t *testing.T) {
	assert.True(t, IsZero(1e-12))
	assert.False(t, IsZero(1e-6))
	assert.True(t, IsZeroTol(1e-3, 1e-2))
}

func TestFracAndIsInteger(t *testing.T) {
	assert.InDelta(t, 0.5, Frac(3.5), 1e-9)
	assert.InDelta(t, 0.5, Frac(-3.5), 1e-9)
	assert.True(t, IsInteger(4.0))
	assert.True(t, IsInteger(4.0+1e-12))
	assert.False(t, IsInteger(4.3))
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 1.235, Round3(1.2346))
	assert.Equal(t, 2.0, Round3(2.0))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "4", FormatNumber(4.0))
	assert.Equal(t, "4", FormatNumber(3.9999999999))
	assert.Equal(t, "1.667", FormatNumber(5.0/3.0))
}

func TestInvert_Identity(t *testing.T) {
	m := [][]float64{{1, 0}, {0, 1}}
	inv, err := Invert(m)
	require.NoError(t, err)
	assert.Equal(t, m, inv)
}

func TestInvert_Simple(t *testing.T) {
	m := [][]float64{{2, 0}, {0, 4}}
	inv, err := Invert(m)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, inv[0][0], 1e-9)
	assert.InDelta(t, 0.25, inv[1][1], 1e-9)
}

func TestInvert_Singular(t *testing.T) {
	m := [][]float64{{1, 2}, {2, 4}}
	_, err := Invert(m)
	assert.Error(t, err)
}

func TestInvert_NonSquare(t *testing.T) {
	m := [][]float64{{1, 2, 3}, {4, 5, 6}}
	_, err := Invert(m)
	assert.Error(t, err)
}

func TestMatVecAndDotAndVecMatTranspose(t *testing.T) {
	m := [][]float64{{1, 2}, {3, 4}}
	v := []float64{1, 1}
	assert.Equal(t, []float64{3, 7}, MatVec(m, v))
	assert.Equal(t, 4.0, Dot([]float64{1, 2}, []float64{2, 1}))

	y := []float64{1, 1}
	assert.Equal(t, []float64{4, 6}, VecMatTranspose(y, m))
}

func TestJoinLog(t *testing.T) {
	assert.Equal(t, "a\nb", JoinLog([]string{"a", "b"}))
}
