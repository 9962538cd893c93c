package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpdss/internal/solver/model"
)

func maxModel() *model.Model {
	return &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{
			{Name: "x1", Coeff: 3, Sign: model.NonNeg},
			{Name: "x2", Coeff: 5, Sign: model.NonNeg},
		},
		Constraints: []model.Constraint{
			{Coeffs: []float64{1, 0}, Rel: model.LE, RHS: 4},
			{Coeffs: []float64{0, 2}, Rel: model.LE, RHS: 12},
			{Coeffs: []float64{3, 2}, Rel: model.LE, RHS: 18},
		},
	}
}

func TestCanonicalize_AllSlack(t *testing.T) {
	cf, err := Canonicalize(maxModel())
	require.NoError(t, err)
	assert.False(t, cf.PhaseIRequired)
	assert.Len(t, cf.SlackCols, 3)
	assert.Empty(t, cf.ArtificialCols)
	assert.Equal(t, []float64{3, 5, 0, 0, 0}, cf.C)
	assert.Equal(t, 3, cf.NumRows())
	assert.Equal(t, 5, cf.NumCols())
}

func TestCanonicalize_GERequiresArtificial(t *testing.T) {
	m := &model.Model{
		Direction: model.Min,
		Variables: []model.Variable{
			{Name: "x1", Coeff: 6, Sign: model.NonNeg},
			{Name: "x2", Coeff: 8, Sign: model.NonNeg},
		},
		Constraints: []model.Constraint{
			{Coeffs: []float64{3, 1}, Rel: model.GE, RHS: 4},
			{Coeffs: []float64{1, 2}, Rel: model.GE, RHS: 4},
		},
	}
	cf, err := Canonicalize(m)
	require.NoError(t, err)
	assert.True(t, cf.PhaseIRequired)
	assert.True(t, cf.MinFlip)
	assert.Len(t, cf.SurplusCols, 2)
	assert.Len(t, cf.ArtificialCols, 2)
	for _, a := range cf.ArtificialCols {
		assert.Equal(t, -1.0, cf.CPhaseI[a])
	}
}

func TestCanonicalize_FreeVariableSplitsIntoTwoColumns(t *testing.T) {
	m := &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{
			{Name: "x1", Coeff: 1, Sign: model.Free},
		},
		Constraints: []model.Constraint{
			{Coeffs: []float64{1}, Rel: model.LE, RHS: 5},
		},
	}
	cf, err := Canonicalize(m)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cf.C[0])
	assert.Equal(t, -1.0, cf.C[1])
	assert.Equal(t, 0, cf.Names.Vars[0].PosCol)
	assert.Equal(t, 1, cf.Names.Vars[0].NegCol)
}

func TestCanonicalize_NegativeRHSFlipsRow(t *testing.T) {
	m := &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{{Name: "x1", Coeff: 1, Sign: model.NonNeg}},
		Constraints: []model.Constraint{
			{Coeffs: []float64{-1}, Rel: model.LE, RHS: -5},
		},
	}
	cf, err := Canonicalize(m)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cf.B[0])
	assert.Equal(t, 1.0, cf.A[0][0])
}

func TestClone_IsDeepCopy(t *testing.T) {
	cf, err := Canonicalize(maxModel())
	require.NoError(t, err)
	clone := cf.Clone()
	clone.A[0][0] = 999
	clone.B[0] = 999
	assert.NotEqual(t, cf.A[0][0], clone.A[0][0])
	assert.NotEqual(t, cf.B[0], clone.B[0])
}
