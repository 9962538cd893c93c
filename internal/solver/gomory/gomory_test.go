package gomory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpdss/internal/solver/canon"
	"lpdss/internal/solver/model"
)

func sampleModel() *model.Model {
	return &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{
			{Name: "x1", Coeff: 3, Sign: model.Integer},
			{Name: "x2", Coeff: 4, Sign: model.Integer},
		},
		Constraints: []model.Constraint{
			{Coeffs: []float64{1, 2}, Rel: model.LE, RHS: 6},
			{Coeffs: []float64{3, 1}, Rel: model.LE, RHS: 9},
		},
	}
}

func TestApplicable_True(t *testing.T) {
	m := sampleModel()
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)
	assert.True(t, Applicable(m, cf))
}

func TestApplicable_FalseForMin(t *testing.T) {
	m := sampleModel()
	m.Direction = model.Min
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)
	assert.False(t, Applicable(m, cf))
}

func TestApplicable_FalseForNonInteger(t *testing.T) {
	m := sampleModel()
	m.Variables[0].Sign = model.NonNeg
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)
	assert.False(t, Applicable(m, cf))
}

func TestSolve_CuttingPlaneOptimum(t *testing.T) {
	m := sampleModel()
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)
	require.True(t, Applicable(m, cf))

	res := Solve(context.Background(), cf, DefaultOptions())
	require.True(t, res.Success)
	assert.InDelta(t, 11.0, res.Objective, 1e-6)
	require.Len(t, res.X, 2)
	assert.InDelta(t, 1.0, res.X[0], 1e-6)
	assert.InDelta(t, 2.0, res.X[1], 1e-6)
}

func TestSolve_AlreadyIntegerNeedsNoCuts(t *testing.T) {
	m := &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{{Name: "x1", Coeff: 1, Sign: model.Integer}},
		Constraints: []model.Constraint{
			{Coeffs: []float64{1}, Rel: model.LE, RHS: 4},
		},
	}
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	res := Solve(context.Background(), cf, DefaultOptions())
	require.True(t, res.Success)
	assert.Equal(t, 0, res.CutsAdded)
	assert.InDelta(t, 4.0, res.Objective, 1e-6)
}

func TestSolve_CancelledContext(t *testing.T) {
	m := sampleModel()
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Solve(ctx, cf, DefaultOptions())
	assert.True(t, res.Cancelled)
}
