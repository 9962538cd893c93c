package bnb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpdss/internal/solver/canon"
	"lpdss/internal/solver/model"
)

func TestSolve_IntegerOptimum(t *testing.T) {
	m := &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{
			{Name: "x1", Coeff: 5, Sign: model.Integer},
			{Name: "x2", Coeff: 4, Sign: model.Integer},
		},
		Constraints: []model.Constraint{
			{Coeffs: []float64{6, 4}, Rel: model.LE, RHS: 24},
			{Coeffs: []float64{1, 2}, Rel: model.LE, RHS: 6},
		},
	}
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	res := Solve(context.Background(), cf, DefaultOptions())
	require.True(t, res.Success)
	assert.InDelta(t, 21.0, res.Objective, 1e-6)
	require.Len(t, res.X, 2)
	assert.InDelta(t, 3.0, res.X[0], 1e-6)
	assert.InDelta(t, 1.0, res.X[1], 1e-6)
}

func TestSolve_Infeasible(t *testing.T) {
	m := &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{{Name: "x1", Coeff: 1, Sign: model.Integer}},
		Constraints: []model.Constraint{
			{Coeffs: []float64{1}, Rel: model.LE, RHS: 1},
			{Coeffs: []float64{1}, Rel: model.GE, RHS: 5},
		},
	}
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	res := Solve(context.Background(), cf, DefaultOptions())
	assert.True(t, res.Infeasible)
}

func TestSolve_AlreadyIntegerRelaxation(t *testing.T) {
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
	assert.InDelta(t, 4.0, res.Objective, 1e-6)
	assert.Equal(t, 1, res.NodesUsed)
}

func TestSolve_CancelledContextWithNoIncumbent(t *testing.T) {
	m := &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{
			{Name: "x1", Coeff: 5, Sign: model.Integer},
			{Name: "x2", Coeff: 4, Sign: model.Integer},
		},
		Constraints: []model.Constraint{
			{Coeffs: []float64{6, 4}, Rel: model.LE, RHS: 24},
			{Coeffs: []float64{1, 2}, Rel: model.LE, RHS: 6},
		},
	}
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Solve(ctx, cf, DefaultOptions())
	assert.True(t, res.Cancelled)
}
