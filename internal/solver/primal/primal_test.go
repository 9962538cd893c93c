package primal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpdss/internal/solver/canon"
	"lpdss/internal/solver/model"
)

func TestSolve_NoPhaseINeeded(t *testing.T) {
	m := &model.Model{
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
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	out := Solve(context.Background(), cf, DefaultOptions())
	require.True(t, out.Optimal)
	assert.False(t, out.Infeasible)
	assert.InDelta(t, 36.0, out.Tableau.RHS(0), 1e-6)
}

func TestSolve_RequiresPhaseI(t *testing.T) {
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
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	out := Solve(context.Background(), cf, DefaultOptions())
	require.True(t, out.Optimal)
	assert.InDelta(t, 20.0, out.Tableau.RHS(0), 1e-6)
}

func TestSolve_Unbounded(t *testing.T) {
	m := &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{{Name: "x1", Coeff: 1, Sign: model.NonNeg}},
		Constraints: []model.Constraint{},
	}
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	out := Solve(context.Background(), cf, DefaultOptions())
	assert.True(t, out.Unbounded)
}

func TestSolve_Infeasible(t *testing.T) {
	m := &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{{Name: "x1", Coeff: 1, Sign: model.NonNeg}},
		Constraints: []model.Constraint{
			{Coeffs: []float64{1}, Rel: model.LE, RHS: 1},
			{Coeffs: []float64{1}, Rel: model.GE, RHS: 5},
		},
	}
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	out := Solve(context.Background(), cf, DefaultOptions())
	assert.True(t, out.Infeasible)
}

func TestSolve_CancelledContext(t *testing.T) {
	m := &model.Model{
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
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := Solve(ctx, cf, DefaultOptions())
	assert.True(t, out.Cancelled)
}
