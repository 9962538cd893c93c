package dual

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lpdss/internal/solver/tableau"
)

func TestReoptimize_RestoresFeasibility(t *testing.T) {
	a := [][]float64{
		{-1, -1, 1, 0},
		{-1, 2, 0, 1},
	}
	b := []float64{-1, 2}
	objRow := []float64{2, 3, 0, 0}
	tb := tableau.New(a, b, objRow, []int{2, 3})

	out := Reoptimize(context.Background(), tb, DefaultMaxIterations)
	assert.Equal(t, Optimal, out.Status)
	assert.GreaterOrEqual(t, tb.RHS(1), -1e-9)
	assert.GreaterOrEqual(t, tb.RHS(2), -1e-9)
}

func TestReoptimize_Infeasible(t *testing.T) {
	a := [][]float64{
		{1, 1, 1, 0},
		{0, 1, 0, 1},
	}
	b := []float64{-1, 2}
	objRow := []float64{0, 0, 0, 0}
	tb := tableau.New(a, b, objRow, []int{2, 3})

	out := Reoptimize(context.Background(), tb, DefaultMaxIterations)
	assert.Equal(t, Infeasible, out.Status)
}

func TestReoptimize_AlreadyFeasibleIsImmediatelyOptimal(t *testing.T) {
	a := [][]float64{{1, 0}, {0, 1}}
	b := []float64{4, 12}
	objRow := []float64{0, 0}
	tb := tableau.New(a, b, objRow, []int{0, 1})

	out := Reoptimize(context.Background(), tb, DefaultMaxIterations)
	assert.Equal(t, Optimal, out.Status)
	assert.Equal(t, 0, out.Iterations)
}

func TestReoptimize_CancelledContext(t *testing.T) {
	a := [][]float64{{-1, 1}, {1, -1}}
	b := []float64{-1, -1}
	objRow := []float64{1, 1}
	tb := tableau.New(a, b, objRow, []int{0, 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := Reoptimize(ctx, tb, DefaultMaxIterations)
	assert.Equal(t, Cancelled, out.Status)
}
