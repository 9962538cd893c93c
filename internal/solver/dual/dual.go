// Package dual implements the dual simplex method, used both standalone on
// a dual-feasible/primal-infeasible tableau and to re-optimize after row
// injections in branch-and-bound and Gomory cut generation.
package dual

import (
	"context"
	"fmt"

	"lpdss/internal/solver/numeric"
	"lpdss/internal/solver/tableau"
)

// Status is the outcome of re-optimizing a tableau with the dual simplex.
type Status int

const (
	Optimal Status = iota
	Infeasible
	MaxIterations
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Infeasible:
		return "infeasible"
	case MaxIterations:
		return "max iterations reached"
	case Cancelled:
		return "cancelled"
	default:
		return "optimal"
	}
}

// Outcome reports what happened during a dual-simplex re-optimization run.
type Outcome struct {
	Status     Status
	Iterations int
	Log        []string
}

// DefaultMaxIterations mirrors the primal simplex's iteration cap; the dual
// simplex is always used for incremental re-optimization after a small
// perturbation, so it converges quickly in practice.
const DefaultMaxIterations = 10000

// Reoptimize runs the dual simplex to restore primal feasibility (all RHS
// >= 0) starting from a dual-feasible tableau (all reduced costs >= 0),
// mutating tb in place. ctx is checked between pivots; a nil context is
// treated as context.Background().
func Reoptimize(ctx context.Context, tb *tableau.Tableau, maxIter int) *Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	var log []string
	iters := 0
	for iters < maxIter {
		select {
		case <-ctx.Done():
			return &Outcome{Status: Cancelled, Iterations: iters, Log: log}
		default:
		}
		leave := leavingRow(tb)
		if leave == -1 {
			return &Outcome{Status: Optimal, Iterations: iters, Log: log}
		}
		enter := enteringColumn(tb, leave)
		if enter == -1 {
			log = append(log, fmt.Sprintf("row %d has negative RHS but no entering column qualifies: infeasible", leave))
			return &Outcome{Status: Infeasible, Iterations: iters, Log: log}
		}
		tb.Pivot(leave+1, enter)
		iters++
	}
	return &Outcome{Status: MaxIterations, Iterations: iters, Log: append(log, "dual simplex exceeded iteration cap")}
}

// leavingRow picks the constraint row with the most negative RHS; returns
// -1 when every RHS is already >= 0 (primal feasible, done).
func leavingRow(tb *tableau.Tableau) int {
	best := -numeric.Eps
	row := -1
	for r := 0; r < tb.M; r++ {
		v := tb.RHS(r + 1)
		if v < best {
			best = v
			row = r
		}
	}
	return row
}

// enteringColumn applies the dual ratio test for the chosen leaving row:
// among non-basic columns with a strictly negative entry in that row,
// minimize reduced_cost(j) / (-T[leave+1][j]); ties favor the lower column
// index. If no strictly negative candidate exists, a near-zero fallback is
// permitted before declaring infeasibility.
func enteringColumn(tb *tableau.Tableau, leave int) int {
	row := tb.T[leave+1]
	basicSet := make(map[int]bool, tb.M)
	for _, j := range tb.BasicIdx {
		basicSet[j] = true
	}

	best := -1
	bestRatio := 0.0
	for j := 0; j < tb.N; j++ {
		if basicSet[j] {
			continue
		}
		a := row[j]
		if a >= -numeric.Eps {
			continue
		}
		ratio := tb.T[0][j] / (-a)
		if best == -1 || ratio < bestRatio-numeric.Eps {
			bestRatio = ratio
			best = j
		} else if numeric.IsZeroTol(ratio-bestRatio, 1e-9) && j < best {
			best = j
		}
	}
	if best != -1 {
		return best
	}

	// Fallback: permit a near-zero (but not exactly zero) coefficient, for
	// degenerate rows where strict inequality finds nothing.
	for j := 0; j < tb.N; j++ {
		if basicSet[j] {
			continue
		}
		a := row[j]
		if a < 0 && a > -1e-6 {
			return j
		}
	}
	return -1
}
