// Package primal implements the two-phase primal simplex method over a
// tableau.Tableau.
package primal

import (
	"context"
	"fmt"

	"lpdss/internal/solver/canon"
	"lpdss/internal/solver/numeric"
	"lpdss/internal/solver/tableau"
)

// Outcome is the raw result of running the primal simplex to completion,
// before it is translated into a solve.Result by the dispatch facade.
type Outcome struct {
	Optimal    bool
	Unbounded  bool
	Infeasible bool
	Cancelled  bool
	Iterations int
	Log        []string
	Tableau    *tableau.Tableau // final tableau, valid when Optimal
}

// Options bounds the simplex loop.
type Options struct {
	MaxIterations int
}

// DefaultOptions is the default iteration cap applied when the caller has
// no tighter resource limit configured.
func DefaultOptions() Options {
	return Options{MaxIterations: 10000}
}

// Solve runs Phase I (if required) then Phase II over cf, returning the
// final tableau on success. ctx is checked between pivots; a nil context
// is treated as context.Background().
func Solve(ctx context.Context, cf *canon.CanonicalForm, opts Options) *Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	var log []string
	totalIter := 0

	var tb *tableau.Tableau
	if cf.PhaseIRequired {
		objRow := negate(cf.CPhaseI)
		tb = tableau.New(cf.A, cf.B, objRow, cf.BasicIdx)
		if !tb.IsIdentityBasis() {
			return &Outcome{Infeasible: true, Log: append(log, "starting basis is not an identity basis")}
		}
		tb.CanonicalizeObjectiveRow()

		log = append(log, "Phase I: driving artificial variables to zero")
		status, iters := iterate(ctx, tb, opts.MaxIterations, nil)
		totalIter += iters
		log = append(log, fmt.Sprintf("Phase I finished after %d iterations: %s", iters, status))

		switch status {
		case statusCancelled:
			return &Outcome{Cancelled: true, Iterations: totalIter, Log: log}
		case statusUnbounded:
			return &Outcome{Unbounded: true, Iterations: totalIter, Log: log}
		case statusMaxIter:
			return &Outcome{Infeasible: true, Iterations: totalIter, Log: append(log, "Phase I exceeded iteration cap")}
		}

		if !numeric.IsZeroTol(tb.RHS(0), 1e-6) {
			return &Outcome{Infeasible: true, Iterations: totalIter, Log: append(log, "Phase I objective did not reach zero: model is infeasible")}
		}

		tb, log2, err := dropArtificials(tb, cf)
		log = append(log, log2...)
		if err != nil {
			return &Outcome{Infeasible: true, Iterations: totalIter, Log: append(log, err.Error())}
		}

		tb.CanonicalizeObjectiveRow()
		log = append(log, "Phase II: optimizing original objective")
		status, iters = iterate(ctx, tb, opts.MaxIterations, artificialSet(cf))
		totalIter += iters
		log = append(log, fmt.Sprintf("Phase II finished after %d iterations: %s", iters, status))

		switch status {
		case statusCancelled:
			return &Outcome{Cancelled: true, Iterations: totalIter, Log: log}
		case statusUnbounded:
			return &Outcome{Unbounded: true, Iterations: totalIter, Log: log}
		case statusMaxIter:
			return &Outcome{Infeasible: true, Iterations: totalIter, Log: append(log, "Phase II exceeded iteration cap")}
		}
		return &Outcome{Optimal: true, Iterations: totalIter, Log: log, Tableau: tb}
	}

	objRow := negate(cf.C)
	tb = tableau.New(cf.A, cf.B, objRow, cf.BasicIdx)
	if !tb.IsIdentityBasis() {
		return &Outcome{Infeasible: true, Log: []string{"starting basis is not an identity basis"}}
	}
	tb.CanonicalizeObjectiveRow()

	log = append(log, "Phase II: optimizing objective (no Phase I needed)")
	status, iters := iterate(ctx, tb, opts.MaxIterations, nil)
	totalIter += iters
	log = append(log, fmt.Sprintf("finished after %d iterations: %s", iters, status))

	switch status {
	case statusCancelled:
		return &Outcome{Cancelled: true, Iterations: totalIter, Log: log}
	case statusUnbounded:
		return &Outcome{Unbounded: true, Iterations: totalIter, Log: log}
	case statusMaxIter:
		return &Outcome{Infeasible: true, Iterations: totalIter, Log: append(log, "exceeded iteration cap")}
	}
	return &Outcome{Optimal: true, Iterations: totalIter, Log: log, Tableau: tb}
}

type iterStatus int

const (
	statusOptimal iterStatus = iota
	statusUnbounded
	statusMaxIter
	statusCancelled
)

func (s iterStatus) String() string {
	switch s {
	case statusUnbounded:
		return "unbounded"
	case statusMaxIter:
		return "max iterations reached"
	case statusCancelled:
		return "cancelled"
	default:
		return "optimal"
	}
}

// iterate runs the maximization simplex iteration rule to completion, a
// cap, an unbounded detection, or cancellation. exclude, when non-nil,
// keeps the given columns (Phase I's artificials) out of entering-column
// consideration so they can never re-enter the basis during Phase II.
func iterate(ctx context.Context, tb *tableau.Tableau, maxIter int, exclude map[int]bool) (iterStatus, int) {
	iters := 0
	for iters < maxIter {
		select {
		case <-ctx.Done():
			return statusCancelled, iters
		default:
		}
		enter := enteringColumn(tb, exclude)
		if enter == -1 {
			return statusOptimal, iters
		}
		leave := leavingRow(tb, enter)
		if leave == -1 {
			return statusUnbounded, iters
		}
		tb.Pivot(leave+1, enter)
		iters++
	}
	return statusMaxIter, iters
}

// enteringColumn picks the non-basic column with the most negative entry in
// row 0; returns -1 when none is strictly negative (optimal).
func enteringColumn(tb *tableau.Tableau, exclude map[int]bool) int {
	best := -numeric.Eps
	col := -1
	for j := 0; j < tb.N; j++ {
		if exclude != nil && exclude[j] {
			continue
		}
		v := tb.T[0][j]
		if v < best {
			best = v
			col = j
		}
	}
	return col
}

// artificialSet returns the set of artificial column indices, used to keep
// them excluded from Phase II entering-column consideration.
func artificialSet(cf *canon.CanonicalForm) map[int]bool {
	out := make(map[int]bool, len(cf.ArtificialCols))
	for _, a := range cf.ArtificialCols {
		out[a] = true
	}
	return out
}

// leavingRow applies the minimum-ratio test, breaking ties by preferring
// the larger basic index for stability.
func leavingRow(tb *tableau.Tableau, enter int) int {
	bestRatio := -1.0
	row := -1
	for r := 0; r < tb.M; r++ {
		a := tb.T[r+1][enter]
		if a <= numeric.Eps {
			continue
		}
		ratio := tb.T[r+1][tb.N] / a
		if row == -1 || ratio < bestRatio-numeric.Eps {
			bestRatio = ratio
			row = r
		} else if numeric.IsZeroTol(ratio-bestRatio, 1e-9) {
			if tb.BasicIdx[r] > tb.BasicIdx[row] {
				row = r
			}
		}
	}
	return row
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

// dropArtificials pivots any artificial still basic out of the tableau
// (choosing any non-artificial column with a non-zero entry in that row),
// then rebuilds row 0 from the original Phase II objective over the
// remaining columns, completing the Phase I → Phase II transition.
func dropArtificials(tb *tableau.Tableau, cf *canon.CanonicalForm) (*tableau.Tableau, []string, error) {
	var log []string
	isArtificial := make(map[int]bool, len(cf.ArtificialCols))
	for _, a := range cf.ArtificialCols {
		isArtificial[a] = true
	}

	for r := 0; r < tb.M; r++ {
		if !isArtificial[tb.BasicIdx[r]] {
			continue
		}
		pivoted := false
		for j := 0; j < tb.N; j++ {
			if isArtificial[j] {
				continue
			}
			if !numeric.IsZero(tb.T[r+1][j]) {
				tb.Pivot(r+1, j)
				log = append(log, fmt.Sprintf("pivoted artificial out of row %d via column %d", r, j))
				pivoted = true
				break
			}
		}
		if !pivoted {
			return nil, log, fmt.Errorf("row %d is redundant or degenerate: could not pivot out its artificial", r)
		}
	}

	// Rebuild row 0 from the original Phase II objective. Artificial
	// columns keep a zero coefficient here and are excluded explicitly by
	// the caller's Phase II iterate() call so they can never re-enter.
	objRow := make([]float64, tb.N+1)
	copy(objRow[:len(cf.C)], negate(cf.C))
	tb.T[0] = objRow

	return tb, log, nil
}
