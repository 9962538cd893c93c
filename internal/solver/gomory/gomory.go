// Package gomory implements the fractional cutting-plane method, per spec
// §4.6: applicable to MAX models with all <=-constraints, RHS >= 0, and
// every decision variable integer or binary; otherwise the caller falls
// back to branch-and-bound.
package gomory

import (
	"context"
	"fmt"
	"math"

	"lpdss/internal/solver/canon"
	"lpdss/internal/solver/dual"
	"lpdss/internal/solver/model"
	"lpdss/internal/solver/numeric"
	"lpdss/internal/solver/primal"
	"lpdss/internal/solver/tableau"
)

// Options bounds the cutting-plane loop.
type Options struct {
	MaxCuts       int
	MaxIterations int // per dual-simplex re-optimization
}

// DefaultOptions caps the cutting-plane loop at 200 cuts.
func DefaultOptions() Options {
	return Options{MaxCuts: 200, MaxIterations: 10000}
}

// Result is the outcome of a Gomory cutting-plane run.
type Result struct {
	Success    bool
	Infeasible bool
	Unbounded  bool
	Cancelled  bool
	BestEffort bool
	Objective  float64
	X          []float64
	CutsAdded  int
	Log        []string
}

// Applicable reports whether cf (and the model it came from) satisfy the
// shape Gomory requires: MAX, every constraint originally <=, RHS >= 0
// (always true post-canonicalization), and every variable integer or
// binary.
func Applicable(m *model.Model, cf *canon.CanonicalForm) bool {
	if m.Direction != model.Max {
		return false
	}
	for _, c := range m.Constraints {
		if c.Rel != model.LE {
			return false
		}
	}
	for _, v := range m.Variables {
		if !v.Sign.IsIntegerTyped() {
			return false
		}
	}
	return len(cf.ArtificialCols) == 0
}

// Solve runs the Gomory cutting-plane algorithm over cf (which must
// already satisfy Applicable; binary variables' x_j <= 1 rows must
// already be injected by the caller, exactly as for branch-and-bound).
func Solve(ctx context.Context, cf *canon.CanonicalForm, opts Options) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	var log []string

	outcome := primal.Solve(ctx, cf, primal.DefaultOptions())
	log = append(log, outcome.Log...)
	if outcome.Cancelled {
		return &Result{Cancelled: true, Log: log}
	}
	if outcome.Unbounded {
		return &Result{Unbounded: true, Log: log}
	}
	if !outcome.Optimal {
		return &Result{Infeasible: true, Log: log}
	}

	tb := outcome.Tableau
	intCols := decisionColumns(cf)

	cuts := 0
	for {
		select {
		case <-ctx.Done():
			log = append(log, "cancelled during cutting-plane loop")
			return &Result{Cancelled: true, Log: log, CutsAdded: cuts}
		default:
		}
		row, ok := selectCutRow(tb, intCols)
		if !ok {
			break
		}
		if cuts >= opts.MaxCuts {
			log = append(log, fmt.Sprintf("cut cap (%d) reached; returning best-effort rounded candidate", opts.MaxCuts))
			return bestEffort(cf, tb, log)
		}

		addCutRow(tb, row)
		cuts++
		log = append(log, fmt.Sprintf("cut %d: added from row %d", cuts, row))

		reopt := dual.Reoptimize(ctx, tb, opts.MaxIterations)
		log = append(log, reopt.Log...)
		if reopt.Status == dual.Cancelled {
			log = append(log, "cancelled during post-cut re-optimization")
			return &Result{Cancelled: true, Log: log, CutsAdded: cuts}
		}
		if reopt.Status == dual.Infeasible {
			log = append(log, "dual simplex stalled after cut addition; returning best-effort candidate")
			return bestEffort(cf, tb, log)
		}
		if reopt.Status == dual.MaxIterations {
			return bestEffort(cf, tb, log)
		}
	}

	obj := tb.RHS(0)
	x := extractDecisionValues(cf, tb)
	return &Result{Success: true, Objective: obj, X: x, CutsAdded: cuts, Log: log}
}

// decisionColumns returns the set of canonical columns corresponding to
// original decision variables (both halves of a "urs" split, though Gomory
// never applies to free variables since they are not integer-typed here).
func decisionColumns(cf *canon.CanonicalForm) map[int]bool {
	out := make(map[int]bool)
	for _, v := range cf.Names.Vars {
		out[v.PosCol] = true
		if v.NegCol >= 0 {
			out[v.NegCol] = true
		}
	}
	return out
}

// selectCutRow picks the source row for the next cut: among rows whose
// basic variable is a decision variable and whose RHS is not within eps
// of an integer (fractional part f_r), pick the
// row minimizing |f_r - 0.5| (tie: lowest basic column); fall back to any
// row with fractional RHS if that set is empty.
func selectCutRow(tb *tableau.Tableau, decisionCols map[int]bool) (int, bool) {
	best := -1
	bestDist := 2.0
	for r := 0; r < tb.M; r++ {
		j := tb.BasicIdx[r]
		if !decisionCols[j] {
			continue
		}
		f := numeric.Frac(tb.RHS(r + 1))
		if numeric.IsInteger(tb.RHS(r + 1)) {
			continue
		}
		dist := f - 0.5
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist-numeric.Eps || (numeric.IsZeroTol(dist-bestDist, 1e-9) && j < tb.BasicIdx[best]) {
			best = r
			bestDist = dist
		}
	}
	if best != -1 {
		return best, true
	}

	for r := 0; r < tb.M; r++ {
		if !numeric.IsInteger(tb.RHS(r + 1)) {
			return r, true
		}
	}
	return -1, false
}

// addCutRow builds and appends the Gomory cut:
// -sum(f_j * x_j) + s_new = -f_0, where f_j is the fractional part of
// T[row+1][j] for every non-basic column j, and f_0 is the fractional part
// of the row's RHS.
func addCutRow(tb *tableau.Tableau, row int) {
	source := tb.T[row+1]
	f0 := numeric.Frac(source[tb.N])

	fj := make([]float64, tb.N)
	basic := make(map[int]bool, tb.M)
	for _, j := range tb.BasicIdx {
		basic[j] = true
	}
	for j := 0; j < tb.N; j++ {
		if basic[j] {
			continue
		}
		fj[j] = numeric.Frac(source[j])
	}

	tb.AppendRowColumn()
	newRowIdx := tb.M
	newCol := tb.N - 1
	for j := 0; j < newCol; j++ {
		tb.T[newRowIdx][j] = -fj[j]
	}
	tb.T[newRowIdx][newCol] = 1
	tb.T[newRowIdx][tb.N] = -f0
	tb.BasicIdx[newRowIdx-1] = newCol
}

// bestEffort rounds the current tableau's decision values to the nearest
// integers when the cutting-plane loop cannot proceed further, and returns
// that candidate marked best-effort. The rounded candidate is not checked
// against the constraints, and no earlier candidate is kept for comparison.
func bestEffort(cf *canon.CanonicalForm, tb *tableau.Tableau, log []string) *Result {
	x := extractDecisionValues(cf, tb)
	for i := range x {
		x[i] = math.Round(x[i])
	}
	obj := numeric.Dot(objectiveCoeffs(cf), x)
	return &Result{BestEffort: true, Success: true, Objective: obj, X: x, Log: log}
}

func objectiveCoeffs(cf *canon.CanonicalForm) []float64 {
	out := make([]float64, len(cf.Names.Vars))
	for i, v := range cf.Names.Vars {
		// c was negated by MIN-flip already in canonicalization; read back
		// the decision column's Phase II coefficient directly.
		out[i] = cf.C[v.PosCol]
	}
	return out
}

func extractDecisionValues(cf *canon.CanonicalForm, tb *tableau.Tableau) []float64 {
	colVals := make([]float64, tb.N)
	for r, j := range tb.BasicIdx {
		if j >= 0 && j < len(colVals) {
			colVals[j] = tb.RHS(r + 1)
		}
	}
	x := make([]float64, len(cf.Names.Vars))
	for i, v := range cf.Names.Vars {
		x[i] = colVals[v.PosCol]
	}
	return x
}
