// Package solve is the dispatch facade tying the parser, canonicalizer,
// and the primal/dual/bnb/gomory/knapsack engines together behind one
// solve contract: a model is a tagged variant handled by a common
// solve(Model) -> Result contract rather than runtime inheritance.
package solve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lpdss/internal/solver/bnb"
	"lpdss/internal/solver/canon"
	"lpdss/internal/solver/dual"
	"lpdss/internal/solver/gomory"
	"lpdss/internal/solver/knapsack"
	"lpdss/internal/solver/model"
	"lpdss/internal/solver/numeric"
	"lpdss/internal/solver/parser"
	"lpdss/internal/solver/primal"
	"lpdss/internal/solver/revised"
	"lpdss/internal/solver/sensitivity"
	"lpdss/internal/solver/tableau"
)

// Algorithm selects which engine handles a solve request.
type Algorithm int

const (
	// AlgorithmAuto lets the engine pick when the caller leaves Algorithm
	// unspecified, substituting whichever engine fits the model shape.
	AlgorithmAuto Algorithm = iota
	PrimalSimplex
	RevisedSimplex
	DualSimplex
	BranchAndBound
	Knapsack01
	CuttingPlane
)

func (a Algorithm) String() string {
	switch a {
	case PrimalSimplex:
		return "PrimalSimplex"
	case RevisedSimplex:
		return "RevisedSimplex"
	case DualSimplex:
		return "DualSimplex"
	case BranchAndBound:
		return "BranchAndBound"
	case Knapsack01:
		return "Knapsack01"
	case CuttingPlane:
		return "CuttingPlane"
	default:
		return "Auto"
	}
}

// Settings bounds a solve run: resource caps plus presentation flags.
type Settings struct {
	MaxIterations    int
	MaxNodes         int
	MaxCuts          int
	Verbose          bool
	TimeLimitSeconds int
	// DisablePruning flips bnb.Options.PruneByBound off, enabling a
	// pedagogical "enumerate all candidates" mode that never prunes a
	// branch by bound.
	DisablePruning bool
}

// DefaultSettings returns the default resource caps applied to a solve
// run when the caller supplies none.
func DefaultSettings() Settings {
	return Settings{MaxIterations: 10000, MaxNodes: 10000, MaxCuts: 200, TimeLimitSeconds: 30}
}

// Request is one solve invocation.
type Request struct {
	Algorithm Algorithm
	ModelText string
	Settings  Settings
}

// Result is the outcome of a solve, carrying both the response payload
// and the internal state a follow-up action needs to re-solve without
// re-parsing from scratch.
type Result struct {
	Success    bool
	Unbounded  bool
	Infeasible bool
	Cancelled  bool

	Objective        *float64 // nil on failure, rounded to 3 decimals on success
	SolutionSummary  string   // "x1=..., x2=..."
	OutputText       string   // the log, newline-joined
	RuntimeMs        int64
	AlgorithmUsed    Algorithm
	NodesUsed        int
	CutsAdded        int

	// Normalized is populated on a parse failure, for echoing per §6's
	// "bad-input with normalized text echoed for diagnosis".
	ParseError string
	Normalized string

	// State carried for follow-up actions (Change RHS, Add constraint,
	// Apply duality, sensitivity). Nil when the solve itself failed to
	// produce an optimal tableau (infeasible/unbounded/cancelled/resource
	// cap): sensitivity and duality follow-ups are only meaningful on an
	// optimal LP relaxation tableau.
	Model *model.Model
	Form  *canon.CanonicalForm
	Tab   *tableau.Tableau
}

// Solve parses req.ModelText, canonicalizes it, picks an engine, and runs
// it to completion, a resource cap, or cancellation/timeout. A nil ctx is
// treated as context.Background(); req.Settings.TimeLimitSeconds (if > 0)
// further bounds ctx with its own deadline.
func Solve(ctx context.Context, req Request) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	start := elapsedClockStart()

	if req.Settings.TimeLimitSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.Settings.TimeLimitSeconds)*time.Second)
		defer cancel()
	}

	m, err := parser.Parse(req.ModelText)
	if err != nil {
		res := &Result{ParseError: err.Error()}
		if pe, ok := err.(*parser.ParseError); ok {
			res.Normalized = pe.Normalized
		}
		res.RuntimeMs = elapsedClockMs(start)
		return res
	}

	return SolveModel(ctx, m, req.Algorithm, req.Settings, start)
}

// SolveModel runs the engine over an already-parsed model, used both by
// Solve and by the follow-up actions (Change RHS, Add constraint) that
// re-parse text themselves and then need the same dispatch logic.
func SolveModel(ctx context.Context, m *model.Model, algo Algorithm, settings Settings, start time.Time) *Result {
	if settings.MaxIterations <= 0 {
		settings.MaxIterations = DefaultSettings().MaxIterations
	}
	if settings.MaxNodes <= 0 {
		settings.MaxNodes = DefaultSettings().MaxNodes
	}
	if settings.MaxCuts <= 0 {
		settings.MaxCuts = DefaultSettings().MaxCuts
	}

	chosen := resolveAlgorithm(algo, m)

	switch chosen {
	case Knapsack01:
		return solveKnapsack(m, chosen, start)
	case RevisedSimplex:
		return solveRevised(ctx, m, chosen, start)
	}

	withBinBounds := injectBinaryUpperBounds(m)
	cf, err := canon.Canonicalize(withBinBounds)
	if err != nil {
		return &Result{ParseError: err.Error(), RuntimeMs: elapsedClockMs(start)}
	}

	switch chosen {
	case BranchAndBound:
		return solveBnB(ctx, m, cf, settings, start)
	case CuttingPlane:
		if !gomory.Applicable(withBinBounds, cf) {
			return solveBnB(ctx, m, cf, settings, start)
		}
		return solveGomory(ctx, m, cf, settings, start)
	case DualSimplex:
		return solveDualOrPrimal(ctx, m, cf, settings, start)
	default:
		return solvePrimal(ctx, m, cf, settings, start)
	}
}

// resolveAlgorithm applies the auto-dispatch policy when Algorithm is
// unspecified: knapsack specialization first, then MIP, then MIN vs MAX.
func resolveAlgorithm(algo Algorithm, m *model.Model) Algorithm {
	if algo != AlgorithmAuto {
		return algo
	}
	if knapsack.Applicable(m) {
		return Knapsack01
	}
	if m.HasIntegerVariables() {
		return BranchAndBound
	}
	if m.Direction == model.Min {
		return DualSimplex
	}
	return PrimalSimplex
}

// injectBinaryUpperBounds returns a clone of m with an explicit x_j <= 1
// constraint appended for every binary variable, so the root relaxation
// never lets a bin variable drift above 1. Variables with any other
// sign restriction are untouched.
func injectBinaryUpperBounds(m *model.Model) *model.Model {
	out := m.Clone()
	n := out.NumVars()
	for i, v := range out.Variables {
		if v.Sign != model.Binary {
			continue
		}
		coeffs := make([]float64, n)
		coeffs[i] = 1
		out.Constraints = append(out.Constraints, model.Constraint{Coeffs: coeffs, Rel: model.LE, RHS: 1})
	}
	return out
}

func solvePrimal(ctx context.Context, m *model.Model, cf *canon.CanonicalForm, settings Settings, start time.Time) *Result {
	outcome := primal.Solve(ctx, cf, primal.Options{MaxIterations: settings.MaxIterations})
	res := &Result{AlgorithmUsed: PrimalSimplex, OutputText: strings.Join(outcome.Log, "\n"), RuntimeMs: elapsedClockMs(start)}
	switch {
	case outcome.Cancelled:
		res.Cancelled = true
	case outcome.Unbounded:
		res.Unbounded = true
	case !outcome.Optimal:
		res.Infeasible = true
	default:
		x := extractOriginal(cf, outcome.Tableau)
		finish(res, cf, m, outcome.Tableau, x, outcome.Tableau.RHS(0))
	}
	return res
}

// solveDualOrPrimal implements the DualSimplex algorithm choice: if the
// canonicalized objective row is already dual-feasible (every reduced cost
// >= 0, i.e. no Phase I is required and every coefficient in -c is
// nonnegative), the dual simplex runs directly on the starting tableau;
// otherwise it falls back to the two-phase primal simplex and logs why.
// This is the one coherent dispatch behavior committed to here, rather
// than requiring the caller to pick between variants up front.
func solveDualOrPrimal(ctx context.Context, m *model.Model, cf *canon.CanonicalForm, settings Settings, start time.Time) *Result {
	if cf.PhaseIRequired {
		res := solvePrimal(ctx, m, cf, settings, start)
		res.OutputText = "DualSimplex requested, but this model requires Phase I (>= or = constraints present); falling back to the two-phase primal simplex.\n" + res.OutputText
		return res
	}

	objRow := make([]float64, len(cf.C))
	for j, c := range cf.C {
		objRow[j] = -c
	}
	dualFeasible := true
	for _, v := range objRow {
		if v < -numeric.Eps {
			dualFeasible = false
			break
		}
	}
	if !dualFeasible {
		res := solvePrimal(ctx, m, cf, settings, start)
		res.OutputText = "DualSimplex requested, but the starting tableau is not dual-feasible; falling back to the primal simplex.\n" + res.OutputText
		return res
	}

	tb := tableau.New(cf.A, cf.B, objRow, cf.BasicIdx)
	outcome := dual.Reoptimize(ctx, tb, settings.MaxIterations)
	res := &Result{AlgorithmUsed: DualSimplex, OutputText: strings.Join(outcome.Log, "\n"), RuntimeMs: elapsedClockMs(start)}
	switch outcome.Status {
	case dual.Cancelled:
		res.Cancelled = true
	case dual.Infeasible:
		res.Infeasible = true
	case dual.MaxIterations:
		res.Infeasible = true
	default:
		x := extractOriginal(cf, tb)
		finish(res, cf, m, tb, x, tb.RHS(0))
	}
	return res
}

func solveBnB(ctx context.Context, m *model.Model, cf *canon.CanonicalForm, settings Settings, start time.Time) *Result {
	opts := bnb.Options{MaxNodes: settings.MaxNodes, PruneByBound: !settings.DisablePruning, MaxIterations: settings.MaxIterations}
	result := bnb.Solve(ctx, cf, opts)
	res := &Result{AlgorithmUsed: BranchAndBound, OutputText: strings.Join(result.Log, "\n"), RuntimeMs: elapsedClockMs(start), NodesUsed: result.NodesUsed}
	switch {
	case result.Cancelled:
		res.Cancelled = true
	case result.Unbounded:
		res.Unbounded = true
	case result.Infeasible:
		res.Infeasible = true
	default:
		finish(res, cf, m, result.Tableau, result.X, result.Objective)
	}
	return res
}

func solveGomory(ctx context.Context, m *model.Model, cf *canon.CanonicalForm, settings Settings, start time.Time) *Result {
	opts := gomory.Options{MaxCuts: settings.MaxCuts, MaxIterations: settings.MaxIterations}
	result := gomory.Solve(ctx, cf, opts)
	res := &Result{AlgorithmUsed: CuttingPlane, OutputText: strings.Join(result.Log, "\n"), RuntimeMs: elapsedClockMs(start), CutsAdded: result.CutsAdded}
	switch {
	case result.Cancelled:
		res.Cancelled = true
	case result.Unbounded:
		res.Unbounded = true
	case result.Infeasible:
		res.Infeasible = true
	default:
		obj := numeric.Round3(result.Objective)
		res.Success = true
		res.Objective = &obj
		res.SolutionSummary = formatSummary(m, result.X)
		res.Model = m
		res.Form = cf
		if result.BestEffort {
			res.OutputText += "\n(best-effort: cutting-plane search did not fully converge)"
		}
	}
	return res
}

func solveKnapsack(m *model.Model, chosen Algorithm, start time.Time) *Result {
	result := knapsack.Solve(m)
	obj := numeric.Round3(result.Objective)
	return &Result{
		Success:         true,
		AlgorithmUsed:   chosen,
		Objective:       &obj,
		SolutionSummary: formatSummary(m, result.X),
		OutputText:      strings.Join(result.Log, "\n"),
		RuntimeMs:       elapsedClockMs(start),
		Model:           m,
	}
}

func solveRevised(ctx context.Context, m *model.Model, chosen Algorithm, start time.Time) *Result {
	result, err := revised.Solve(ctx, m, nil)
	res := &Result{AlgorithmUsed: chosen, RuntimeMs: elapsedClockMs(start)}
	if err != nil {
		res.OutputText = fmt.Sprintf("RevisedSimplex unavailable: %v", err)
		res.Infeasible = true
		return res
	}
	res.OutputText = strings.Join(result.Log, "\n")
	switch {
	case result.Unbounded:
		res.Unbounded = true
	case result.Infeasible:
		res.Infeasible = true
	case result.Optimal:
		obj := numeric.Round3(result.Objective)
		res.Success = true
		res.Objective = &obj
		res.SolutionSummary = formatSummary(m, result.X)
		res.Model = m
	}
	return res
}

// finish fills in the common success fields once an optimal tableau is in
// hand, keeping cf/tb/m around for follow-up actions.
func finish(res *Result, cf *canon.CanonicalForm, m *model.Model, tb *tableau.Tableau, x []float64, objMaxForm float64) {
	obj := objMaxForm
	if cf.MinFlip {
		obj = -obj
	}
	rounded := numeric.Round3(obj)
	res.Success = true
	res.Objective = &rounded
	res.SolutionSummary = formatSummary(m, x)
	res.Model = m
	res.Form = cf
	res.Tab = tb
}

// extractOriginal reads back the original decision variables' values from
// a solved tableau, recombining "urs" pairs and "-" sign flips.
func extractOriginal(cf *canon.CanonicalForm, tb *tableau.Tableau) []float64 {
	colVals := make([]float64, tb.N)
	for r, j := range tb.BasicIdx {
		if j >= 0 && j < len(colVals) {
			colVals[j] = tb.RHS(r + 1)
		}
	}
	x := make([]float64, len(cf.Names.Vars))
	for i, v := range cf.Names.Vars {
		switch v.Sign {
		case model.Free:
			x[i] = colVals[v.PosCol] - colVals[v.NegCol]
		case model.NonPos:
			x[i] = -colVals[v.PosCol]
		default:
			x[i] = colVals[v.PosCol]
		}
	}
	return x
}

func formatSummary(m *model.Model, x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		name := fmt.Sprintf("x%d", i+1)
		if m != nil && i < len(m.Variables) && m.Variables[i].Name != "" {
			name = m.Variables[i].Name
		}
		parts[i] = fmt.Sprintf("%s=%s", name, numeric.FormatNumber(numeric.Round3(v)))
	}
	return strings.Join(parts, ", ")
}

// Sensitivity derives the sensitivity payload for a successful result,
// returning an error if the underlying solve did not produce a tableau
// (e.g. Knapsack01, or an infeasible/unbounded/cancelled outcome).
func Sensitivity(res *Result) (*sensitivity.Payload, error) {
	if res == nil || res.Form == nil || res.Tab == nil {
		return nil, fmt.Errorf("solve: no optimal tableau available for sensitivity analysis")
	}
	return sensitivity.Analyze(res.Form, res.Tab), nil
}

// ApplyDuality constructs and solves the dual model of res's original
// model. The constructed dual is always solved with the standard engine
// dispatch (primal simplex in the common case), never with a
// hard-coded "always dual simplex" rule.
func ApplyDuality(ctx context.Context, res *Result, settings Settings) (*model.Model, *Result, error) {
	if res == nil || res.Form == nil || res.Model == nil {
		return nil, nil, fmt.Errorf("solve: no canonical form available to construct a dual from")
	}
	dualModel, err := sensitivity.DualModel(res.Model, res.Form)
	if err != nil {
		return nil, nil, err
	}
	dualResult := SolveModel(ctx, dualModel, AlgorithmAuto, settings, elapsedClockStart())
	return dualModel, dualResult, nil
}

func elapsedClockStart() time.Time {
	return time.Now()
}

func elapsedClockMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
