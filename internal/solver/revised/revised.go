// Package revised provides an optional RevisedSimplex backend behind a
// build tag: a real lp_solve-backed implementation when built with
// `-tags golp` (and CGO enabled), a stub returning ErrUnavailable
// otherwise. RevisedSimplex is deliberately not a fully independent
// algorithm implementation — this package satisfies the same solve
// contract as the primal simplex so callers can treat it
// interchangeably.
package revised

import (
	"context"
	"errors"

	"lpdss/internal/solver/canon"
	"lpdss/internal/solver/model"
)

// ErrUnavailable is returned by Solve when the binary was not built with
// CGO and the golp tag.
var ErrUnavailable = errors.New("revised: RevisedSimplex requires CGO and the golp build tag (-tags golp), with lp_solve installed")

// Result mirrors the fields of primal.Outcome that a caller needs, kept
// independent of the tableau package since a revised-simplex backend never
// exposes a tableau.
type Result struct {
	Optimal    bool
	Unbounded  bool
	Infeasible bool
	Objective  float64
	X          []float64 // aligned with the original model's variable order
	Log        []string
}

// Solve runs the revised simplex (via lp_solve, when available) directly
// on the original model, bypassing canonicalization — lp_solve performs
// its own standard-form conversion internally. cf is accepted for parity
// with the other engines' signatures but is unused by this backend.
func Solve(ctx context.Context, m *model.Model, cf *canon.CanonicalForm) (*Result, error) {
	return solveImpl(ctx, m)
}
