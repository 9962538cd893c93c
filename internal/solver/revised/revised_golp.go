//go:build cgo && golp

package revised

/*
#cgo CFLAGS: -I/opt/homebrew/include
#cgo LDFLAGS: -L/opt/homebrew/lib -llpsolve55
*/
import "C"

import (
	"context"
	"fmt"

	"github.com/draffensperger/golp"

	"lpdss/internal/solver/model"
)

func solveImpl(ctx context.Context, m *model.Model) (*Result, error) {
	n := m.NumVars()
	lp := golp.NewLP(0, n)
	if lp == nil {
		return nil, fmt.Errorf("revised: failed to create lp_solve model")
	}

	obj := make([]float64, n)
	for i, v := range m.Variables {
		obj[i] = v.Coeff
	}
	lp.SetObjFn(obj)
	if m.Direction == model.Max {
		lp.SetMaximize()
	}

	for _, c := range m.Constraints {
		var ct golp.ConstraintType
		switch c.Rel {
		case model.LE:
			ct = golp.LE
		case model.GE:
			ct = golp.GE
		default:
			ct = golp.EQ
		}
		if err := lp.AddConstraint(c.Coeffs, ct, c.RHS); err != nil {
			return nil, fmt.Errorf("revised: %w", err)
		}
	}

	for i, v := range m.Variables {
		lower, upper := 0.0, 1e30
		switch v.Sign {
		case model.NonPos:
			lower, upper = -1e30, 0
		case model.Free:
			lower, upper = -1e30, 1e30
		case model.Binary:
			lower, upper = 0, 1
		}
		lp.SetBounds(i, lower, upper)
		if v.Sign == model.Binary {
			lp.SetBinary(i, true)
		}
	}
	lp.SetVerboseLevel(golp.NEUTRAL)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	status := lp.Solve()
	res := &Result{X: make([]float64, n)}
	switch status {
	case golp.OPTIMAL:
		res.Optimal = true
	case golp.INFEASIBLE:
		res.Infeasible = true
		return res, nil
	case golp.UNBOUNDED:
		res.Unbounded = true
		return res, nil
	default:
		return nil, fmt.Errorf("revised: lp_solve returned status %v", status)
	}

	res.Objective = lp.Objective()
	vars := lp.Variables()
	for i := 0; i < n && i < len(vars); i++ {
		res.X[i] = vars[i]
	}
	res.Log = []string{fmt.Sprintf("solved via lp_solve (golp): %d variables, objective=%.6f", n, res.Objective)}
	return res, nil
}
