// Package sensitivity derives shadow prices, reduced-cost ranges, and the
// dual model from an optimal Phase II tableau.
package sensitivity

import (
	"fmt"

	"lpdss/internal/solver/canon"
	"lpdss/internal/solver/model"
	"lpdss/internal/solver/numeric"
	"lpdss/internal/solver/tableau"
)

// Payload is the sensitivity report captured at an optimal Phase II
// tableau.
type Payload struct {
	BInverse  [][]float64
	ShadowPrices []float64 // y, one per constraint row
	BasicIdx     []int
	NonBasicIdx  []int

	ReducedCosts map[int]float64 // by canonical column, non-basic only

	BestEffort bool
	Note       string
}

// NonBasicRange is the allowable-change report for one non-basic decision
// column: how far its objective coefficient can move before it enters
// the basis.
type NonBasicRange struct {
	Column          int
	ReducedCost     float64
	AllowableDelta  float64 // increase for MAX, decrease for MIN (the bounded direction)
	UnboundedOther  bool    // the other direction is unbounded
	Note            string
}

// ShadowPriceEntry is one row of the "shadow prices" follow-up response.
type ShadowPriceEntry struct {
	Name        string
	RHS         float64
	ShadowPrice float64
}

// Analyze computes shadow prices and reduced costs from the final tableau.
// Singular basis matrices never panic: Analyze downgrades to a
// BestEffort payload with a Note instead.
func Analyze(cf *canon.CanonicalForm, tb *tableau.Tableau) *Payload {
	m := cf.NumRows()
	basisCols := make([][]float64, m)
	for col, j := range tb.BasicIdx {
		basisCols[col] = columnOf(cf.A, j)
	}
	// B is m x m with columns basisCols[0..m-1]; transpose into row-major.
	B := make([][]float64, m)
	for i := 0; i < m; i++ {
		B[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			B[i][j] = basisCols[j][i]
		}
	}

	binv, err := numeric.Invert(B)
	if err != nil {
		return &Payload{BestEffort: true, Note: fmt.Sprintf("basis matrix is singular, shadow prices unavailable: %v", err),
			BasicIdx: append([]int(nil), tb.BasicIdx...), NonBasicIdx: tb.NonBasicColumns()}
	}

	cB := make([]float64, m)
	for i, j := range tb.BasicIdx {
		cB[i] = cf.C[j]
	}
	y := numeric.VecMatTranspose(cB, binv)

	reduced := make(map[int]float64)
	for _, j := range tb.NonBasicColumns() {
		aj := columnOf(cf.A, j)
		reduced[j] = cf.C[j] - numeric.Dot(y, aj)
	}

	return &Payload{
		BInverse:     binv,
		ShadowPrices: y,
		BasicIdx:     append([]int(nil), tb.BasicIdx...),
		NonBasicIdx:  tb.NonBasicColumns(),
		ReducedCosts: reduced,
	}
}

func columnOf(a [][]float64, j int) []float64 {
	out := make([]float64, len(a))
	for i, row := range a {
		out[i] = row[j]
	}
	return out
}

// RangeFor computes the allowable-change report for non-basic column j:
// for MAX with <= rows, r_j <= 0 at optimality; the allowable
// increase is max(0, -r_j) and the decrease is unbounded. For MIN with all
// >= rows (the caller must have solved the MIN model via its max-form
// equivalent and flipped back), the symmetric rule applies. Non-canonical
// shapes return a best-effort note.
func RangeFor(cf *canon.CanonicalForm, payload *Payload, j int) *NonBasicRange {
	if payload.BestEffort {
		return &NonBasicRange{Column: j, Note: "sensitivity unavailable: " + payload.Note}
	}
	rj, ok := payload.ReducedCosts[j]
	if !ok {
		return &NonBasicRange{Column: j, Note: "column is basic; no non-basic range applies"}
	}

	if !isCanonicalMaxLE(cf) {
		return &NonBasicRange{Column: j, ReducedCost: rj, Note: "best-effort: model is not in the canonical MAX-with-<= shape"}
	}

	delta := -rj
	if delta < 0 {
		delta = 0
	}
	return &NonBasicRange{Column: j, ReducedCost: rj, AllowableDelta: delta, UnboundedOther: true}
}

// isCanonicalMaxLE reports the "canonical shape" of the GLOSSARY: MAX with
// all <=-constraints and x >= 0 — i.e. no surplus/artificial columns were
// needed.
func isCanonicalMaxLE(cf *canon.CanonicalForm) bool {
	return !cf.MinFlip && len(cf.ArtificialCols) == 0 && len(cf.SurplusCols) == 0
}

// ShadowPriceTable renders one entry per constraint, per the "shadow
// prices" follow-up action.
func ShadowPriceTable(cf *canon.CanonicalForm, payload *Payload) []ShadowPriceEntry {
	out := make([]ShadowPriceEntry, cf.NumRows())
	for i := range out {
		out[i] = ShadowPriceEntry{
			Name:        cf.Names.RowNames[i],
			RHS:         cf.B[i],
			ShadowPrice: payload.ShadowPrices[i],
		}
	}
	return out
}

// DualModel constructs the dual of cf's originating model: for MAX with
// all <= and x >= 0, the dual is MIN b^T y s.t. A^T y >= c,
// y >= 0; for MIN with all >= and x >= 0, the dual is MAX b^T y s.t.
// A^T y <= c, y >= 0. Returns an error for any other shape — duality is
// only specified for these two canonical shapes.
func DualModel(original *model.Model, cf *canon.CanonicalForm) (*model.Model, error) {
	if !isCanonicalShape(original) {
		return nil, fmt.Errorf("sensitivity: duality is only defined for MAX-with-<= or MIN-with->= canonical shapes")
	}

	m := len(original.Constraints)
	n := original.NumVars()

	dual := &model.Model{}
	if original.Direction == model.Max {
		dual.Direction = model.Min
	} else {
		dual.Direction = model.Max
	}

	dual.Variables = make([]model.Variable, m)
	for i := 0; i < m; i++ {
		dual.Variables[i] = model.Variable{
			Name:  fmt.Sprintf("y%d", i+1),
			Coeff: original.Constraints[i].RHS,
			Sign:  model.NonNeg,
		}
	}

	dual.Constraints = make([]model.Constraint, n)
	rel := model.GE
	if original.Direction == model.Min {
		rel = model.LE
	}
	for j := 0; j < n; j++ {
		coeffs := make([]float64, m)
		for i := 0; i < m; i++ {
			coeffs[i] = original.Constraints[i].Coeffs[j]
		}
		dual.Constraints[j] = model.Constraint{Coeffs: coeffs, Rel: rel, RHS: original.Variables[j].Coeff}
	}
	return dual, nil
}

func isCanonicalShape(m *model.Model) bool {
	for _, v := range m.Variables {
		if v.Sign != model.NonNeg && v.Sign != model.Integer && v.Sign != model.Binary {
			return false
		}
	}
	if m.Direction == model.Max {
		for _, c := range m.Constraints {
			if c.Rel != model.LE {
				return false
			}
		}
		return true
	}
	for _, c := range m.Constraints {
		if c.Rel != model.GE {
			return false
		}
	}
	return true
}
