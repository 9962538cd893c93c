// Package canon transforms a model.Model into a tableau-ready CanonicalForm:
// non-negative columns only, slack/surplus/artificial variables added per
// row, and a starting identity basis.
package canon

import (
	"fmt"

	"lpdss/internal/solver/model"
)

// ColumnKind tags what a canonical column represents, for NameMap and for
// the solver stages that need to distinguish decision columns from added
// ones (B&B's bin-variable upper bound, sensitivity's basic/non-basic
// split).
type ColumnKind int

const (
	ColDecision ColumnKind = iota
	ColSlack
	ColSurplus
	ColArtificial
)

// VarMapping records how one original variable expanded into canonical
// columns: a single column for "+"/"-"/"int"/"bin", two columns (positive
// and negative part) for "urs".
type VarMapping struct {
	Name        string
	Sign        model.SignRestriction
	PosCol      int
	NegCol      int // -1 unless Sign == Free
	IsBinary    bool
	IsInteger   bool
}

// NameMap records the column and row naming plus the mapping from original
// variables to canonical columns, as spec'd in §3.
type NameMap struct {
	ColumnNames []string
	RowNames    []string
	Vars        []VarMapping
	// RowAddedCols maps each row index to the column(s) added on that row
	// (slack, surplus, and/or artificial), for re-display and for B&B's
	// row-injection bookkeeping.
	RowAddedCols map[int][]int
}

// CanonicalForm is a standard-form LP ready for a max-form tableau
// simplex.
type CanonicalForm struct {
	A  [][]float64
	B  []float64
	C  []float64 // Phase II objective (max-form)
	Z0 float64

	BasicIdx    []int
	NonBasicIdx []int

	PhaseIRequired bool
	CPhaseI        []float64

	SlackCols      []int
	SurplusCols    []int
	ArtificialCols []int

	ColumnKinds []ColumnKind

	Names *NameMap

	// OriginalDirection and MinFlip record whether the caller's model was
	// MIN (in which case the engine solved MAX(-c) and the final objective
	// must be negated back).
	OriginalDirection model.Direction
	MinFlip           bool
}

// NumRows returns m, the number of canonical constraint rows.
func (cf *CanonicalForm) NumRows() int { return len(cf.A) }

// NumCols returns n, the number of canonical columns.
func (cf *CanonicalForm) NumCols() int {
	if len(cf.A) == 0 {
		return len(cf.C)
	}
	return len(cf.A[0])
}

// Clone returns a deep copy, used by B&B to give each search node its own
// canonical form to mutate via row injection.
func (cf *CanonicalForm) Clone() *CanonicalForm {
	out := &CanonicalForm{
		Z0:                cf.Z0,
		PhaseIRequired:    cf.PhaseIRequired,
		OriginalDirection: cf.OriginalDirection,
		MinFlip:           cf.MinFlip,
		Names:             cf.Names,
	}
	out.A = make([][]float64, len(cf.A))
	for i, row := range cf.A {
		out.A[i] = append([]float64(nil), row...)
	}
	out.B = append([]float64(nil), cf.B...)
	out.C = append([]float64(nil), cf.C...)
	out.CPhaseI = append([]float64(nil), cf.CPhaseI...)
	out.BasicIdx = append([]int(nil), cf.BasicIdx...)
	out.NonBasicIdx = append([]int(nil), cf.NonBasicIdx...)
	out.SlackCols = append([]int(nil), cf.SlackCols...)
	out.SurplusCols = append([]int(nil), cf.SurplusCols...)
	out.ArtificialCols = append([]int(nil), cf.ArtificialCols...)
	out.ColumnKinds = append([]ColumnKind(nil), cf.ColumnKinds...)
	return out
}

// expandedColumn tracks, per original variable, the canonical column
// producing its coefficient (and a sign flip for "-" variables).
type expandedColumn struct {
	col  int
	sign float64 // multiply the raw coefficient by this before writing
}

// Canonicalize performs sign-restriction expansion, RHS normalization,
// and slack/surplus/artificial injection.
func Canonicalize(m *model.Model) (*CanonicalForm, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	minFlip := m.Direction == model.Min
	objSign := 1.0
	if minFlip {
		objSign = -1.0
	}

	// Step 2: expand variables into canonical (non-negative) columns.
	varMaps := make([]VarMapping, len(m.Variables))
	var expanded []expandedColumn // one or two entries per original variable, parallel across rows
	colNames := []string{}
	col := 0
	objCoeffs := []float64{}

	for i, v := range m.Variables {
		switch v.Sign {
		case model.NonNeg, model.Integer, model.Binary:
			varMaps[i] = VarMapping{Name: v.Name, Sign: v.Sign, PosCol: col, NegCol: -1,
				IsBinary: v.Sign == model.Binary, IsInteger: v.Sign.IsIntegerTyped()}
			expanded = append(expanded, expandedColumn{col: col, sign: 1})
			objCoeffs = append(objCoeffs, objSign*v.Coeff)
			colNames = append(colNames, v.Name)
			col++
		case model.NonPos:
			// x = -y, y >= 0; coefficient flips sign everywhere it appears.
			varMaps[i] = VarMapping{Name: v.Name, Sign: v.Sign, PosCol: col, NegCol: -1}
			expanded = append(expanded, expandedColumn{col: col, sign: -1})
			objCoeffs = append(objCoeffs, objSign*(-v.Coeff))
			colNames = append(colNames, v.Name+"'")
			col++
		case model.Free:
			varMaps[i] = VarMapping{Name: v.Name, Sign: v.Sign, PosCol: col, NegCol: col + 1}
			expanded = append(expanded, expandedColumn{col: col, sign: 1})
			objCoeffs = append(objCoeffs, objSign*v.Coeff)
			colNames = append(colNames, v.Name+"+")
			col++
			objCoeffs = append(objCoeffs, objSign*(-v.Coeff))
			colNames = append(colNames, v.Name+"-")
			col++
		default:
			return nil, fmt.Errorf("canon: unhandled sign restriction %v for %s", v.Sign, v.Name)
		}
	}
	nDecision := col

	// Step 3/4: remap constraint coefficients and normalize b >= 0.
	type builtRow struct {
		coeffs []float64
		rel    model.Relation
		rhs    float64
	}
	rows := make([]builtRow, len(m.Constraints))
	for ri, c := range m.Constraints {
		row := make([]float64, nDecision)
		for vi, v := range m.Variables {
			a := c.Coeffs[vi]
			switch v.Sign {
			case model.Free:
				row[varMaps[vi].PosCol] = a
				row[varMaps[vi].NegCol] = -a
			case model.NonPos:
				row[varMaps[vi].PosCol] = -a
			default:
				row[varMaps[vi].PosCol] = a
			}
		}
		rel := c.Rel
		rhs := c.RHS
		if rhs < 0 {
			for j := range row {
				row[j] = -row[j]
			}
			rhs = -rhs
			switch rel {
			case model.LE:
				rel = model.GE
			case model.GE:
				rel = model.LE
			}
		}
		rows[ri] = builtRow{coeffs: row, rel: rel, rhs: rhs}
	}

	// Step 5: add slack/surplus/artificial columns.
	m_ := len(rows)
	totalCols := nDecision
	for _, r := range rows {
		switch r.rel {
		case model.LE:
			totalCols++
		case model.GE:
			totalCols += 2
		case model.EQ:
			totalCols++
		}
	}

	A := make([][]float64, m_)
	for i := range A {
		A[i] = make([]float64, totalCols)
		copy(A[i], rows[i].coeffs)
	}
	B := make([]float64, m_)
	basicIdx := make([]int, m_)
	kinds := make([]ColumnKind, totalCols)
	for j := 0; j < nDecision; j++ {
		kinds[j] = ColDecision
	}

	var slackCols, surplusCols, artificialCols []int
	rowAdded := make(map[int][]int)
	phaseIRequired := false
	next := nDecision
	for i, r := range rows {
		B[i] = r.rhs
		switch r.rel {
		case model.LE:
			A[i][next] = 1
			kinds[next] = ColSlack
			slackCols = append(slackCols, next)
			basicIdx[i] = next
			colNames = append(colNames, fmt.Sprintf("s%d", len(slackCols)))
			rowAdded[i] = append(rowAdded[i], next)
			next++
		case model.GE:
			A[i][next] = -1
			kinds[next] = ColSurplus
			surplusCols = append(surplusCols, next)
			colNames = append(colNames, fmt.Sprintf("e%d", len(surplusCols)))
			rowAdded[i] = append(rowAdded[i], next)
			next++

			A[i][next] = 1
			kinds[next] = ColArtificial
			artificialCols = append(artificialCols, next)
			basicIdx[i] = next
			colNames = append(colNames, fmt.Sprintf("a%d", len(artificialCols)))
			rowAdded[i] = append(rowAdded[i], next)
			next++
			phaseIRequired = true
		case model.EQ:
			A[i][next] = 1
			kinds[next] = ColArtificial
			artificialCols = append(artificialCols, next)
			basicIdx[i] = next
			colNames = append(colNames, fmt.Sprintf("a%d", len(artificialCols)))
			rowAdded[i] = append(rowAdded[i], next)
			next++
			phaseIRequired = true
		}
	}

	// Step 6: Phase II objective c, Phase I objective cPhaseI.
	c := make([]float64, totalCols)
	copy(c, objCoeffs)
	cPhaseI := make([]float64, totalCols)
	for _, a := range artificialCols {
		cPhaseI[a] = -1
	}

	nonBasic := make([]int, 0, totalCols-m_)
	isBasic := make(map[int]bool, m_)
	for _, b := range basicIdx {
		isBasic[b] = true
	}
	for j := 0; j < totalCols; j++ {
		if !isBasic[j] {
			nonBasic = append(nonBasic, j)
		}
	}

	rowNames := make([]string, m_)
	for i := range rowNames {
		rowNames[i] = fmt.Sprintf("c%d", i+1)
	}

	cf := &CanonicalForm{
		A: A, B: B, C: c, Z0: 0,
		BasicIdx: basicIdx, NonBasicIdx: nonBasic,
		PhaseIRequired: phaseIRequired, CPhaseI: cPhaseI,
		SlackCols: slackCols, SurplusCols: surplusCols, ArtificialCols: artificialCols,
		ColumnKinds: kinds,
		Names: &NameMap{
			ColumnNames: colNames, RowNames: rowNames, Vars: varMaps, RowAddedCols: rowAdded,
		},
		OriginalDirection: m.Direction,
		MinFlip:           minFlip,
	}
	return cf, nil
}
