// Package tableau implements the mutable simplex tableau shared by the
// primal simplex, dual simplex, branch-and-bound, and Gomory cut stages: a
// contiguous dense buffer with row operations, pivoting, and basis
// bookkeeping. Deliberately avoids pointer graphs — each B&B node owns
// its own tableau clone.
package tableau

import (
	"fmt"

	"lpdss/internal/solver/numeric"
)

// Tableau is an (m+1) x (n+1) dense buffer. Row 0 is the objective row;
// column n is the RHS. T[r+1] is constraint row r (0-based).
type Tableau struct {
	T        [][]float64
	M        int // number of constraint rows
	N        int // number of columns (excluding RHS)
	BasicIdx []int
}

// New builds a tableau of shape (m+1) x (n+1), placing A and b starting at
// row 1, and objRow (either -c or -cPhaseI) at row 0. basicIdx is copied so
// the caller's slice is never aliased.
func New(a [][]float64, b []float64, objRow []float64, basicIdx []int) *Tableau {
	m := len(a)
	n := len(objRow)
	t := make([][]float64, m+1)
	t[0] = make([]float64, n+1)
	copy(t[0], objRow)
	for i := 0; i < m; i++ {
		t[i+1] = make([]float64, n+1)
		copy(t[i+1], a[i])
		t[i+1][n] = b[i]
	}
	return &Tableau{T: t, M: m, N: n, BasicIdx: append([]int(nil), basicIdx...)}
}

// Clone returns a deep copy, so B&B and Gomory nodes never alias a parent's
// buffer.
func (tb *Tableau) Clone() *Tableau {
	out := &Tableau{M: tb.M, N: tb.N, BasicIdx: append([]int(nil), tb.BasicIdx...)}
	out.T = make([][]float64, len(tb.T))
	for i, row := range tb.T {
		out.T[i] = append([]float64(nil), row...)
	}
	return out
}

// RHS returns column N of row r (0 is the objective row, 1..M are constraint
// rows).
func (tb *Tableau) RHS(r int) float64 {
	return tb.T[r][tb.N]
}

// Pivot performs the elementary row operations that make T[row][col] 1 and
// zero elsewhere in column col, across every row including the objective
// row.
func (tb *Tableau) Pivot(row, col int) error {
	pivot := tb.T[row][col]
	if numeric.IsZero(pivot) {
		return fmt.Errorf("tableau: pivot element at (%d,%d) is zero", row, col)
	}
	width := tb.N + 1
	pr := tb.T[row]
	for j := 0; j < width; j++ {
		pr[j] /= pivot
	}
	for i := range tb.T {
		if i == row {
			continue
		}
		factor := tb.T[i][col]
		if factor == 0 {
			continue
		}
		ri := tb.T[i]
		for j := 0; j < width; j++ {
			ri[j] -= factor * pr[j]
		}
	}
	if row > 0 {
		tb.BasicIdx[row-1] = col
	}
	return nil
}

// CanonicalizeObjectiveRow zeroes out row 0's entries at the current basic
// columns by adding c_b[row] * (that row) for each basic row, the way a
// fresh objective row is brought into reduced-cost form after a Phase
// transition or after detecting a non-identity starting basis.
func (tb *Tableau) CanonicalizeObjectiveRow() {
	for r := 0; r < tb.M; r++ {
		j := tb.BasicIdx[r]
		coef := tb.T[0][j]
		if coef == 0 {
			continue
		}
		row := tb.T[r+1]
		obj := tb.T[0]
		for k := 0; k <= tb.N; k++ {
			obj[k] -= coef * row[k]
		}
	}
}

// IsIdentityBasis reports whether BasicIdx currently forms an identity
// submatrix: for each basic column j at row r, T[r+1][j] == 1 and
// T[r'+1][j] == 0 for every other row r'.
func (tb *Tableau) IsIdentityBasis() bool {
	for r, j := range tb.BasicIdx {
		for rr := 0; rr < tb.M; rr++ {
			want := 0.0
			if rr == r {
				want = 1.0
			}
			if !numeric.IsZeroTol(tb.T[rr+1][j]-want, 1e-6) {
				return false
			}
		}
	}
	return true
}

// ColumnOf returns column j as a length-(m+1) slice (including the objective
// row entry).
func (tb *Tableau) ColumnOf(j int) []float64 {
	out := make([]float64, tb.M+1)
	for i := 0; i <= tb.M; i++ {
		out[i] = tb.T[i][j]
	}
	return out
}

// NonBasicColumns returns the columns of [0, N) not currently in BasicIdx.
func (tb *Tableau) NonBasicColumns() []int {
	basic := make(map[int]bool, len(tb.BasicIdx))
	for _, j := range tb.BasicIdx {
		basic[j] = true
	}
	var out []int
	for j := 0; j < tb.N; j++ {
		if !basic[j] {
			out = append(out, j)
		}
	}
	return out
}

// AppendRowColumn grows the tableau by one row and one column, used by B&B
// branch-row injection and Gomory cut addition: an in-place reallocation
// of A by one row and one column, copying the old content over.
// The new row's values and the new column's objective-row entry are set by
// the caller after this call returns; AppendRowColumn only resizes and
// zero-fills.
func (tb *Tableau) AppendRowColumn() {
	newN := tb.N + 1
	for i := range tb.T {
		old := tb.T[i]
		row := make([]float64, newN+1)
		copy(row, old[:tb.N])
		copy(row[tb.N+1:], old[tb.N:])
		tb.T[i] = row
	}
	newRow := make([]float64, newN+1)
	tb.T = append(tb.T, newRow)
	tb.M++
	tb.N = newN
	tb.BasicIdx = append(tb.BasicIdx, -1) // caller fills in the basic column for the new row
}
