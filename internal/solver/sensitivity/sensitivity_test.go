package sensitivity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpdss/internal/solver/canon"
	"lpdss/internal/solver/model"
	"lpdss/internal/solver/primal"
)

func classicModel() *model.Model {
	return &model.Model{
		Direction: model.Max,
		Variables: []model.Variable{
			{Name: "x1", Coeff: 3, Sign: model.NonNeg},
			{Name: "x2", Coeff: 5, Sign: model.NonNeg},
		},
		Constraints: []model.Constraint{
			{Coeffs: []float64{1, 0}, Rel: model.LE, RHS: 4},
			{Coeffs: []float64{0, 2}, Rel: model.LE, RHS: 12},
			{Coeffs: []float64{3, 2}, Rel: model.LE, RHS: 18},
		},
	}
}

func solvedTableau(t *testing.T, m *model.Model) (*canon.CanonicalForm, *primal.Outcome) {
	t.Helper()
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)
	out := primal.Solve(context.Background(), cf, primal.DefaultOptions())
	require.True(t, out.Optimal)
	return cf, out
}

func TestAnalyze_ShadowPrices(t *testing.T) {
	cf, out := solvedTableau(t, classicModel())
	payload := Analyze(cf, out.Tableau)
	require.False(t, payload.BestEffort)
	require.Len(t, payload.ShadowPrices, 3)
	assert.InDelta(t, 0.0, payload.ShadowPrices[0], 1e-6)
	assert.InDelta(t, 1.5, payload.ShadowPrices[1], 1e-6)
	assert.InDelta(t, 1.0, payload.ShadowPrices[2], 1e-6)
}

func TestShadowPriceTable(t *testing.T) {
	cf, out := solvedTableau(t, classicModel())
	payload := Analyze(cf, out.Tableau)
	table := ShadowPriceTable(cf, payload)
	require.Len(t, table, 3)
	assert.Equal(t, "c1", table[0].Name)
	assert.Equal(t, 4.0, table[0].RHS)
	assert.InDelta(t, 1.5, table[1].ShadowPrice, 1e-6)
}

func TestDualModel_MaxLE(t *testing.T) {
	m := classicModel()
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)
	dm, err := DualModel(m, cf)
	require.NoError(t, err)
	assert.Equal(t, model.Min, dm.Direction)
	require.Len(t, dm.Variables, 3)
	assert.Equal(t, 4.0, dm.Variables[0].Coeff)
	require.Len(t, dm.Constraints, 2)
	assert.Equal(t, model.GE, dm.Constraints[0].Rel)
}

func TestDualModel_RejectsNonCanonicalShape(t *testing.T) {
	m := classicModel()
	m.Constraints[0].Rel = model.GE
	cf, err := canon.Canonicalize(m)
	require.NoError(t, err)
	_, err = DualModel(m, cf)
	assert.Error(t, err)
}

func TestRangeFor_NonBasicColumn(t *testing.T) {
	cf, out := solvedTableau(t, classicModel())
	payload := Analyze(cf, out.Tableau)
	require.NotEmpty(t, payload.NonBasicIdx)
	j := payload.NonBasicIdx[0]
	r := RangeFor(cf, payload, j)
	assert.Equal(t, j, r.Column)
	assert.True(t, r.UnboundedOther)
	assert.Empty(t, r.Note)
}

func TestRangeFor_BasicColumnReportsNote(t *testing.T) {
	cf, out := solvedTableau(t, classicModel())
	payload := Analyze(cf, out.Tableau)
	j := out.Tableau.BasicIdx[0]
	r := RangeFor(cf, payload, j)
	assert.NotEmpty(t, r.Note)
}
