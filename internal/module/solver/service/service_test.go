package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lpdss/internal/cache"
	"lpdss/internal/module/solver/dto"
)

func newTestService() Service {
	return NewService(cache.NewHandle(), cache.NewRedisMirror(nil, zap.NewNop()), zap.NewNop())
}

const classicText = "max 3 5\n1 0 <= 4\n0 2 <= 12\n3 2 <= 18\n+ +"

func TestService_Solve_Success(t *testing.T) {
	s := newTestService()
	resp, normalized, err := s.Solve(context.Background(), dto.SolveRequest{ModelText: classicText})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Objective)
	assert.InDelta(t, 36.0, *resp.Objective, 1e-6)
	assert.Equal(t, classicText, normalized)
}

func TestService_Solve_ParseErrorHasNoID(t *testing.T) {
	s := newTestService()
	resp, _, err := s.Solve(context.Background(), dto.SolveRequest{ModelText: "garbage"})
	require.NoError(t, err)
	assert.Empty(t, resp.ID)
	assert.NotEmpty(t, resp.ParseError)
}

func TestService_Solve_UnknownAlgorithmIsValidationError(t *testing.T) {
	s := newTestService()
	_, _, err := s.Solve(context.Background(), dto.SolveRequest{ModelText: classicText, Algorithm: "NotARealAlgorithm"})
	assert.Error(t, err)
}

func TestService_ChangeRHS(t *testing.T) {
	s := newTestService()
	first, _, err := s.Solve(context.Background(), dto.SolveRequest{ModelText: classicText})
	require.NoError(t, err)
	require.True(t, first.Success)

	id := uuid.MustParse(first.ID)
	resp, _, err := s.ChangeRHS(context.Background(), id, dto.ChangeRHSRequest{ConstraintIndex: 2, NewRHS: 30})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Objective)
	assert.Greater(t, *resp.Objective, 36.0)
}

func TestService_ChangeRHS_UnknownIDIsNotFound(t *testing.T) {
	s := newTestService()
	_, _, err := s.ChangeRHS(context.Background(), uuid.New(), dto.ChangeRHSRequest{ConstraintIndex: 0, NewRHS: 1})
	assert.Error(t, err)
}

func TestService_AddConstraint(t *testing.T) {
	s := newTestService()
	first, _, err := s.Solve(context.Background(), dto.SolveRequest{ModelText: classicText})
	require.NoError(t, err)
	require.True(t, first.Success)

	id := uuid.MustParse(first.ID)
	resp, _, err := s.AddConstraint(context.Background(), id, dto.AddConstraintRequest{ConstraintLine: "1 1 <= 5"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Objective)
	assert.LessOrEqual(t, *resp.Objective, 36.0+1e-6)
}

func TestService_ApplyDuality_StrongDuality(t *testing.T) {
	s := newTestService()
	first, _, err := s.Solve(context.Background(), dto.SolveRequest{ModelText: classicText})
	require.NoError(t, err)
	require.True(t, first.Success)

	id := uuid.MustParse(first.ID)
	dual, err := s.ApplyDuality(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, dual.DualResult.Objective)
	assert.True(t, dual.StrongDuality)
	assert.Contains(t, dual.DualModelText, "min")
}

func TestService_ShadowPrices(t *testing.T) {
	s := newTestService()
	first, _, err := s.Solve(context.Background(), dto.SolveRequest{ModelText: classicText})
	require.NoError(t, err)
	require.True(t, first.Success)

	id := uuid.MustParse(first.ID)
	rows, err := s.ShadowPrices(id)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.InDelta(t, 1.5, rows[1].ShadowPrice, 1e-6)
}

func TestService_SensitivityNonBasic(t *testing.T) {
	s := newTestService()
	first, _, err := s.Solve(context.Background(), dto.SolveRequest{ModelText: classicText})
	require.NoError(t, err)
	require.True(t, first.Success)

	id := uuid.MustParse(first.ID)
	entries, err := s.SensitivityNonBasic(id)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestService_SensitivityRange(t *testing.T) {
	s := newTestService()
	first, _, err := s.Solve(context.Background(), dto.SolveRequest{ModelText: classicText})
	require.NoError(t, err)
	require.True(t, first.Success)

	id := uuid.MustParse(first.ID)
	entries, err := s.SensitivityNonBasic(id)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	r, err := s.SensitivityRange(id, entries[0].Column)
	require.NoError(t, err)
	assert.Equal(t, entries[0].Column, r.Column)
}
