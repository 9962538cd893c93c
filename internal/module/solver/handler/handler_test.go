package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lpdss/internal/module/solver/dto"
)

// mockService is a mock implementation of service.Service.
type mockService struct {
	mock.Mock
}

func (m *mockService) Solve(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*dto.SolveResponse), args.String(1), args.Error(2)
}

func (m *mockService) ChangeRHS(ctx context.Context, id uuid.UUID, req dto.ChangeRHSRequest) (*dto.SolveResponse, string, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*dto.SolveResponse), args.String(1), args.Error(2)
}

func (m *mockService) AddConstraint(ctx context.Context, id uuid.UUID, req dto.AddConstraintRequest) (*dto.SolveResponse, string, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*dto.SolveResponse), args.String(1), args.Error(2)
}

func (m *mockService) ApplyDuality(ctx context.Context, id uuid.UUID) (*dto.DualityResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DualityResponse), args.Error(1)
}

func (m *mockService) SensitivityNonBasic(id uuid.UUID) ([]dto.NonBasicEntry, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.NonBasicEntry), args.Error(1)
}

func (m *mockService) SensitivityRange(id uuid.UUID, column int) (*dto.RangeResponse, error) {
	args := m.Called(id, column)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RangeResponse), args.Error(1)
}

func (m *mockService) ShadowPrices(id uuid.UUID) ([]dto.ShadowPriceEntry, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ShadowPriceEntry), args.Error(1)
}

func setupTestRouter() (*gin.Engine, *mockService) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := new(mockService)
	h := NewHandler(svc, zap.NewNop())
	h.RegisterRoutes(router)
	return router, svc
}

func TestHandler_Solve_Success(t *testing.T) {
	router, svc := setupTestRouter()
	obj := 36.0
	resp := &dto.SolveResponse{ID: "abc", Success: true, Objective: &obj}
	svc.On("Solve", mock.Anything, mock.Anything).Return(resp, "max 3 5", nil)

	body, _ := json.Marshal(dto.SolveRequest{ModelText: "max 3 5\n1 0 <= 4\n+"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solver/solve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Solve_InvalidBody(t *testing.T) {
	router, _ := setupTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solver/solve", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ChangeRHS_InvalidID(t *testing.T) {
	router, _ := setupTestRouter()
	body, _ := json.Marshal(dto.ChangeRHSRequest{ConstraintIndex: 0, NewRHS: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solver/solve/not-a-uuid/rhs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ApplyDuality_Success(t *testing.T) {
	router, svc := setupTestRouter()
	id := uuid.New()
	resp := &dto.DualityResponse{DualModelText: "min 4 12 18", StrongDuality: true}
	svc.On("ApplyDuality", mock.Anything, id).Return(resp, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solver/solve/"+id.String()+"/duality", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_SensitivityRange_InvalidColumn(t *testing.T) {
	router, _ := setupTestRouter()
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/solver/solve/"+id.String()+"/sensitivity/range/not-a-number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ShadowPrices_Success(t *testing.T) {
	router, svc := setupTestRouter()
	id := uuid.New()
	rows := []dto.ShadowPriceEntry{{Name: "c1", RHS: 4, ShadowPrice: 0}}
	svc.On("ShadowPrices", id).Return(rows, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/solver/solve/"+id.String()+"/sensitivity/shadow-prices", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
