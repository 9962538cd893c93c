// Package handler exposes the solver's HTTP surface.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lpdss/internal/module/solver/dto"
	"lpdss/internal/module/solver/service"
	"lpdss/internal/shared"
)

// Handler handles solver HTTP requests.
type Handler struct {
	service service.Service
	logger  *zap.Logger
}

// NewHandler creates a new solver handler.
func NewHandler(service service.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the solver routes.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	solver := router.Group("/api/v1/solver")
	{
		solver.POST("/solve", h.Solve)
		solver.POST("/solve/:id/rhs", h.ChangeRHS)
		solver.POST("/solve/:id/constraint", h.AddConstraint)
		solver.POST("/solve/:id/duality", h.ApplyDuality)
		solver.GET("/solve/:id/sensitivity/nonbasic", h.SensitivityNonBasic)
		solver.GET("/solve/:id/sensitivity/range/:j", h.SensitivityRange)
		solver.GET("/solve/:id/sensitivity/shadow-prices", h.ShadowPrices)
	}
}

// Solve godoc
// @Summary Solve a linear or mixed-integer program
// @Description Parse model text, canonicalize it, and solve it with the requested (or auto-selected) algorithm
// @Tags solver
// @Accept json
// @Produce json
// @Param input body dto.SolveRequest true "Solve Request"
// @Success 200 {object} dto.SolveResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/solver/solve [post]
func (h *Handler) Solve(c *gin.Context) {
	var req dto.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("failed to bind solve request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, _, err := h.service.Solve(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to solve model", zap.Error(err))
		shared.HandleError(c, err)
		return
	}

	shared.RespondWithSuccess(c, http.StatusOK, "solve completed", resp)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		shared.RespondWithError(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// ChangeRHS godoc
// @Summary Change a constraint's right-hand side and re-solve
// @Tags solver
// @Accept json
// @Produce json
// @Param id path string true "Cached solve ID"
// @Param input body dto.ChangeRHSRequest true "Change RHS Request"
// @Success 200 {object} dto.SolveResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/solver/solve/{id}/rhs [post]
func (h *Handler) ChangeRHS(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ChangeRHSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, _, err := h.service.ChangeRHS(c.Request.Context(), id, req)
	if err != nil {
		shared.HandleError(c, err)
		return
	}
	shared.RespondWithSuccess(c, http.StatusOK, "rhs updated and re-solved", resp)
}

// AddConstraint godoc
// @Summary Append a constraint to a cached model and re-solve
// @Tags solver
// @Accept json
// @Produce json
// @Param id path string true "Cached solve ID"
// @Param input body dto.AddConstraintRequest true "Add Constraint Request"
// @Success 200 {object} dto.SolveResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/solver/solve/{id}/constraint [post]
func (h *Handler) AddConstraint(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AddConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, _, err := h.service.AddConstraint(c.Request.Context(), id, req)
	if err != nil {
		shared.HandleError(c, err)
		return
	}
	shared.RespondWithSuccess(c, http.StatusOK, "constraint added and re-solved", resp)
}

// ApplyDuality godoc
// @Summary Construct and solve the dual of a cached solve
// @Tags solver
// @Produce json
// @Param id path string true "Cached solve ID"
// @Success 200 {object} dto.DualityResponse
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/v1/solver/solve/{id}/duality [post]
func (h *Handler) ApplyDuality(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.service.ApplyDuality(c.Request.Context(), id)
	if err != nil {
		shared.HandleError(c, err)
		return
	}
	shared.RespondWithSuccess(c, http.StatusOK, "dual solved", resp)
}

// SensitivityNonBasic godoc
// @Summary List non-basic variables and their reduced costs
// @Tags solver
// @Produce json
// @Param id path string true "Cached solve ID"
// @Success 200 {object} []dto.NonBasicEntry
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/solver/solve/{id}/sensitivity/nonbasic [get]
func (h *Handler) SensitivityNonBasic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.service.SensitivityNonBasic(id)
	if err != nil {
		shared.HandleError(c, err)
		return
	}
	shared.RespondWithSuccess(c, http.StatusOK, "", out)
}

// SensitivityRange godoc
// @Summary Allowable-change range for one non-basic column
// @Tags solver
// @Produce json
// @Param id path string true "Cached solve ID"
// @Param j path int true "Canonical column index"
// @Success 200 {object} dto.RangeResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/solver/solve/{id}/sensitivity/range/{j} [get]
func (h *Handler) SensitivityRange(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	j, err := strconv.Atoi(c.Param("j"))
	if err != nil {
		shared.RespondWithError(c, http.StatusBadRequest, "invalid column index")
		return
	}

	resp, serr := h.service.SensitivityRange(id, j)
	if serr != nil {
		shared.HandleError(c, serr)
		return
	}
	shared.RespondWithSuccess(c, http.StatusOK, "", resp)
}

// ShadowPrices godoc
// @Summary Shadow price per constraint row
// @Tags solver
// @Produce json
// @Param id path string true "Cached solve ID"
// @Success 200 {object} []dto.ShadowPriceEntry
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/solver/solve/{id}/sensitivity/shadow-prices [get]
func (h *Handler) ShadowPrices(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.service.ShadowPrices(id)
	if err != nil {
		shared.HandleError(c, err)
		return
	}
	shared.RespondWithSuccess(c, http.StatusOK, "", out)
}
