// Package service implements the solver module's business logic: it
// translates the HTTP DTOs into internal/solver/solve requests, owns the
// process-wide last-solve cache handle, and drives the follow-up
// actions (change RHS, add constraint, duality, sensitivity) against
// whatever is currently cached.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lpdss/internal/cache"
	"lpdss/internal/module/solver/dto"
	"lpdss/internal/shared"
	"lpdss/internal/solver/model"
	"lpdss/internal/solver/parser"
	"lpdss/internal/solver/sensitivity"
	"lpdss/internal/solver/solve"
)

// Service is the solver module's HTTP-facing business logic.
type Service interface {
	Solve(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, string, error)
	ChangeRHS(ctx context.Context, id uuid.UUID, req dto.ChangeRHSRequest) (*dto.SolveResponse, string, error)
	AddConstraint(ctx context.Context, id uuid.UUID, req dto.AddConstraintRequest) (*dto.SolveResponse, string, error)
	ApplyDuality(ctx context.Context, id uuid.UUID) (*dto.DualityResponse, error)
	SensitivityNonBasic(id uuid.UUID) ([]dto.NonBasicEntry, error)
	SensitivityRange(id uuid.UUID, column int) (*dto.RangeResponse, error)
	ShadowPrices(id uuid.UUID) ([]dto.ShadowPriceEntry, error)
}

type service struct {
	cacheHandle *cache.Handle
	redisMirror *cache.RedisMirror
	logger      *zap.Logger
}

// NewService wires the cache handle and optional Redis mirror.
func NewService(cacheHandle *cache.Handle, redisMirror *cache.RedisMirror, logger *zap.Logger) Service {
	return &service{cacheHandle: cacheHandle, redisMirror: redisMirror, logger: logger}
}

var algorithmNames = map[string]solve.Algorithm{
	"":               solve.AlgorithmAuto,
	"primalsimplex":  solve.PrimalSimplex,
	"revisedsimplex": solve.RevisedSimplex,
	"dualsimplex":    solve.DualSimplex,
	"branchandbound": solve.BranchAndBound,
	"knapsack01":     solve.Knapsack01,
	"cuttingplane":   solve.CuttingPlane,
}

func resolveAlgorithmName(s string) (solve.Algorithm, error) {
	algo, ok := algorithmNames[strings.ToLower(s)]
	if !ok {
		return solve.AlgorithmAuto, fmt.Errorf("unknown algorithm %q", s)
	}
	return algo, nil
}

func toSettings(in dto.SolveSettingsIn) solve.Settings {
	s := solve.DefaultSettings()
	if in.MaxIterations > 0 {
		s.MaxIterations = in.MaxIterations
	}
	if in.MaxNodes > 0 {
		s.MaxNodes = in.MaxNodes
	}
	if in.MaxCuts > 0 {
		s.MaxCuts = in.MaxCuts
	}
	if in.TimeLimitSeconds > 0 {
		s.TimeLimitSeconds = in.TimeLimitSeconds
	}
	s.Verbose = in.Verbose
	s.DisablePruning = in.DisablePruning
	return s
}

func toResponse(id string, r *solve.Result) *dto.SolveResponse {
	resp := &dto.SolveResponse{
		ID:              id,
		Success:         r.Success,
		Unbounded:       r.Unbounded,
		Infeasible:      r.Infeasible,
		Cancelled:       r.Cancelled,
		Objective:       r.Objective,
		SolutionSummary: r.SolutionSummary,
		OutputText:      r.OutputText,
		RuntimeMs:       r.RuntimeMs,
		AlgorithmUsed:   r.AlgorithmUsed.String(),
		NodesUsed:       r.NodesUsed,
		CutsAdded:       r.CutsAdded,
		ParseError:      r.ParseError,
		Normalized:      r.Normalized,
	}
	return resp
}

// Solve runs a fresh solve and, on success, stores it in the last-solve
// cache, minting a new cache entry ID. Returns the response plus the model
// text used (for logging): the raw request text, or the parser's
// normalized text when parsing fails. Writes happen only on successful
// completion of a solve.
func (s *service) Solve(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, string, error) {
	algo, err := resolveAlgorithmName(req.Algorithm)
	if err != nil {
		return nil, "", shared.ErrValidation.WithDetails("reason", err.Error())
	}
	settings := toSettings(req.Settings)

	result := solve.Solve(ctx, solve.Request{Algorithm: algo, ModelText: req.ModelText, Settings: settings})
	if result.ParseError != "" {
		return toResponse("", result), result.Normalized, nil
	}

	id := ""
	if result.Success && result.Model != nil {
		entry := cache.Store(s.cacheHandle, req.ModelText, result.Model, result, settings)
		id = entry.ID.String()
		s.redisMirror.Write(ctx, entry)
	}
	return toResponse(id, result), req.ModelText, nil
}

func (s *service) lookup(id uuid.UUID) (*cache.Entry, error) {
	entry, ok := s.cacheHandle.Get(id)
	if !ok {
		return nil, shared.ErrNotFound.WithDetails("reason", "no cached solve with this id (or a newer solve has replaced it)")
	}
	return entry, nil
}

// ChangeRHS rewrites the k-th constraint's RHS in the cached raw text,
// re-parses, and re-solves with the primal simplex.
func (s *service) ChangeRHS(ctx context.Context, id uuid.UUID, req dto.ChangeRHSRequest) (*dto.SolveResponse, string, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, "", err
	}
	newText, perr := parser.ChangeRHS(entry.ModelText, req.ConstraintIndex, req.NewRHS)
	if perr != nil {
		return nil, "", shared.ErrValidation.WithDetails("reason", perr.Error())
	}
	return s.resolveAndCache(ctx, newText, solve.PrimalSimplex, entry.Settings)
}

// AddConstraint appends a new constraint line to the cached raw text,
// re-parses, and re-solves.
func (s *service) AddConstraint(ctx context.Context, id uuid.UUID, req dto.AddConstraintRequest) (*dto.SolveResponse, string, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, "", err
	}
	newText, perr := parser.AddConstraint(entry.ModelText, req.ConstraintLine)
	if perr != nil {
		return nil, "", shared.ErrValidation.WithDetails("reason", perr.Error())
	}
	return s.resolveAndCache(ctx, newText, solve.AlgorithmAuto, entry.Settings)
}

func (s *service) resolveAndCache(ctx context.Context, text string, algo solve.Algorithm, settings solve.Settings) (*dto.SolveResponse, string, error) {
	result := solve.Solve(ctx, solve.Request{Algorithm: algo, ModelText: text, Settings: settings})
	if result.ParseError != "" {
		return toResponse("", result), result.Normalized, nil
	}
	id := ""
	if result.Success && result.Model != nil {
		entry := cache.Store(s.cacheHandle, text, result.Model, result, settings)
		id = entry.ID.String()
		s.redisMirror.Write(ctx, entry)
	}
	return toResponse(id, result), text, nil
}

// ApplyDuality constructs and solves the dual of the cached model.
func (s *service) ApplyDuality(ctx context.Context, id uuid.UUID) (*dto.DualityResponse, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if entry.Result == nil || !entry.Result.Success {
		return nil, shared.ErrUnsupportedShape.WithDetails("reason", "cached solve did not produce an optimal LP")
	}

	dualModel, dualResult, derr := solve.ApplyDuality(ctx, entry.Result, entry.Settings)
	if derr != nil {
		return nil, shared.ErrUnsupportedShape.WithDetails("reason", derr.Error())
	}

	gap := 0.0
	strong := false
	if dualResult.Success && entry.Result.Objective != nil && dualResult.Objective != nil {
		gap = *entry.Result.Objective - *dualResult.Objective
		if gap < 0 {
			gap = -gap
		}
		strong = gap < 1e-6
	}

	return &dto.DualityResponse{
		DualModelText: renderModelText(dualModel),
		DualResult:    *toResponse("", dualResult),
		DualityGap:    gap,
		StrongDuality: strong,
	}, nil
}

// SensitivityNonBasic lists the index, name and reduced cost of every
// non-basic column (decision and slack columns alike) of the cached solve.
func (s *service) SensitivityNonBasic(id uuid.UUID) ([]dto.NonBasicEntry, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	payload, perr := requireSensitivity(entry)
	if perr != nil {
		return nil, perr
	}

	out := make([]dto.NonBasicEntry, 0, len(payload.NonBasicIdx))
	for _, j := range payload.NonBasicIdx {
		name := ""
		if entry.Result.Form != nil && j < len(entry.Result.Form.Names.ColumnNames) {
			name = entry.Result.Form.Names.ColumnNames[j]
		}
		out = append(out, dto.NonBasicEntry{Column: j, Name: name, ReducedCost: payload.ReducedCosts[j]})
	}
	return out, nil
}

// SensitivityRange reports the allowable-change range for column j of
// the cached solve.
func (s *service) SensitivityRange(id uuid.UUID, column int) (*dto.RangeResponse, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	payload, perr := requireSensitivity(entry)
	if perr != nil {
		return nil, perr
	}
	r := sensitivity.RangeFor(entry.Result.Form, payload, column)
	return &dto.RangeResponse{
		Column:         r.Column,
		ReducedCost:    r.ReducedCost,
		AllowableDelta: r.AllowableDelta,
		UnboundedOther: r.UnboundedOther,
		BestEffort:     payload.BestEffort,
		Note:           r.Note,
	}, nil
}

// ShadowPrices reports the dual value of every constraint in the cached
// solve.
func (s *service) ShadowPrices(id uuid.UUID) ([]dto.ShadowPriceEntry, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	payload, perr := requireSensitivity(entry)
	if perr != nil {
		return nil, perr
	}
	rows := sensitivity.ShadowPriceTable(entry.Result.Form, payload)
	out := make([]dto.ShadowPriceEntry, len(rows))
	for i, row := range rows {
		out[i] = dto.ShadowPriceEntry{Name: row.Name, RHS: row.RHS, ShadowPrice: row.ShadowPrice}
	}
	return out, nil
}

func requireSensitivity(entry *cache.Entry) (*sensitivity.Payload, error) {
	if entry.Result == nil || entry.Result.Form == nil || entry.Result.Tab == nil {
		return nil, shared.ErrUnsupportedShape.WithDetails("reason", "cached solve has no optimal tableau to analyze")
	}
	return sensitivity.Analyze(entry.Result.Form, entry.Result.Tab), nil
}

// renderModelText renders a dual model back into the engine's own text
// format, so a caller can paste it straight back into /solve.
func renderModelText(m *model.Model) string {
	var b strings.Builder
	b.WriteString(m.Direction.String())
	for _, v := range m.Variables {
		fmt.Fprintf(&b, " %s", formatCoeff(v.Coeff))
	}
	b.WriteString("\n")
	for _, c := range m.Constraints {
		for _, a := range c.Coeffs {
			fmt.Fprintf(&b, "%s ", formatCoeff(a))
		}
		fmt.Fprintf(&b, "%s %s\n", c.Rel.String(), formatCoeff(c.RHS))
	}
	for i, v := range m.Variables {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(v.Sign.String())
	}
	b.WriteString("\n")
	return b.String()
}

func formatCoeff(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
}
