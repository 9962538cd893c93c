// Package dto holds the JSON request/response shapes for the solver HTTP
// surface.
package dto

// SolveRequest is the body of POST /api/v1/solver/solve.
type SolveRequest struct {
	Algorithm string          `json:"algorithm"` // "", "PrimalSimplex", "RevisedSimplex", "DualSimplex", "BranchAndBound", "Knapsack01", "CuttingPlane"
	ModelText string          `json:"modelText" binding:"required"`
	Settings  SolveSettingsIn `json:"settings"`
}

// SolveSettingsIn is the resource-cap and presentation settings block.
type SolveSettingsIn struct {
	MaxIterations    int  `json:"maxIterations"`
	MaxNodes         int  `json:"maxNodes"`
	MaxCuts          int  `json:"maxCuts"`
	Verbose          bool `json:"verbose"`
	TimeLimitSeconds int  `json:"timeLimitSeconds"`
	DisablePruning   bool `json:"disablePruning"`
}

// SolveResponse is the JSON payload returned from a solve run.
type SolveResponse struct {
	ID              string   `json:"id,omitempty"`
	Success         bool     `json:"success"`
	Unbounded       bool     `json:"unbounded"`
	Infeasible      bool     `json:"infeasible"`
	Cancelled       bool     `json:"cancelled"`
	Objective       *float64 `json:"objective"`
	SolutionSummary string   `json:"solutionSummary"`
	OutputText      string   `json:"outputText"`
	RuntimeMs       int64    `json:"runtimeMs"`
	AlgorithmUsed   string   `json:"algorithmUsed"`
	NodesUsed       int      `json:"nodesUsed,omitempty"`
	CutsAdded       int      `json:"cutsAdded,omitempty"`
	ParseError      string   `json:"parseError,omitempty"`
	Normalized      string   `json:"normalizedInput,omitempty"`
}

// ChangeRHSRequest is the body of POST /solve/:id/rhs.
type ChangeRHSRequest struct {
	ConstraintIndex int     `json:"constraintIndex"`
	NewRHS          float64 `json:"newRhs"`
}

// AddConstraintRequest is the body of POST /solve/:id/constraint.
type AddConstraintRequest struct {
	ConstraintLine string `json:"constraintLine" binding:"required"`
}

// DualityResponse is the body returned by POST /solve/:id/duality.
type DualityResponse struct {
	DualModelText string        `json:"dualModelText"`
	DualResult    SolveResponse `json:"dualResult"`
	DualityGap    float64       `json:"dualityGap"`
	StrongDuality bool          `json:"strongDuality"`
}

// NonBasicEntry is one row of the nonbasic-list follow-up response.
type NonBasicEntry struct {
	Column      int     `json:"column"`
	Name        string  `json:"name"`
	ReducedCost float64 `json:"reducedCost"`
}

// RangeResponse is the body returned by the sensitivity-range follow-up.
type RangeResponse struct {
	Column          int     `json:"column"`
	ReducedCost     float64 `json:"reducedCost"`
	AllowableDelta  float64 `json:"allowableDelta"`
	UnboundedOther  bool    `json:"unboundedOther"`
	BestEffort      bool    `json:"bestEffort"`
	Note            string  `json:"note,omitempty"`
}

// ShadowPriceEntry is one row of the shadow-prices follow-up response.
type ShadowPriceEntry struct {
	Name        string  `json:"name"`
	RHS         float64 `json:"rhs"`
	ShadowPrice float64 `json:"shadowPrice"`
}
