package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisMirrorKey = "lpdss:last_solve"

// snapshot is the JSON-encoded shape written to Redis: enough to answer
// "what was the last solve" from a second process, without reconstructing
// a full tableau (which stays process-local; two concurrent solves never
// share tableau memory).
type snapshot struct {
	ID              string   `json:"id"`
	ModelText       string   `json:"model_text"`
	Success         bool     `json:"success"`
	Unbounded       bool     `json:"unbounded"`
	Infeasible      bool     `json:"infeasible"`
	Objective       *float64 `json:"objective,omitempty"`
	SolutionSummary string   `json:"solution_summary"`
	RuntimeMs       int64    `json:"runtime_ms"`
	StoredAt        int64    `json:"stored_at_unix_ms"`
}

// RedisMirror best-effort-writes a JSON snapshot of the last solve to
// Redis after every successful in-process Store, so a second process
// (e.g. a read replica serving sensitivity follow-ups) can observe the
// same last-solve state. A nil client disables the mirror entirely.
type RedisMirror struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisMirror wraps client; pass nil to get a no-op mirror (matching
// config.NewRedisClient's "Redis unavailable" contract).
func NewRedisMirror(client *redis.Client, logger *zap.Logger) *RedisMirror {
	return &RedisMirror{client: client, logger: logger}
}

// Write mirrors e to Redis, logging (never blocking or failing the
// caller) if the write does not complete within a short deadline.
func (m *RedisMirror) Write(ctx context.Context, e *Entry) {
	if m == nil || m.client == nil || e == nil {
		return
	}

	s := snapshot{
		ID:        e.ID.String(),
		ModelText: e.ModelText,
		StoredAt:  e.StoredAt.UnixMilli(),
	}
	if e.Result != nil {
		s.Success = e.Result.Success
		s.Unbounded = e.Result.Unbounded
		s.Infeasible = e.Result.Infeasible
		s.Objective = e.Result.Objective
		s.SolutionSummary = e.Result.SolutionSummary
		s.RuntimeMs = e.Result.RuntimeMs
	}

	payload, err := json.Marshal(s)
	if err != nil {
		m.logger.Warn("failed to marshal last-solve snapshot for redis mirror", zap.Error(err))
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.client.Set(writeCtx, redisMirrorKey, payload, 0).Err(); err != nil {
		m.logger.Warn("redis last-solve mirror write failed", zap.Error(err))
	}
}
