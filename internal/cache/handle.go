// Package cache holds the process-wide last-solve cache described in spec
// §5: one handle storing the most recent successful solve, replaced
// atomically on every new success, read as an immutable snapshot by the
// sensitivity and duality follow-up endpoints.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"lpdss/internal/solver/model"
	"lpdss/internal/solver/solve"
)

// Entry is one immutable snapshot of a successful solve: its original raw
// text (for "Change RHS"/"Add constraint" follow-ups, which rewrite text
// and re-solve) and the solve.Result carrying the canonical form and
// tableau the sensitivity/duality follow-ups need.
type Entry struct {
	ID        uuid.UUID
	ModelText string
	Model     *model.Model
	Result    *solve.Result
	StoredAt  time.Time
	Settings  solve.Settings
}

// Handle is a small atomic-replace wrapper around the process-wide
// last-solve cache: readers snapshot, writers replace atomically.
// Never mutate a *Entry obtained from Get/Swap in place.
type Handle struct {
	ptr atomic.Pointer[Entry]
	// hits and stores are best-effort counters surfaced by the janitor's
	// health log; they never gate correctness.
	hits   atomic.Int64
	stores atomic.Int64
}

// NewHandle returns an empty handle; created once at process start (fx
// provides it as a singleton) and cleared never, short of an explicit
// reset.
func NewHandle() *Handle {
	return &Handle{}
}

// Store replaces the cached entry, minting a fresh UUID for it. Writes
// happen only on successful completion of a solve.
func Store(h *Handle, modelText string, m *model.Model, result *solve.Result, settings solve.Settings) *Entry {
	e := &Entry{
		ID:        uuid.New(),
		ModelText: modelText,
		Model:     m,
		Result:    result,
		StoredAt:  storedAtNow(),
		Settings:  settings,
	}
	h.ptr.Store(e)
	h.stores.Add(1)
	return e
}

// Get returns the current entry if its ID matches id, or (nil, false) if
// the cache is empty, holds a different solve, or the two concurrent
// solves raced and the last writer already replaced it — callers must
// treat a miss as "re-solve from the text you have," never as an error
// worth retrying.
func (h *Handle) Get(id uuid.UUID) (*Entry, bool) {
	e := h.ptr.Load()
	if e == nil || e.ID != id {
		return nil, false
	}
	h.hits.Add(1)
	return e, true
}

// Latest returns the most recently stored entry regardless of ID, used by
// callers that only ever care about "the last solve" (none currently do,
// kept for symmetry with Get's snapshot-read style).
func (h *Handle) Latest() (*Entry, bool) {
	e := h.ptr.Load()
	return e, e != nil
}

// Stats reports the janitor's health-log counters: age of the current
// entry (zero if empty) and lifetime hit/store counts.
func (h *Handle) Stats() (age time.Duration, hits, stores int64) {
	e := h.ptr.Load()
	if e == nil {
		return 0, h.hits.Load(), h.stores.Load()
	}
	return time.Since(e.StoredAt), h.hits.Load(), h.stores.Load()
}

func storedAtNow() time.Time {
	return time.Now()
}
