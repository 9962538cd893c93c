package cache

import (
	"strconv"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor logs the age and hit/store counts of the process-wide last-solve
// cache on an interval, the same interval-job shape used elsewhere for
// periodic background sync, repurposed here for reporting cache health.
type Janitor struct {
	cron            *cron.Cron
	handle          *Handle
	logger          *zap.Logger
	intervalSeconds int
	isRunning       bool
}

// NewJanitor builds a cron-driven janitor; intervalSeconds <= 0 disables
// it (Start becomes a no-op).
func NewJanitor(handle *Handle, logger *zap.Logger, intervalSeconds int) *Janitor {
	return &Janitor{
		cron:            cron.New(cron.WithSeconds()),
		handle:          handle,
		logger:          logger,
		intervalSeconds: intervalSeconds,
	}
}

// Start schedules the health-log job on the configured interval. A
// non-positive interval leaves the janitor idle.
func (j *Janitor) Start() {
	if j.isRunning || j.intervalSeconds <= 0 {
		return
	}
	spec := cronEverySeconds(j.intervalSeconds)
	if _, err := j.cron.AddFunc(spec, j.logHealth); err != nil {
		j.logger.Error("failed to schedule cache janitor", zap.Error(err))
		return
	}
	j.cron.Start()
	j.isRunning = true
	j.logger.Info("last-solve cache janitor started", zap.Int("interval_seconds", j.intervalSeconds))
}

// Stop waits for the cron scheduler to drain in-flight jobs.
func (j *Janitor) Stop() {
	if !j.isRunning {
		return
	}
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.isRunning = false
}

func (j *Janitor) logHealth() {
	age, hits, stores := j.handle.Stats()
	j.logger.Info("last-solve cache health",
		zap.Duration("age", age),
		zap.Int64("hits", hits),
		zap.Int64("stores", stores),
	)
}

// cronEverySeconds builds a robfig/cron seconds-precision spec that fires
// every n seconds (n clamped to [1, 59] since the standard cron second
// field cannot express an interval spanning a minute boundary cleanly).
func cronEverySeconds(n int) string {
	if n < 1 {
		n = 1
	}
	if n > 59 {
		n = 59
	}
	return "@every " + strconv.Itoa(n) + "s"
}
