package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// FactViewRefreshJobName is the name of the fact view refresh job
const FactViewRefreshJobName JobName = "factview_refresh"

// FactViewRefresher refreshes a single materialized fact view by name.
// This interface allows the job to call the repository without importing
// the repository package directly.
type FactViewRefresher interface {
	Refresh(ctx context.Context, view string) error
}

// FactViewRefreshJob refreshes the materialized KPI fact views so detail
// breakdowns read near-current data. Views are refreshed one at a time, in
// dependency order, and one failed view does not stop the rest.
type FactViewRefreshJob struct {
	refresher FactViewRefresher
	views     []string
	logger    *zap.Logger
	timeout   time.Duration
}

// NewFactViewRefreshJob creates a new fact view refresh job.
// The timeout covers the whole sweep, not a single view.
func NewFactViewRefreshJob(refresher FactViewRefresher, views []string, logger *zap.Logger, timeout time.Duration) *FactViewRefreshJob {
	return &FactViewRefreshJob{
		refresher: refresher,
		views:     views,
		logger:    logger,
		timeout:   timeout,
	}
}

// Run executes the fact view refresh job.
// This is called by the scheduler according to the cron expression.
func (j *FactViewRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting fact view refresh job",
		zap.Int("view_count", len(j.views)))

	refreshed := 0
	failed := 0
	for _, view := range j.views {
		viewStart := time.Now()
		if err := j.refresher.Refresh(ctx, view); err != nil {
			j.logger.Error("fact view refresh failed",
				zap.String("view", view),
				zap.Error(err),
				zap.Duration("duration", time.Since(viewStart)))
			failed++
			continue
		}
		j.logger.Info("refreshed fact view",
			zap.String("view", view),
			zap.Duration("duration", time.Since(viewStart)))
		refreshed++
	}

	j.logger.Info("fact view refresh job completed",
		zap.Int("refreshed", refreshed),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
}
