package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReportSnapshotJobName is the name of the monthly report snapshot job
const ReportSnapshotJobName JobName = "report_snapshot"

// ReportSnapshotter writes the xlsx KPI report for every active brand to
// blob storage for the given month.
type ReportSnapshotter interface {
	SnapshotAll(ctx context.Context, month string) error
}

// ReportSnapshotJob archives the previous month's KPI reports shortly after
// the month closes, so historical reports stay available after fact views
// roll forward.
type ReportSnapshotJob struct {
	snapshotter ReportSnapshotter
	logger      *zap.Logger
	timeout     time.Duration
	now         func() time.Time
}

// NewReportSnapshotJob creates a new report snapshot job.
func NewReportSnapshotJob(snapshotter ReportSnapshotter, logger *zap.Logger, timeout time.Duration) *ReportSnapshotJob {
	return &ReportSnapshotJob{
		snapshotter: snapshotter,
		logger:      logger,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Run executes the report snapshot job for the month that just closed.
// This is called by the scheduler according to the cron expression.
func (j *ReportSnapshotJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	now := j.now().UTC()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -1, 0).
		Format("2006-01")

	start := time.Now()
	j.logger.Info("starting report snapshot job",
		zap.String("month", month))

	if err := j.snapshotter.SnapshotAll(ctx, month); err != nil {
		j.logger.Error("report snapshot job failed",
			zap.String("month", month),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("report snapshot job completed",
		zap.String("month", month),
		zap.Duration("duration", time.Since(start)))
}
